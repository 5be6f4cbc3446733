package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyFile indicates the spreadsheet held no data rows.
	ErrEmptyFile = errors.New("spreadsheet contains no data rows")
	// ErrUnsupportedFormat indicates the file extension is not a supported
	// spreadsheet format.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
)

// DecodeSpreadsheet parses spreadsheet bytes into ordered RawRows using the
// header row as field names. The format is chosen by filename extension.
// Row ordinals count the header as row 1, so the first data row is 2.
func DecodeSpreadsheet(data []byte, filename string) ([]RawRow, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return decodeCSV(data)
	case strings.HasSuffix(lower, ".xlsx"):
		return decodeXLSX(data)
	case strings.HasSuffix(lower, ".xls"):
		// Legacy BIFF workbooks are not readable; callers get a clear error
		// instead of a parse failure deep inside the decoder.
		return nil, fmt.Errorf("%w: legacy .xls is not supported, save as .xlsx or .csv", ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// normalizeHeader trims whitespace and the required-column marker the
// downloadable template appends to header names.
func normalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimSuffix(h, " *")
	return strings.TrimSpace(h)
}

func decodeCSV(data []byte) ([]RawRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range headers {
		headers[i] = normalizeHeader(headers[i])
	}

	var rows []RawRow
	ordinal := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV line %d: %w", ordinal+1, err)
		}
		ordinal++

		cells := make(map[string]Cell, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				cells[header] = textCell(record[i])
			}
		}
		rows = append(rows, RawRow{Ordinal: ordinal, Cells: cells})
	}
	return rows, nil
}

func decodeXLSX(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	sheetRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(sheetRows) == 0 {
		return nil, nil
	}

	headers := sheetRows[0]
	for i := range headers {
		headers[i] = normalizeHeader(headers[i])
	}

	var rows []RawRow
	for idx, sheetRow := range sheetRows[1:] {
		cells := make(map[string]Cell, len(headers))
		for i, header := range headers {
			if header == "" || i >= len(sheetRow) {
				continue
			}
			cells[header] = typedCell(sheetRow[i])
		}
		rows = append(rows, RawRow{Ordinal: idx + 2, Cells: cells})
	}
	return rows, nil
}

// typedCell infers the value variant of a workbook cell. Excelize returns
// formatted strings, so native number and boolean cells arrive as their
// canonical text forms.
func typedCell(value string) Cell {
	trimmed := strings.TrimSpace(value)
	switch trimmed {
	case "TRUE":
		return boolCell(true)
	case "FALSE":
		return boolCell(false)
	}
	if trimmed != "" {
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return numberCell(n)
		}
	}
	return textCell(value)
}
