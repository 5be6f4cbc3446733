package importer

import (
	"strconv"
	"strings"
)

// CellKind discriminates the value variants a spreadsheet cell can carry.
type CellKind int

const (
	CellAbsent CellKind = iota // column not present in this row
	CellText
	CellNumber
	CellBool
)

// Cell is a tagged spreadsheet value. An absent cell (column omitted or
// truncated from the row) is distinct from a present-but-empty text cell.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Bool   bool
}

func absentCell() Cell           { return Cell{Kind: CellAbsent} }
func textCell(s string) Cell     { return Cell{Kind: CellText, Text: s} }
func numberCell(n float64) Cell  { return Cell{Kind: CellNumber, Number: n} }
func boolCell(b bool) Cell       { return Cell{Kind: CellBool, Bool: b} }

// IsAbsent reports whether the column was missing from the row entirely.
func (c Cell) IsAbsent() bool { return c.Kind == CellAbsent }

// IsBlank reports whether the cell carries no usable value: absent, or text
// that is empty after trimming.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellAbsent:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// AsString returns the trimmed text form of the cell.
func (c Cell) AsString() string {
	switch c.Kind {
	case CellText:
		return strings.TrimSpace(c.Text)
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// AsNumber coerces the cell to a float64. Native number cells pass through;
// numeric-looking text is parsed. Bools and non-numeric text do not coerce.
func (c Cell) AsNumber() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellText:
		n, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// AsBool coerces the cell to a boolean. The truthy text forms are
// "true", "yes" and "1" (case-insensitive); everything else is false.
func (c Cell) AsBool() bool {
	switch c.Kind {
	case CellBool:
		return c.Bool
	case CellNumber:
		return c.Number == 1
	case CellText:
		switch strings.ToLower(strings.TrimSpace(c.Text)) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}

// Raw returns the underlying value for error diagnostics.
func (c Cell) Raw() interface{} {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return c.Number
	case CellBool:
		return c.Bool
	default:
		return nil
	}
}

// RawRow is one decoded spreadsheet row. Ordinal is the 1-based position in
// the sheet counting the header as row 1, so the first data row is 2.
type RawRow struct {
	Ordinal int
	Cells   map[string]Cell
}

// Cell returns the named cell, or an absent cell when the column is missing.
func (r RawRow) Cell(name string) Cell {
	if c, ok := r.Cells[name]; ok {
		return c
	}
	return absentCell()
}
