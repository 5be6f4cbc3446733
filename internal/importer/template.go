package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
)

// WriteTemplateCSV writes the import template header row.
func WriteTemplateCSV(w io.Writer, template models.ImportTemplate) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	if err := writer.Write(headers); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// BuildTemplateXLSX builds a downloadable workbook: a styled header sheet,
// an Instructions sheet with column definitions, and a Reference sheet
// listing the tenant's current categories and subcategories so staff can
// copy exact names.
func BuildTemplateXLSX(template models.ImportTemplate, categories []models.Category, subcategories []models.Subcategory) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range template.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	writeInstructionsSheet(f, template)
	writeReferenceSheet(f, categories, subcategories)

	sheetIdx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(sheetIdx)
	return f, nil
}

func writeInstructionsSheet(f *excelize.File, template models.ImportTemplate) {
	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Product Import Instructions")

	f.SetCellValue("Instructions", "A3", "PRICING MODES:")
	f.SetCellValue("Instructions", "A4", "- Flat pricing (useDynamicPricing=false or blank): 'price' is required.")
	f.SetCellValue("Instructions", "A5", "- Dynamic pricing (useDynamicPricing=true): 'weightInGrams' and 'metalType' are required; 'price' is ignored.")
	f.SetCellValue("Instructions", "A6", "- A row never needs both; fill the fields of the mode you chose.")

	f.SetCellValue("Instructions", "A8", "IMAGES:")
	f.SetCellValue("Instructions", "A9", "- Use full URLs, or bundle this spreadsheet with image files in a ZIP and reference them by filename.")
	f.SetCellValue("Instructions", "A10", "- Filenames that are not found in the ZIP are skipped; the product is still created.")

	f.SetCellValue("Instructions", "A12", "CATEGORIES:")
	f.SetCellValue("Instructions", "A13", "- 'category' and 'subcategory' accept the name or the slug, in any letter case.")
	f.SetCellValue("Instructions", "A14", "- The subcategory must belong to the category on the same row. See the Reference sheet for valid values.")

	f.SetCellValue("Instructions", "A16", "Column Definitions:")
	f.SetCellValue("Instructions", "A17", "Column")
	f.SetCellValue("Instructions", "B17", "Description")
	f.SetCellValue("Instructions", "C17", "Required")
	f.SetCellValue("Instructions", "D17", "Type")
	f.SetCellValue("Instructions", "E17", "Example")

	for i, col := range template.Columns {
		row := i + 18
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), col.Description)
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue("Instructions", fmt.Sprintf("C%d", row), required)
		f.SetCellValue("Instructions", fmt.Sprintf("D%d", row), col.Type)
		f.SetCellValue("Instructions", fmt.Sprintf("E%d", row), col.Example)
	}

	f.SetColWidth("Instructions", "A", "A", 25)
	f.SetColWidth("Instructions", "B", "B", 60)
	f.SetColWidth("Instructions", "C", "C", 15)
	f.SetColWidth("Instructions", "D", "D", 15)
	f.SetColWidth("Instructions", "E", "E", 40)
}

func writeReferenceSheet(f *excelize.File, categories []models.Category, subcategories []models.Subcategory) {
	f.NewSheet("Reference")
	f.SetCellValue("Reference", "A1", "Category")
	f.SetCellValue("Reference", "B1", "Category Slug")
	f.SetCellValue("Reference", "C1", "Subcategory")
	f.SetCellValue("Reference", "D1", "Subcategory Slug")

	byCategory := make(map[string][]models.Subcategory, len(categories))
	for _, sub := range subcategories {
		byCategory[sub.CategoryID] = append(byCategory[sub.CategoryID], sub)
	}

	row := 2
	for _, cat := range categories {
		subs := byCategory[cat.ID]
		if len(subs) == 0 {
			f.SetCellValue("Reference", fmt.Sprintf("A%d", row), cat.Name)
			f.SetCellValue("Reference", fmt.Sprintf("B%d", row), cat.Slug)
			row++
			continue
		}
		for _, sub := range subs {
			f.SetCellValue("Reference", fmt.Sprintf("A%d", row), cat.Name)
			f.SetCellValue("Reference", fmt.Sprintf("B%d", row), cat.Slug)
			f.SetCellValue("Reference", fmt.Sprintf("C%d", row), sub.Name)
			f.SetCellValue("Reference", fmt.Sprintf("D%d", row), sub.Slug)
			row++
		}
	}

	f.SetColWidth("Reference", "A", "D", 25)
}
