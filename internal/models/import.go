package models

import "time"

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
	ImportFormatZIP  ImportFormat = "zip"
)

// ImportRowError represents a validation or insertion error for a specific
// row. Row is the 1-based spreadsheet position counting the header as row 1.
type ImportRowError struct {
	Row     int         `json:"row"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ImportResult is the sole return value of the import pipeline. Validation
// failures report success=false with zero writes; after validation passes,
// per-row insertion failures are reported with mixed counts.
type ImportResult struct {
	Success         bool             `json:"success"`
	Message         string           `json:"message"`
	TotalRows       int              `json:"totalRows"`
	SuccessCount    int              `json:"successCount"`
	ErrorCount      int              `json:"errorCount"`
	Errors          []ImportRowError `json:"errors"`
	CreatedProducts []string         `json:"createdProducts,omitempty"`

	// PartialCommit is set when validation passed but some rows failed
	// during insertion. Not serialized; handlers use it for status mapping.
	PartialCommit bool `json:"-"`
}

// Asset is a bookkeeping record for a file stored in object storage.
type Asset struct {
	ID        string    `json:"id" bson:"_id"`
	TenantID  string    `json:"tenantId" bson:"tenantId"`
	URL       string    `json:"url" bson:"url"`
	Key       string    `json:"key" bson:"key"`
	MimeType  string    `json:"mimeType" bson:"mimeType"`
	Size      int64     `json:"size" bson:"size"`
	RefType   string    `json:"refType" bson:"refType"`
	RefID     string    `json:"refId" bson:"refId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, boolean, json
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// ProductImportColumns returns the column definitions for product import.
// Header names are case-sensitive as written here.
func ProductImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "name", Description: "Product name", Required: true, Type: "string", Example: "Classic Gold Band"},
		{Name: "category", Description: "Category name or slug (must exist)", Required: true, Type: "string", Example: "Rings"},
		{Name: "subcategory", Description: "Subcategory name or slug (must belong to the category)", Required: true, Type: "string", Example: "Gold Rings"},
		{Name: "description", Description: "Full product description", Required: false, Type: "string", Example: ""},
		{Name: "shortDescription", Description: "One-line description for listings", Required: false, Type: "string", Example: ""},
		{Name: "price", Description: "Flat price; required when useDynamicPricing is false", Required: false, Type: "number", Example: "4999"},
		{Name: "compareAtPrice", Description: "Strike-through price", Required: false, Type: "number", Example: ""},
		{Name: "sku", Description: "Stock keeping unit", Required: false, Type: "string", Example: "RNG-GLD-001"},
		{Name: "stock", Description: "Units in stock (default 0)", Required: false, Type: "number", Example: "10"},
		{Name: "isActive", Description: "Visible on storefront (default true)", Required: false, Type: "boolean", Example: "true"},
		{Name: "isFeatured", Description: "Show in featured sections (default false)", Required: false, Type: "boolean", Example: "false"},
		{Name: "displayOrder", Description: "Sort position (default 0)", Required: false, Type: "number", Example: "0"},
		{Name: "images", Description: "Comma-separated URLs and/or filenames inside the ZIP", Required: false, Type: "string", Example: "https://cdn.example.com/a.jpg,ring1.jpg"},
		{Name: "filterValues", Description: "JSON object of filter attributes", Required: false, Type: "json", Example: `{"occasion":"wedding"}`},
		{Name: "weightInGrams", Description: "Metal weight; required when useDynamicPricing is true", Required: false, Type: "number", Example: "5.2"},
		{Name: "metalType", Description: "Metal/purity; required when useDynamicPricing is true", Required: false, Type: "string", Example: "22KT"},
		{Name: "useDynamicPricing", Description: "true to price by weight and metal rate", Required: false, Type: "boolean", Example: "false"},
	}
}

// ProductImportTemplate returns the template definition for products
func ProductImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: ProductImportColumns(),
	}
}
