package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"catalog-service/internal/models"
)

// ResolvedRow is a RawRow that passed every validation rule: taxonomy
// references substituted with identifiers, numeric fields coerced, image
// references split out. Only materialized when the whole batch is valid.
type ResolvedRow struct {
	Ordinal           int
	Name              string
	CategoryID        string
	SubcategoryID     string
	Description       *string
	ShortDescription  *string
	SKU               *string
	Price             *float64
	CompareAtPrice    *float64
	Stock             *int
	IsActive          *bool
	IsFeatured        *bool
	DisplayOrder      *int
	ImageRefs         []string
	FilterValues      map[string]string
	WeightInGrams     *float64
	MetalType         *string
	UseDynamicPricing bool

	// Images holds the final URL list after image resolution.
	Images []string
}

// ValidateRow applies every validation rule to a row and returns the
// complete error list. All rules run; a row can carry several simultaneous
// errors. The resolved row is meaningful only when the error list is empty.
func ValidateRow(row RawRow, taxonomy *TaxonomyIndex) (ResolvedRow, []models.ImportRowError) {
	var errs []models.ImportRowError
	addError := func(field, message string, value interface{}) {
		errs = append(errs, models.ImportRowError{
			Row:     row.Ordinal,
			Field:   field,
			Message: message,
			Value:   value,
		})
	}

	resolved := ResolvedRow{Ordinal: row.Ordinal}

	// Rule 1: name
	name := row.Cell("name")
	if name.IsBlank() {
		addError("name", "name is required", nil)
	} else {
		resolved.Name = name.AsString()
	}

	// Rules 2-3: taxonomy membership and parent/child consistency
	categoryID, categoryOK := "", false
	category := row.Cell("category")
	if category.IsBlank() {
		addError("category", "category is required", nil)
	} else if categoryID, categoryOK = taxonomy.Category(category.AsString()); !categoryOK {
		addError("category", fmt.Sprintf("category %q not found", category.AsString()), category.Raw())
	} else {
		resolved.CategoryID = categoryID
	}

	subcategory := row.Cell("subcategory")
	if subcategory.IsBlank() {
		addError("subcategory", "subcategory is required", nil)
	} else if subID, parentID, ok := taxonomy.Subcategory(subcategory.AsString()); !ok {
		addError("subcategory", fmt.Sprintf("subcategory %q not found", subcategory.AsString()), subcategory.Raw())
	} else if categoryOK && parentID != categoryID {
		addError("subcategory",
			fmt.Sprintf("subcategory %q does not belong to category %q", subcategory.AsString(), category.AsString()),
			subcategory.Raw())
	} else {
		resolved.SubcategoryID = subID
	}

	// Rule 4: pricing-mode exclusivity. The dynamic branch requires weight
	// and metal type; the flat branch requires price. Never both.
	resolved.UseDynamicPricing = row.Cell("useDynamicPricing").AsBool()
	if resolved.UseDynamicPricing {
		weight := row.Cell("weightInGrams")
		if n, ok := weight.AsNumber(); !ok || n <= 0 {
			addError("weightInGrams", "weightInGrams must be a positive number when useDynamicPricing is true", weight.Raw())
		} else {
			resolved.WeightInGrams = &n
		}
		metal := row.Cell("metalType")
		if metal.IsBlank() {
			addError("metalType", "metalType is required when useDynamicPricing is true", nil)
		} else {
			m := metal.AsString()
			resolved.MetalType = &m
		}
	} else {
		price := row.Cell("price")
		if n, ok := price.AsNumber(); !ok || n < 0 {
			addError("price", "price must be a non-negative number when useDynamicPricing is false", price.Raw())
		} else {
			resolved.Price = &n
		}
	}

	// Rule 5: compareAtPrice, when present
	if compareAt := row.Cell("compareAtPrice"); !compareAt.IsBlank() {
		if n, ok := compareAt.AsNumber(); !ok || n < 0 {
			addError("compareAtPrice", "compareAtPrice must be a non-negative number", compareAt.Raw())
		} else {
			resolved.CompareAtPrice = &n
		}
	}

	// Rule 6: stock, when present
	if stock := row.Cell("stock"); !stock.IsBlank() {
		if n, ok := stock.AsNumber(); !ok || n < 0 {
			addError("stock", "stock must be a non-negative number", stock.Raw())
		} else {
			s := int(n)
			resolved.Stock = &s
		}
	}

	resolved.Description = optionalText(row.Cell("description"))
	resolved.ShortDescription = optionalText(row.Cell("shortDescription"))
	resolved.SKU = optionalText(row.Cell("sku"))
	resolved.IsActive = optionalBool(row.Cell("isActive"))
	resolved.IsFeatured = optionalBool(row.Cell("isFeatured"))
	resolved.DisplayOrder = optionalInt(row.Cell("displayOrder"))
	resolved.ImageRefs = splitImageRefs(row.Cell("images"))
	resolved.FilterValues = parseFilterValues(row.Cell("filterValues"))

	return resolved, errs
}

func optionalText(c Cell) *string {
	if c.IsBlank() {
		return nil
	}
	s := c.AsString()
	return &s
}

func optionalBool(c Cell) *bool {
	if c.IsBlank() {
		return nil
	}
	b := c.AsBool()
	return &b
}

func optionalInt(c Cell) *int {
	if c.IsBlank() {
		return nil
	}
	if n, ok := c.AsNumber(); ok {
		i := int(n)
		return &i
	}
	return nil
}

// splitImageRefs splits the comma-separated images field into trimmed,
// non-empty reference strings (URLs or archive filenames).
func splitImageRefs(c Cell) []string {
	if c.IsBlank() {
		return nil
	}
	var refs []string
	for _, part := range strings.Split(c.AsString(), ",") {
		if ref := strings.TrimSpace(part); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

// parseFilterValues decodes the JSON-encoded filterValues object. Malformed
// input is dropped rather than failing the row; filters are optional
// presentation metadata.
func parseFilterValues(c Cell) map[string]string {
	if c.IsBlank() {
		return nil
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(c.AsString()), &values); err != nil {
		return nil
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
