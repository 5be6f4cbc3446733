package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func testTaxonomy(t *testing.T) *TaxonomyIndex {
	t.Helper()
	idx, err := NewTaxonomyIndex(testCategories(), testSubcategories())
	require.NoError(t, err)
	return idx
}

func rowFromMap(ordinal int, cells map[string]Cell) RawRow {
	return RawRow{Ordinal: ordinal, Cells: cells}
}

func errorFields(errs []models.ImportRowError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidateRowHappyPathFlatPricing(t *testing.T) {
	row := rowFromMap(2, map[string]Cell{
		"name":        textCell("Classic Gold Band"),
		"category":    textCell("Rings"),
		"subcategory": textCell("Gold Rings"),
		"price":       textCell("4999"),
		"sku":         textCell("RNG-001"),
		"stock":       textCell("10"),
		"images":      textCell("https://cdn.example.com/a.jpg, ring1.jpg"),
	})

	resolved, errs := ValidateRow(row, testTaxonomy(t))

	require.Empty(t, errs)
	assert.Equal(t, 2, resolved.Ordinal)
	assert.Equal(t, "Classic Gold Band", resolved.Name)
	assert.Equal(t, "cat-1", resolved.CategoryID)
	assert.Equal(t, "sub-1", resolved.SubcategoryID)
	require.NotNil(t, resolved.Price)
	assert.Equal(t, 4999.0, *resolved.Price)
	require.NotNil(t, resolved.Stock)
	assert.Equal(t, 10, *resolved.Stock)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "ring1.jpg"}, resolved.ImageRefs)
	assert.False(t, resolved.UseDynamicPricing)
}

func TestValidateRowHappyPathDynamicPricing(t *testing.T) {
	row := rowFromMap(3, map[string]Cell{
		"name":              textCell("22KT Chain"),
		"category":          textCell("Necklaces"),
		"subcategory":       textCell("Chains"),
		"useDynamicPricing": textCell("yes"),
		"weightInGrams":     textCell("12.5"),
		"metalType":         textCell("22KT"),
	})

	resolved, errs := ValidateRow(row, testTaxonomy(t))

	require.Empty(t, errs)
	assert.True(t, resolved.UseDynamicPricing)
	require.NotNil(t, resolved.WeightInGrams)
	assert.Equal(t, 12.5, *resolved.WeightInGrams)
	require.NotNil(t, resolved.MetalType)
	assert.Equal(t, "22KT", *resolved.MetalType)
	assert.Nil(t, resolved.Price)
}

func TestValidateRowCollectsAllErrors(t *testing.T) {
	row := rowFromMap(4, map[string]Cell{
		"name":           textCell(""),
		"category":       textCell("Bracelets"),
		"subcategory":    textCell("Pendants"),
		"price":          textCell("abc"),
		"compareAtPrice": textCell("-5"),
		"stock":          textCell("-1"),
	})

	_, errs := ValidateRow(row, testTaxonomy(t))

	fields := errorFields(errs)
	assert.ElementsMatch(t, []string{"name", "category", "subcategory", "price", "compareAtPrice", "stock"}, fields)
	for _, e := range errs {
		assert.Equal(t, 4, e.Row)
	}
}

func TestValidateRowMissingRequiredColumns(t *testing.T) {
	row := rowFromMap(2, map[string]Cell{
		"price": textCell("100"),
	})

	_, errs := ValidateRow(row, testTaxonomy(t))

	fields := errorFields(errs)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "subcategory")
}

func TestValidateRowSubcategoryParentMismatch(t *testing.T) {
	row := rowFromMap(5, map[string]Cell{
		"name":        textCell("Odd Pairing"),
		"category":    textCell("Rings"),
		"subcategory": textCell("Chains"),
		"price":       textCell("100"),
	})

	_, errs := ValidateRow(row, testTaxonomy(t))

	require.Len(t, errs, 1)
	assert.Equal(t, "subcategory", errs[0].Field)
	assert.Equal(t, `subcategory "Chains" does not belong to category "Rings"`, errs[0].Message)
}

func TestValidateRowDynamicPricingRequiresWeightAndMetal(t *testing.T) {
	row := rowFromMap(6, map[string]Cell{
		"name":              textCell("Chain"),
		"category":          textCell("Necklaces"),
		"subcategory":       textCell("Chains"),
		"useDynamicPricing": textCell("true"),
	})

	_, errs := ValidateRow(row, testTaxonomy(t))

	fields := errorFields(errs)
	assert.ElementsMatch(t, []string{"weightInGrams", "metalType"}, fields)
}

func TestValidateRowDynamicPricingRejectsZeroWeight(t *testing.T) {
	row := rowFromMap(6, map[string]Cell{
		"name":              textCell("Chain"),
		"category":          textCell("Necklaces"),
		"subcategory":       textCell("Chains"),
		"useDynamicPricing": textCell("1"),
		"weightInGrams":     textCell("0"),
		"metalType":         textCell("22KT"),
	})

	_, errs := ValidateRow(row, testTaxonomy(t))

	require.Len(t, errs, 1)
	assert.Equal(t, "weightInGrams", errs[0].Field)
}

func TestValidateRowFlatPricingRequiresPrice(t *testing.T) {
	row := rowFromMap(7, map[string]Cell{
		"name":        textCell("Ring"),
		"category":    textCell("Rings"),
		"subcategory": textCell("Gold Rings"),
	})

	_, errs := ValidateRow(row, testTaxonomy(t))

	require.Len(t, errs, 1)
	assert.Equal(t, "price", errs[0].Field)
}

func TestValidateRowZeroPriceIsValid(t *testing.T) {
	row := rowFromMap(7, map[string]Cell{
		"name":        textCell("Freebie"),
		"category":    textCell("Rings"),
		"subcategory": textCell("Gold Rings"),
		"price":       textCell("0"),
	})

	resolved, errs := ValidateRow(row, testTaxonomy(t))

	require.Empty(t, errs)
	require.NotNil(t, resolved.Price)
	assert.Equal(t, 0.0, *resolved.Price)
}

func TestValidateRowFilterValues(t *testing.T) {
	row := rowFromMap(8, map[string]Cell{
		"name":         textCell("Ring"),
		"category":     textCell("Rings"),
		"subcategory":  textCell("Gold Rings"),
		"price":        textCell("100"),
		"filterValues": textCell(`{"occasion":"wedding","gender":"women"}`),
	})

	resolved, errs := ValidateRow(row, testTaxonomy(t))

	require.Empty(t, errs)
	assert.Equal(t, map[string]string{"occasion": "wedding", "gender": "women"}, resolved.FilterValues)
}

func TestValidateRowMalformedFilterValuesDropped(t *testing.T) {
	row := rowFromMap(8, map[string]Cell{
		"name":         textCell("Ring"),
		"category":     textCell("Rings"),
		"subcategory":  textCell("Gold Rings"),
		"price":        textCell("100"),
		"filterValues": textCell(`{not json`),
	})

	resolved, errs := ValidateRow(row, testTaxonomy(t))

	require.Empty(t, errs)
	assert.Nil(t, resolved.FilterValues)
}

func TestValidateRowSplitsAndTrimsImageRefs(t *testing.T) {
	row := rowFromMap(9, map[string]Cell{
		"name":        textCell("Ring"),
		"category":    textCell("Rings"),
		"subcategory": textCell("Gold Rings"),
		"price":       textCell("100"),
		"images":      textCell(" a.jpg ,, b.jpg , "),
	})

	resolved, errs := ValidateRow(row, testTaxonomy(t))

	require.Empty(t, errs)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, resolved.ImageRefs)
}
