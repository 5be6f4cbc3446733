package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func testCategories() []models.Category {
	return []models.Category{
		{ID: "cat-1", Name: "Rings", Slug: "rings"},
		{ID: "cat-2", Name: "Necklaces", Slug: "necklaces"},
	}
}

func testSubcategories() []models.Subcategory {
	return []models.Subcategory{
		{ID: "sub-1", CategoryID: "cat-1", Name: "Gold Rings", Slug: "gold-rings"},
		{ID: "sub-2", CategoryID: "cat-2", Name: "Chains", Slug: "chains"},
	}
}

func TestTaxonomyIndexResolvesNameAndSlug(t *testing.T) {
	idx, err := NewTaxonomyIndex(testCategories(), testSubcategories())
	require.NoError(t, err)

	id, ok := idx.Category("Rings")
	assert.True(t, ok)
	assert.Equal(t, "cat-1", id)

	id, ok = idx.Category("necklaces")
	assert.True(t, ok)
	assert.Equal(t, "cat-2", id)

	subID, parentID, ok := idx.Subcategory("Gold Rings")
	assert.True(t, ok)
	assert.Equal(t, "sub-1", subID)
	assert.Equal(t, "cat-1", parentID)

	subID, parentID, ok = idx.Subcategory("gold-rings")
	assert.True(t, ok)
	assert.Equal(t, "sub-1", subID)
	assert.Equal(t, "cat-1", parentID)
}

func TestTaxonomyIndexCaseAndWhitespaceInsensitive(t *testing.T) {
	idx, err := NewTaxonomyIndex(testCategories(), testSubcategories())
	require.NoError(t, err)

	id, ok := idx.Category("  RINGS ")
	assert.True(t, ok)
	assert.Equal(t, "cat-1", id)

	_, _, ok = idx.Subcategory(" CHAINS ")
	assert.True(t, ok)
}

func TestTaxonomyIndexUnknownReference(t *testing.T) {
	idx, err := NewTaxonomyIndex(testCategories(), testSubcategories())
	require.NoError(t, err)

	_, ok := idx.Category("Bracelets")
	assert.False(t, ok)

	_, _, ok = idx.Subcategory("Pendants")
	assert.False(t, ok)
}

func TestTaxonomyIndexRejectsCategoryCollision(t *testing.T) {
	categories := []models.Category{
		{ID: "cat-1", Name: "Rings", Slug: "rings"},
		{ID: "cat-2", Name: "RINGS", Slug: "rings-2"},
	}

	_, err := NewTaxonomyIndex(categories, nil)

	assert.ErrorIs(t, err, ErrAmbiguousTaxonomy)
}

func TestTaxonomyIndexRejectsSubcategoryCollision(t *testing.T) {
	subcategories := []models.Subcategory{
		{ID: "sub-1", CategoryID: "cat-1", Name: "Chains", Slug: "chains"},
		{ID: "sub-2", CategoryID: "cat-2", Name: "chains", Slug: "chains-2"},
	}

	_, err := NewTaxonomyIndex(testCategories(), subcategories)

	assert.ErrorIs(t, err, ErrAmbiguousTaxonomy)
}

func TestTaxonomyIndexAllowsNameSlugOverlapOnSameEntry(t *testing.T) {
	categories := []models.Category{
		{ID: "cat-1", Name: "rings", Slug: "rings"},
	}

	idx, err := NewTaxonomyIndex(categories, nil)
	require.NoError(t, err)

	id, ok := idx.Category("rings")
	assert.True(t, ok)
	assert.Equal(t, "cat-1", id)
}
