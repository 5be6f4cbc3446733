package importer

import (
	"errors"
	"fmt"
	"strings"

	"catalog-service/internal/models"
)

// ErrAmbiguousTaxonomy indicates two distinct categories or subcategories
// normalize to the same lookup key, which would make row resolution
// nondeterministic. The catalog enforces case-folded uniqueness on create;
// this is the resolver-side backstop.
var ErrAmbiguousTaxonomy = errors.New("ambiguous taxonomy")

type subcategoryEntry struct {
	ID         string
	CategoryID string
}

// TaxonomyIndex resolves category and subcategory references by name or
// slug, case-insensitively. It is built fresh from store state for each
// import request and never shared across requests.
type TaxonomyIndex struct {
	categories    map[string]string
	subcategories map[string]subcategoryEntry
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewTaxonomyIndex builds the lookup tables from the current category and
// subcategory sets. Both the display name and the slug of every entry
// resolve to the same identifier.
func NewTaxonomyIndex(categories []models.Category, subcategories []models.Subcategory) (*TaxonomyIndex, error) {
	idx := &TaxonomyIndex{
		categories:    make(map[string]string, len(categories)*2),
		subcategories: make(map[string]subcategoryEntry, len(subcategories)*2),
	}

	for _, cat := range categories {
		for _, key := range []string{foldKey(cat.Name), foldKey(cat.Slug)} {
			if key == "" {
				continue
			}
			if existing, ok := idx.categories[key]; ok && existing != cat.ID {
				return nil, fmt.Errorf("%w: category %q collides with another category", ErrAmbiguousTaxonomy, key)
			}
			idx.categories[key] = cat.ID
		}
	}

	for _, sub := range subcategories {
		entry := subcategoryEntry{ID: sub.ID, CategoryID: sub.CategoryID}
		for _, key := range []string{foldKey(sub.Name), foldKey(sub.Slug)} {
			if key == "" {
				continue
			}
			if existing, ok := idx.subcategories[key]; ok && existing.ID != sub.ID {
				return nil, fmt.Errorf("%w: subcategory %q collides with another subcategory", ErrAmbiguousTaxonomy, key)
			}
			idx.subcategories[key] = entry
		}
	}

	return idx, nil
}

// Category resolves a category reference to its identifier.
func (t *TaxonomyIndex) Category(nameOrSlug string) (string, bool) {
	id, ok := t.categories[foldKey(nameOrSlug)]
	return id, ok
}

// Subcategory resolves a subcategory reference to its identifier and the
// identifier of its parent category.
func (t *TaxonomyIndex) Subcategory(nameOrSlug string) (id, categoryID string, ok bool) {
	entry, ok := t.subcategories[foldKey(nameOrSlug)]
	return entry.ID, entry.CategoryID, ok
}
