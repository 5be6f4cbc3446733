package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-service/internal/models"
)

// ErrDuplicateName indicates another category or subcategory already uses
// the same case-folded name or slug within the tenant. The import
// pipeline's taxonomy resolver depends on this uniqueness.
var ErrDuplicateName = errors.New("name or slug already in use")

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("not found")

// caseInsensitive matches ignoring letter case and diacritics (ICU
// collation strength 2), which mirrors the resolver's case folding.
var caseInsensitive = options.Collation{Locale: "en", Strength: 2}

type CategoriesRepository struct {
	categories    *mongo.Collection
	subcategories *mongo.Collection
}

func NewCategoriesRepository(db *mongo.Database) *CategoriesRepository {
	return &CategoriesRepository{
		categories:    db.Collection("categories"),
		subcategories: db.Collection("subcategories"),
	}
}

// ListActiveCategories returns all active categories for the tenant,
// ordered for display.
func (r *CategoriesRepository) ListActiveCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	filter := bson.M{"tenantId": tenantID, "isActive": true}
	opts := options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.categories.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListCategories returns every category for the tenant, active or not.
func (r *CategoriesRepository) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.categories.Find(ctx, bson.M{"tenantId": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListSubcategories returns all subcategories for the tenant.
func (r *CategoriesRepository) ListSubcategories(ctx context.Context, tenantID string) ([]models.Subcategory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.subcategories.Find(ctx, bson.M{"tenantId": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subcategories []models.Subcategory
	if err := cursor.All(ctx, &subcategories); err != nil {
		return nil, err
	}
	return subcategories, nil
}

func (r *CategoriesRepository) GetCategory(ctx context.Context, tenantID, id string) (*models.Category, error) {
	var category models.Category
	err := r.categories.FindOne(ctx, bson.M{"_id": id, "tenantId": tenantID}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoriesRepository) GetSubcategory(ctx context.Context, tenantID, id string) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	err := r.subcategories.FindOne(ctx, bson.M{"_id": id, "tenantId": tenantID}).Decode(&subcategory)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &subcategory, nil
}

// CreateCategory inserts a category after checking case-folded name/slug
// uniqueness within the tenant.
func (r *CategoriesRepository) CreateCategory(ctx context.Context, tenantID string, req *models.CreateCategoryRequest) (*models.Category, error) {
	slug := models.GenerateSlug(req.Name)
	if req.Slug != nil && *req.Slug != "" {
		slug = models.GenerateSlug(*req.Slug)
	}
	if err := r.checkUnique(ctx, r.categories, tenantID, req.Name, slug, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &models.Category{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}

	if _, err := r.categories.InsertOne(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateSubcategory inserts a subcategory under an existing category.
func (r *CategoriesRepository) CreateSubcategory(ctx context.Context, tenantID string, req *models.CreateSubcategoryRequest) (*models.Subcategory, error) {
	if _, err := r.GetCategory(ctx, tenantID, req.CategoryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("parent category %s: %w", req.CategoryID, ErrNotFound)
		}
		return nil, err
	}

	slug := models.GenerateSlug(req.Name)
	if req.Slug != nil && *req.Slug != "" {
		slug = models.GenerateSlug(*req.Slug)
	}
	if err := r.checkUnique(ctx, r.subcategories, tenantID, req.Name, slug, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	subcategory := &models.Subcategory{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		subcategory.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		subcategory.DisplayOrder = *req.DisplayOrder
	}

	if _, err := r.subcategories.InsertOne(ctx, subcategory); err != nil {
		return nil, err
	}
	return subcategory, nil
}

// UpdateCategory applies a partial update to a category.
func (r *CategoriesRepository) UpdateCategory(ctx context.Context, tenantID, id string, req *models.UpdateCategoryRequest) (*models.Category, error) {
	updates := bson.M{"updatedAt": time.Now().UTC()}
	if req.Name != nil {
		if err := r.checkUnique(ctx, r.categories, tenantID, *req.Name, "", id); err != nil {
			return nil, err
		}
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		slug := models.GenerateSlug(*req.Slug)
		if err := r.checkUnique(ctx, r.categories, tenantID, "", slug, id); err != nil {
			return nil, err
		}
		updates["slug"] = slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["imageUrl"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["isActive"] = *req.IsActive
	}
	if req.DisplayOrder != nil {
		updates["displayOrder"] = *req.DisplayOrder
	}

	res := r.categories.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "tenantId": tenantID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var category models.Category
	if err := res.Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// UpdateSubcategory applies a partial update to a subcategory.
func (r *CategoriesRepository) UpdateSubcategory(ctx context.Context, tenantID, id string, req *models.UpdateSubcategoryRequest) (*models.Subcategory, error) {
	updates := bson.M{"updatedAt": time.Now().UTC()}
	if req.CategoryID != nil {
		if _, err := r.GetCategory(ctx, tenantID, *req.CategoryID); err != nil {
			return nil, err
		}
		updates["categoryId"] = *req.CategoryID
	}
	if req.Name != nil {
		if err := r.checkUnique(ctx, r.subcategories, tenantID, *req.Name, "", id); err != nil {
			return nil, err
		}
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		slug := models.GenerateSlug(*req.Slug)
		if err := r.checkUnique(ctx, r.subcategories, tenantID, "", slug, id); err != nil {
			return nil, err
		}
		updates["slug"] = slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["isActive"] = *req.IsActive
	}
	if req.DisplayOrder != nil {
		updates["displayOrder"] = *req.DisplayOrder
	}

	res := r.subcategories.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "tenantId": tenantID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var subcategory models.Subcategory
	if err := res.Decode(&subcategory); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &subcategory, nil
}

// DeleteCategory removes a category. Fails while subcategories still
// reference it.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, tenantID, id string) error {
	count, err := r.subcategories.CountDocuments(ctx, bson.M{"tenantId": tenantID, "categoryId": id})
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("category has %d subcategories; delete or move them first", count)
	}
	res, err := r.categories.DeleteOne(ctx, bson.M{"_id": id, "tenantId": tenantID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSubcategory removes a subcategory.
func (r *CategoriesRepository) DeleteSubcategory(ctx context.Context, tenantID, id string) error {
	res, err := r.subcategories.DeleteOne(ctx, bson.M{"_id": id, "tenantId": tenantID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// checkUnique rejects a name or slug already used (case-insensitively) by
// another document of the tenant.
func (r *CategoriesRepository) checkUnique(ctx context.Context, coll *mongo.Collection, tenantID, name, slug, excludeID string) error {
	var clauses []bson.M
	if name != "" {
		clauses = append(clauses, bson.M{"name": name})
	}
	if slug != "" {
		clauses = append(clauses, bson.M{"slug": slug})
	}
	if len(clauses) == 0 {
		return nil
	}
	filter := bson.M{"tenantId": tenantID, "$or": clauses}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	opts := options.Count().SetCollation(&caseInsensitive)
	count, err := coll.CountDocuments(ctx, filter, opts)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateName
	}
	return nil
}
