package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	productListCacheTTL = 2 * time.Minute // lists change often
	productCacheTTL     = 5 * time.Minute
)

// ProductList is a paginated product query result.
type ProductList struct {
	Products   []models.Product      `json:"products"`
	Pagination models.PaginationInfo `json:"pagination"`
}

type ProductsRepository struct {
	products *mongo.Collection
	redis    *redis.Client
}

// NewProductsRepository returns a repository backed by the products
// collection. redis may be nil; caching is then disabled.
func NewProductsRepository(db *mongo.Database, redisClient *redis.Client) *ProductsRepository {
	return &ProductsRepository{
		products: db.Collection("products"),
		redis:    redisClient,
	}
}

// InsertProduct persists one product and returns its id. Used both by the
// single-product create endpoint and the import pipeline's commit phase.
func (r *ProductsRepository) InsertProduct(ctx context.Context, product *models.Product) (string, error) {
	if _, err := r.products.InsertOne(ctx, product); err != nil {
		return "", err
	}
	r.invalidateListCaches(ctx, product.TenantID)
	return product.ID, nil
}

// GetProduct fetches a product by id, consulting the cache first.
func (r *ProductsRepository) GetProduct(ctx context.Context, tenantID, id string) (*models.Product, error) {
	cacheKey := fmt.Sprintf("catalog:product:%s:%s", tenantID, id)
	if r.redis != nil {
		if val, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(val), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	err := r.products.FindOne(ctx, bson.M{"_id": id, "tenantId": tenantID, "deletedAt": bson.M{"$exists": false}}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(&product); err == nil {
			r.redis.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}
	return &product, nil
}

// ListProducts returns a filtered, paginated product page. List responses
// are cached per filter combination with a short TTL.
func (r *ProductsRepository) ListProducts(ctx context.Context, tenantID string, filters models.ProductFilters) (*ProductList, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 || filters.Limit > 100 {
		filters.Limit = 20
	}

	cacheKey := listCacheKey(tenantID, filters)
	if r.redis != nil {
		if val, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var list ProductList
			if err := json.Unmarshal([]byte(val), &list); err == nil {
				return &list, nil
			}
		}
	}

	filter := bson.M{"tenantId": tenantID, "deletedAt": bson.M{"$exists": false}}
	if filters.CategoryID != "" {
		filter["categoryId"] = filters.CategoryID
	}
	if filters.SubcategoryID != "" {
		filter["subcategoryId"] = filters.SubcategoryID
	}
	if filters.IsActive != nil {
		filter["isActive"] = *filters.IsActive
	}
	if filters.IsFeatured != nil {
		filter["isFeatured"] = *filters.IsFeatured
	}
	if filters.Search != "" {
		filter["name"] = bson.M{"$regex": filters.Search, "$options": "i"}
	}

	total, err := r.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "displayOrder", Value: 1}, {Key: "createdAt", Value: -1}}).
		SetSkip(int64((filters.Page - 1) * filters.Limit)).
		SetLimit(int64(filters.Limit))
	cursor, err := r.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.Limit) - 1) / int64(filters.Limit))
	list := &ProductList{
		Products: products,
		Pagination: models.PaginationInfo{
			Page:        filters.Page,
			Limit:       filters.Limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     filters.Page < totalPages,
			HasPrevious: filters.Page > 1,
		},
	}

	if r.redis != nil {
		if data, err := json.Marshal(list); err == nil {
			r.redis.Set(ctx, cacheKey, data, productListCacheTTL)
		}
	}
	return list, nil
}

// UpdateProduct applies a partial update and returns the updated document.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, tenantID, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	updates := bson.M{"updatedAt": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = models.GenerateSlug(*req.Name)
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ShortDescription != nil {
		updates["shortDescription"] = *req.ShortDescription
	}
	if req.CategoryID != nil {
		updates["categoryId"] = *req.CategoryID
	}
	if req.SubcategoryID != nil {
		updates["subcategoryId"] = *req.SubcategoryID
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.CompareAtPrice != nil {
		updates["compareAtPrice"] = *req.CompareAtPrice
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Images != nil {
		updates["images"] = req.Images
	}
	if req.FilterValues != nil {
		updates["filterValues"] = req.FilterValues
	}
	if req.WeightInGrams != nil {
		updates["weightInGrams"] = *req.WeightInGrams
	}
	if req.MetalType != nil {
		updates["metalType"] = *req.MetalType
	}
	if req.UseDynamicPricing != nil {
		updates["useDynamicPricing"] = *req.UseDynamicPricing
	}
	if req.IsActive != nil {
		updates["isActive"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["isFeatured"] = *req.IsFeatured
	}
	if req.DisplayOrder != nil {
		updates["displayOrder"] = *req.DisplayOrder
	}

	res := r.products.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "tenantId": tenantID, "deletedAt": bson.M{"$exists": false}},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var product models.Product
	if err := res.Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	r.invalidateProductCaches(ctx, tenantID, id)
	return &product, nil
}

// DeleteProduct soft-deletes a product.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, tenantID, id string) error {
	res, err := r.products.UpdateOne(ctx,
		bson.M{"_id": id, "tenantId": tenantID, "deletedAt": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"deletedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	r.invalidateProductCaches(ctx, tenantID, id)
	return nil
}

// CountProducts returns the number of live products for a tenant.
func (r *ProductsRepository) CountProducts(ctx context.Context, tenantID string) (int64, error) {
	return r.products.CountDocuments(ctx, bson.M{"tenantId": tenantID, "deletedAt": bson.M{"$exists": false}})
}

// listCacheKey creates a deterministic cache key for list queries.
func listCacheKey(tenantID string, filters models.ProductFilters) string {
	data, _ := json.Marshal(filters)
	hash := md5.Sum(data)
	return fmt.Sprintf("catalog:products:list:%s:%s", tenantID, hex.EncodeToString(hash[:]))
}

// invalidateProductCaches drops the single-product cache and all list
// caches for the tenant.
func (r *ProductsRepository) invalidateProductCaches(ctx context.Context, tenantID, id string) {
	if r.redis == nil {
		return
	}
	_ = r.redis.Del(ctx, fmt.Sprintf("catalog:product:%s:%s", tenantID, id)).Err()
	r.invalidateListCaches(ctx, tenantID)
}

// invalidateListCaches scans and deletes the tenant's list cache keys.
// Cache failures are ignored; the store stays authoritative.
func (r *ProductsRepository) invalidateListCaches(ctx context.Context, tenantID string) {
	if r.redis == nil {
		return
	}
	pattern := fmt.Sprintf("catalog:products:list:%s:*", tenantID)
	iter := r.redis.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		_ = r.redis.Del(ctx, iter.Val()).Err()
	}
}
