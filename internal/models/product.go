package models

import (
	"regexp"
	"strings"
	"time"
)

// Product represents a catalog entry. Pricing is either flat (Price) or
// dynamic (WeightInGrams + MetalType, final price computed from metal rates
// at display time); UseDynamicPricing selects the mode.
type Product struct {
	ID                string            `json:"id" bson:"_id"`
	TenantID          string            `json:"tenantId" bson:"tenantId"`
	Name              string            `json:"name" bson:"name"`
	Slug              string            `json:"slug" bson:"slug"`
	SKU               *string           `json:"sku,omitempty" bson:"sku,omitempty"`
	Description       *string           `json:"description,omitempty" bson:"description,omitempty"`
	ShortDescription  *string           `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	CategoryID        string            `json:"categoryId" bson:"categoryId"`
	SubcategoryID     string            `json:"subcategoryId" bson:"subcategoryId"`
	Price             *float64          `json:"price,omitempty" bson:"price,omitempty"`
	CompareAtPrice    *float64          `json:"compareAtPrice,omitempty" bson:"compareAtPrice,omitempty"`
	Stock             int               `json:"stock" bson:"stock"`
	Images            []string          `json:"images" bson:"images"`
	FilterValues      map[string]string `json:"filterValues,omitempty" bson:"filterValues,omitempty"`
	WeightInGrams     *float64          `json:"weightInGrams,omitempty" bson:"weightInGrams,omitempty"`
	MetalType         *string           `json:"metalType,omitempty" bson:"metalType,omitempty"`
	UseDynamicPricing bool              `json:"useDynamicPricing" bson:"useDynamicPricing"`
	IsActive          bool              `json:"isActive" bson:"isActive"`
	IsFeatured        bool              `json:"isFeatured" bson:"isFeatured"`
	DisplayOrder      int               `json:"displayOrder" bson:"displayOrder"`
	CreatedAt         time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// CreateProductRequest represents a request to create a single product
type CreateProductRequest struct {
	Name              string            `json:"name" binding:"required"`
	SKU               *string           `json:"sku,omitempty"`
	Description       *string           `json:"description,omitempty"`
	ShortDescription  *string           `json:"shortDescription,omitempty"`
	CategoryID        string            `json:"categoryId" binding:"required"`
	SubcategoryID     string            `json:"subcategoryId" binding:"required"`
	Price             *float64          `json:"price,omitempty"`
	CompareAtPrice    *float64          `json:"compareAtPrice,omitempty"`
	Stock             *int              `json:"stock,omitempty"`
	Images            []string          `json:"images,omitempty"`
	FilterValues      map[string]string `json:"filterValues,omitempty"`
	WeightInGrams     *float64          `json:"weightInGrams,omitempty"`
	MetalType         *string           `json:"metalType,omitempty"`
	UseDynamicPricing *bool             `json:"useDynamicPricing,omitempty"`
	IsActive          *bool             `json:"isActive,omitempty"`
	IsFeatured        *bool             `json:"isFeatured,omitempty"`
	DisplayOrder      *int              `json:"displayOrder,omitempty"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name              *string           `json:"name,omitempty"`
	SKU               *string           `json:"sku,omitempty"`
	Description       *string           `json:"description,omitempty"`
	ShortDescription  *string           `json:"shortDescription,omitempty"`
	CategoryID        *string           `json:"categoryId,omitempty"`
	SubcategoryID     *string           `json:"subcategoryId,omitempty"`
	Price             *float64          `json:"price,omitempty"`
	CompareAtPrice    *float64          `json:"compareAtPrice,omitempty"`
	Stock             *int              `json:"stock,omitempty"`
	Images            []string          `json:"images,omitempty"`
	FilterValues      map[string]string `json:"filterValues,omitempty"`
	WeightInGrams     *float64          `json:"weightInGrams,omitempty"`
	MetalType         *string           `json:"metalType,omitempty"`
	UseDynamicPricing *bool             `json:"useDynamicPricing,omitempty"`
	IsActive          *bool             `json:"isActive,omitempty"`
	IsFeatured        *bool             `json:"isFeatured,omitempty"`
	DisplayOrder      *int              `json:"displayOrder,omitempty"`
}

// ProductFilters represents filters for product list queries
type ProductFilters struct {
	CategoryID    string
	SubcategoryID string
	IsActive      *bool
	IsFeatured    *bool
	Search        string
	Page          int
	Limit         int
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

// Error represents error details
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug converts a display name into a URL-safe slug.
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
