package models

import "time"

// Category represents a top-level catalog category (e.g. Rings, Necklaces).
type Category struct {
	ID           string    `json:"id" bson:"_id"`
	TenantID     string    `json:"tenantId" bson:"tenantId"`
	Name         string    `json:"name" bson:"name"`
	Slug         string    `json:"slug" bson:"slug"`
	Description  *string   `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL     *string   `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	IsActive     bool      `json:"isActive" bson:"isActive"`
	DisplayOrder int       `json:"displayOrder" bson:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Subcategory represents a second-level category nested under a Category.
type Subcategory struct {
	ID           string    `json:"id" bson:"_id"`
	TenantID     string    `json:"tenantId" bson:"tenantId"`
	CategoryID   string    `json:"categoryId" bson:"categoryId"`
	Name         string    `json:"name" bson:"name"`
	Slug         string    `json:"slug" bson:"slug"`
	Description  *string   `json:"description,omitempty" bson:"description,omitempty"`
	IsActive     bool      `json:"isActive" bson:"isActive"`
	DisplayOrder int       `json:"displayOrder" bson:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Name         string  `json:"name" binding:"required"`
	Slug         *string `json:"slug,omitempty"`
	Description  *string `json:"description,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name         *string `json:"name,omitempty"`
	Slug         *string `json:"slug,omitempty"`
	Description  *string `json:"description,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty"`
}

// CreateSubcategoryRequest represents a request to create a new subcategory
type CreateSubcategoryRequest struct {
	CategoryID   string  `json:"categoryId" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Slug         *string `json:"slug,omitempty"`
	Description  *string `json:"description,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty"`
}

// UpdateSubcategoryRequest represents a request to update a subcategory
type UpdateSubcategoryRequest struct {
	CategoryID   *string `json:"categoryId,omitempty"`
	Name         *string `json:"name,omitempty"`
	Slug         *string `json:"slug,omitempty"`
	Description  *string `json:"description,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty"`
}
