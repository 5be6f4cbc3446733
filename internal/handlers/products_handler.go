package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalog-service/internal/events"
	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type ProductsHandler struct {
	repo       *repository.ProductsRepository
	categories *repository.CategoriesRepository
	publisher  *events.Publisher
}

func NewProductsHandler(repo *repository.ProductsRepository, categories *repository.CategoriesRepository, publisher *events.Publisher) *ProductsHandler {
	return &ProductsHandler{
		repo:       repo,
		categories: categories,
		publisher:  publisher,
	}
}

// GetProducts returns a filtered, paginated product list
// @Summary List products
// @Tags products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param categoryId query string false "Category filter"
// @Param subcategoryId query string false "Subcategory filter"
// @Param search query string false "Name search"
// @Success 200
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/products [get]
func (h *ProductsHandler) GetProducts(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filters := models.ProductFilters{
		CategoryID:    c.Query("categoryId"),
		SubcategoryID: c.Query("subcategoryId"),
		Search:        c.Query("search"),
		Page:          page,
		Limit:         limit,
	}
	if v := c.Query("isActive"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}
	if v := c.Query("isFeatured"); v != "" {
		featured := v == "true"
		filters.IsFeatured = &featured
	}

	list, err := h.repo.ListProducts(c.Request.Context(), tenantID, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "DB_ERROR", Message: "Failed to fetch products"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       list.Products,
		"pagination": list.Pagination,
	})
}

// GetProduct returns a single product by id
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/products/{id} [get]
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	product, err := h.repo.GetProduct(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "NOT_FOUND", Message: "Product not found"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "DB_ERROR", Message: "Failed to fetch product"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// CreateProduct creates a single product
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product data"
// @Success 201
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/products [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "VALIDATION_ERROR", Message: err.Error()},
		})
		return
	}

	ctx := c.Request.Context()
	subcategory, err := h.categories.GetSubcategory(ctx, tenantID, req.SubcategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "SUBCATEGORY_NOT_FOUND", Message: "Subcategory not found", Field: "subcategoryId"},
		})
		return
	}
	if subcategory.CategoryID != req.CategoryID {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "SUBCATEGORY_MISMATCH", Message: "Subcategory does not belong to the given category", Field: "subcategoryId"},
		})
		return
	}

	product := buildProductFromRequest(tenantID, &req)
	if _, err := h.repo.InsertProduct(ctx, product); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "DB_ERROR", Message: "Failed to create product"},
		})
		return
	}

	h.publisher.PublishProductCreated(tenantID, product.ID, product.Name, product.CategoryID, "api")
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": product})
}

// UpdateProduct applies a partial update
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.UpdateProductRequest true "Fields to update"
// @Success 200
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/products/{id} [put]
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "VALIDATION_ERROR", Message: err.Error()},
		})
		return
	}

	product, err := h.repo.UpdateProduct(c.Request.Context(), tenantID, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "NOT_FOUND", Message: "Product not found"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "DB_ERROR", Message: "Failed to update product"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// DeleteProduct soft-deletes a product
// @Summary Delete product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/products/{id} [delete]
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	if err := h.repo.DeleteProduct(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "NOT_FOUND", Message: "Product not found"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "DB_ERROR", Message: "Failed to delete product"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

func buildProductFromRequest(tenantID string, req *models.CreateProductRequest) *models.Product {
	now := time.Now().UTC()
	product := &models.Product{
		ID:               uuid.New().String(),
		TenantID:         tenantID,
		Name:             req.Name,
		Slug:             models.GenerateSlug(req.Name),
		SKU:              req.SKU,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		CategoryID:       req.CategoryID,
		SubcategoryID:    req.SubcategoryID,
		Price:            req.Price,
		CompareAtPrice:   req.CompareAtPrice,
		Images:           req.Images,
		FilterValues:     req.FilterValues,
		WeightInGrams:    req.WeightInGrams,
		MetalType:        req.MetalType,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.UseDynamicPricing != nil {
		product.UseDynamicPricing = *req.UseDynamicPricing
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.DisplayOrder != nil {
		product.DisplayOrder = *req.DisplayOrder
	}
	return product
}
