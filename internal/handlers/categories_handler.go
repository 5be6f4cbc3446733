package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type CategoriesHandler struct {
	repo *repository.CategoriesRepository
}

func NewCategoriesHandler(repo *repository.CategoriesRepository) *CategoriesHandler {
	return &CategoriesHandler{repo: repo}
}

// GetCategories returns all categories for the tenant
// GET /api/v1/categories
func (h *CategoriesHandler) GetCategories(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	categories, err := h.repo.ListCategories(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "DB_ERROR", Message: "Failed to fetch categories"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

// GetCategory returns one category
// GET /api/v1/categories/:id
func (h *CategoriesHandler) GetCategory(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	category, err := h.repo.GetCategory(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		h.respondRepoError(c, err, "Category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

// CreateCategory creates a category
// POST /api/v1/categories
func (h *CategoriesHandler) CreateCategory(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "VALIDATION_ERROR", Message: err.Error()},
		})
		return
	}

	category, err := h.repo.CreateCategory(c.Request.Context(), tenantID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "DUPLICATE_NAME", Message: "A category with this name or slug already exists", Field: "name"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "DB_ERROR", Message: "Failed to create category"},
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": category})
}

// UpdateCategory applies a partial update
// PUT /api/v1/categories/:id
func (h *CategoriesHandler) UpdateCategory(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "VALIDATION_ERROR", Message: err.Error()},
		})
		return
	}

	category, err := h.repo.UpdateCategory(c.Request.Context(), tenantID, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "DUPLICATE_NAME", Message: "A category with this name or slug already exists", Field: "name"},
			})
			return
		}
		h.respondRepoError(c, err, "Category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

// DeleteCategory removes a category without subcategories
// DELETE /api/v1/categories/:id
func (h *CategoriesHandler) DeleteCategory(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	if err := h.repo.DeleteCategory(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.respondRepoError(c, err, "Category")
			return
		}
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "CATEGORY_IN_USE", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}

// GetSubcategories returns all subcategories for the tenant
// GET /api/v1/subcategories
func (h *CategoriesHandler) GetSubcategories(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	subcategories, err := h.repo.ListSubcategories(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "DB_ERROR", Message: "Failed to fetch subcategories"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": subcategories})
}

// GetSubcategory returns one subcategory
// GET /api/v1/subcategories/:id
func (h *CategoriesHandler) GetSubcategory(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	subcategory, err := h.repo.GetSubcategory(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		h.respondRepoError(c, err, "Subcategory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": subcategory})
}

// CreateSubcategory creates a subcategory under an existing category
// POST /api/v1/subcategories
func (h *CategoriesHandler) CreateSubcategory(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req models.CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "VALIDATION_ERROR", Message: err.Error()},
		})
		return
	}

	subcategory, err := h.repo.CreateSubcategory(c.Request.Context(), tenantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateName):
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "DUPLICATE_NAME", Message: "A subcategory with this name or slug already exists", Field: "name"},
			})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "CATEGORY_NOT_FOUND", Message: "Parent category not found", Field: "categoryId"},
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "DB_ERROR", Message: "Failed to create subcategory"},
			})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": subcategory})
}

// UpdateSubcategory applies a partial update
// PUT /api/v1/subcategories/:id
func (h *CategoriesHandler) UpdateSubcategory(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req models.UpdateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "VALIDATION_ERROR", Message: err.Error()},
		})
		return
	}

	subcategory, err := h.repo.UpdateSubcategory(c.Request.Context(), tenantID, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "DUPLICATE_NAME", Message: "A subcategory with this name or slug already exists", Field: "name"},
			})
			return
		}
		h.respondRepoError(c, err, "Subcategory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": subcategory})
}

// DeleteSubcategory removes a subcategory
// DELETE /api/v1/subcategories/:id
func (h *CategoriesHandler) DeleteSubcategory(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	if err := h.repo.DeleteSubcategory(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		h.respondRepoError(c, err, "Subcategory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subcategory deleted"})
}

func (h *CategoriesHandler) respondRepoError(c *gin.Context, err error, entity string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "NOT_FOUND", Message: entity + " not found"},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "DB_ERROR", Message: "Database error"},
	})
}
