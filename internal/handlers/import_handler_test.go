package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/importer"
	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
)

type fakeCatalog struct {
	inserted  []*models.Product
	failNames map[string]bool
}

func (f *fakeCatalog) ListActiveCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	return []models.Category{
		{ID: "cat-1", Name: "Rings", Slug: "rings"},
	}, nil
}

func (f *fakeCatalog) ListSubcategories(ctx context.Context, tenantID string) ([]models.Subcategory, error) {
	return []models.Subcategory{
		{ID: "sub-1", CategoryID: "cat-1", Name: "Gold Rings", Slug: "gold-rings"},
	}, nil
}

func (f *fakeCatalog) InsertProduct(ctx context.Context, product *models.Product) (string, error) {
	if f.failNames[product.Name] {
		return "", errors.New("duplicate key")
	}
	f.inserted = append(f.inserted, product)
	return product.ID, nil
}

func newImportTestRouter(catalog *fakeCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	pipeline := importer.NewPipeline(catalog, nil, nil, nil, logger)
	handler := NewImportHandler(pipeline, nil, nil, logger, 1024*1024)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(middleware.TenantMiddleware())
	api.POST("/products/import", handler.ImportProducts)
	api.GET("/products/import/template", handler.GetImportTemplate)
	return router
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestImportProductsCreated(t *testing.T) {
	catalog := &fakeCatalog{}
	router := newImportTestRouter(catalog)

	csv := "name,category,subcategory,price\nClassic Band,Rings,Gold Rings,4999\n"
	body, contentType := multipartUpload(t, "products.csv", csv)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Tenant-ID", "tenant-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Len(t, catalog.inserted, 1)
}

func TestImportProductsValidationFailure(t *testing.T) {
	catalog := &fakeCatalog{}
	router := newImportTestRouter(catalog)

	csv := "name,category,subcategory,price\n,Rings,Gold Rings,4999\n"
	body, contentType := multipartUpload(t, "products.csv", csv)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Tenant-ID", "tenant-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "name", result.Errors[0].Field)
	assert.Empty(t, catalog.inserted)
}

func TestImportProductsPartialCommit(t *testing.T) {
	catalog := &fakeCatalog{failNames: map[string]bool{"Second Band": true}}
	router := newImportTestRouter(catalog)

	csv := strings.Join([]string{
		"name,category,subcategory,price",
		"Classic Band,Rings,Gold Rings,4999",
		"Second Band,Rings,Gold Rings,5999",
	}, "\n")
	body, contentType := multipartUpload(t, "products.csv", csv)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Tenant-ID", "tenant-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMultiStatus, rec.Code)

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
}

func TestImportProductsMissingFile(t *testing.T) {
	router := newImportTestRouter(&fakeCatalog{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", nil)
	req.Header.Set("X-Tenant-ID", "tenant-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "FILE_REQUIRED", resp.Error.Code)
}

func TestImportProductsUnsupportedFormat(t *testing.T) {
	router := newImportTestRouter(&fakeCatalog{})

	body, contentType := multipartUpload(t, "products.pdf", "not a spreadsheet")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Tenant-ID", "tenant-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_FORMAT", resp.Error.Code)
}

func TestImportProductsRequiresTenant(t *testing.T) {
	router := newImportTestRouter(&fakeCatalog{})

	body, contentType := multipartUpload(t, "products.csv", "name\n")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetImportTemplateJSON(t *testing.T) {
	router := newImportTestRouter(&fakeCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/import/template", nil)
	req.Header.Set("X-Tenant-ID", "tenant-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success  bool                  `json:"success"`
		Template models.ImportTemplate `json:"template"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "products", resp.Template.Entity)
	assert.NotEmpty(t, resp.Template.Columns)
}

func TestGetImportTemplateCSV(t *testing.T) {
	router := newImportTestRouter(&fakeCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/import/template?format=csv", nil)
	req.Header.Set("X-Tenant-ID", "tenant-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "products_import_template.csv")

	header := strings.SplitN(rec.Body.String(), "\n", 2)[0]
	assert.Contains(t, header, "name")
	assert.Contains(t, header, "subcategory")
	assert.Contains(t, header, "useDynamicPricing")
}
