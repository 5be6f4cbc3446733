package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/events"
	"catalog-service/internal/importer"
	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type ImportHandler struct {
	pipeline   *importer.Pipeline
	categories *repository.CategoriesRepository
	publisher  *events.Publisher
	logger     *logrus.Entry
	maxBytes   int64
}

func NewImportHandler(pipeline *importer.Pipeline, categories *repository.CategoriesRepository, publisher *events.Publisher, logger *logrus.Logger, maxBytes int64) *ImportHandler {
	return &ImportHandler{
		pipeline:   pipeline,
		categories: categories,
		publisher:  publisher,
		logger:     logrus.NewEntry(logger).WithField("component", "import-handler"),
		maxBytes:   maxBytes,
	}
}

// ImportProducts runs a bulk catalog import from an uploaded spreadsheet or
// a ZIP archive bundling a spreadsheet with images. Validation failures
// return the full row-addressable error list with zero writes; insertion
// failures after a clean validation pass are reported per row.
// @Summary Bulk import products
// @Description Import products from a CSV/XLSX file or a ZIP archive containing a spreadsheet and images
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV, XLSX or ZIP file"
// @Success 201 {object} models.ImportResult
// @Success 207 {object} models.ImportResult
// @Failure 400 {object} models.ImportResult
// @Failure 413 {object} models.ErrorResponse
// @Router /api/v1/products/import [post]
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV, XLSX or ZIP file",
			},
		})
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_TOO_LARGE",
				Message: "The uploaded file exceeds the maximum allowed size",
			},
		})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "READ_ERROR", Message: "Failed to read uploaded file"},
		})
		return
	}
	if int64(len(data)) > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_TOO_LARGE",
				Message: "The uploaded file exceeds the maximum allowed size",
			},
		})
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), tenantID, data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}

	h.publisher.PublishImportCompleted(tenantID, result.Success, result.TotalRows, result.SuccessCount, result.ErrorCount)

	switch {
	case result.Success:
		c.JSON(http.StatusCreated, result)
	case result.PartialCommit:
		c.JSON(http.StatusMultiStatus, result)
	default:
		c.JSON(http.StatusBadRequest, result)
	}
}

// respondPipelineError maps input-format and collaborator failures to a
// single top-level error message.
func (h *ImportHandler) respondPipelineError(c *gin.Context, err error) {
	var code string
	status := http.StatusBadRequest

	switch {
	case errors.Is(err, importer.ErrCorruptArchive):
		code = "CORRUPT_ARCHIVE"
	case errors.Is(err, importer.ErrNoSpreadsheet):
		code = "NO_SPREADSHEET_IN_ARCHIVE"
	case errors.Is(err, importer.ErrEmptyFile):
		code = "EMPTY_FILE"
	case errors.Is(err, importer.ErrUnsupportedFormat):
		code = "INVALID_FORMAT"
	case errors.Is(err, importer.ErrAmbiguousTaxonomy):
		code = "AMBIGUOUS_TAXONOMY"
		status = http.StatusConflict
	default:
		h.logger.WithError(err).Error("Import failed")
		code = "IMPORT_FAILED"
		status = http.StatusInternalServerError
	}

	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: code, Message: err.Error()},
	})
}

// GetImportTemplate returns the import template definition or file.
// @Summary Get import template
// @Description Download the product import template as JSON, CSV or XLSX
// @Tags import
// @Produce json
// @Param format query string false "Template format" Enums(json, csv, xlsx) default(json)
// @Success 200
// @Router /api/v1/products/import/template [get]
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	template := models.ProductImportTemplate()

	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=products_import_template.csv")
		if err := importer.WriteTemplateCSV(c.Writer, template); err != nil {
			h.logger.WithError(err).Error("Failed to write CSV template")
		}
	case "xlsx":
		h.writeXLSXTemplate(c, template)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

func (h *ImportHandler) writeXLSXTemplate(c *gin.Context, template models.ImportTemplate) {
	tenantID := middleware.GetTenantID(c)
	ctx := c.Request.Context()

	// Reference data is best-effort; an empty Reference sheet still makes a
	// usable template.
	categories, err := h.categories.ListActiveCategories(ctx, tenantID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load categories for template reference sheet")
	}
	subcategories, err := h.categories.ListSubcategories(ctx, tenantID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load subcategories for template reference sheet")
	}

	f, err := importer.BuildTemplateXLSX(template, categories, subcategories)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "TEMPLATE_ERROR", Message: "Failed to build template workbook"},
		})
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.xlsx")
	if err := f.Write(c.Writer); err != nil {
		h.logger.WithError(err).Error("Failed to write XLSX template")
	}
}
