package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Catalog is the store collaborator the pipeline reads taxonomy from and
// writes products to.
type Catalog interface {
	ListActiveCategories(ctx context.Context, tenantID string) ([]models.Category, error)
	ListSubcategories(ctx context.Context, tenantID string) ([]models.Subcategory, error)
	InsertProduct(ctx context.Context, product *models.Product) (string, error)
}

// EventSink receives a notification per committed product. Implementations
// must not block; failures are their own concern.
type EventSink interface {
	ProductCreated(tenantID, productID, name, categoryID string)
}

// defaultUploadWorkers bounds concurrent image uploads across rows.
const defaultUploadWorkers = 4

// Pipeline runs a bulk catalog import: extract, decode, validate the whole
// batch against a fresh taxonomy snapshot, and only commit if every row is
// valid. Validation is all-or-nothing; commit is best-effort per row.
type Pipeline struct {
	catalog       Catalog
	images        *ImageResolver
	events        EventSink
	logger        *logrus.Entry
	uploadWorkers int
}

// NewPipeline wires an import pipeline. storage, assets and events may be
// nil; the image resolver then skips filename references and no per-product
// events are emitted.
func NewPipeline(catalog Catalog, storage ObjectStorage, assets AssetLedger, events EventSink, logger *logrus.Logger) *Pipeline {
	entry := logrus.NewEntry(logger).WithField("component", "import-pipeline")
	return &Pipeline{
		catalog:       catalog,
		images:        NewImageResolver(storage, assets, entry),
		events:        events,
		logger:        entry,
		uploadWorkers: defaultUploadWorkers,
	}
}

// Run executes one import request. Input-format failures (corrupt archive,
// no spreadsheet, empty sheet, unsupported format) and collaborator read
// failures return an error; validation and insertion outcomes are reported
// through the ImportResult.
func (p *Pipeline) Run(ctx context.Context, tenantID string, data []byte, filename, contentType string) (*models.ImportResult, error) {
	sheet, sheetName, bundle, err := ExtractUpload(data, filename, contentType)
	if err != nil {
		return nil, err
	}

	rows, err := DecodeSpreadsheet(sheet, sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	taxonomy, err := p.buildTaxonomy(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{
		TotalRows: len(rows),
		Errors:    make([]models.ImportRowError, 0),
	}

	// Validate every row before deciding anything. All rule errors for all
	// rows are collected; nothing is written while any exist.
	resolvedRows := make([]ResolvedRow, 0, len(rows))
	for _, row := range rows {
		resolved, rowErrs := ValidateRow(row, taxonomy)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}
		resolvedRows = append(resolvedRows, resolved)
	}

	if len(result.Errors) > 0 {
		result.Success = false
		result.ErrorCount = len(result.Errors)
		result.Message = fmt.Sprintf("Validation failed for %d of %d rows; no products were imported", len(rows)-len(resolvedRows), len(rows))
		p.logger.WithFields(logrus.Fields{
			"tenantId":  tenantID,
			"totalRows": result.TotalRows,
			"errors":    result.ErrorCount,
		}).Warn("Import rejected by validation")
		return result, nil
	}

	p.resolveImages(ctx, tenantID, resolvedRows, bundle)
	p.commit(ctx, tenantID, resolvedRows, result)

	result.Success = result.ErrorCount == 0
	result.PartialCommit = !result.Success
	if result.Success {
		result.Message = fmt.Sprintf("Imported %d products", result.SuccessCount)
	} else {
		result.Message = fmt.Sprintf("Imported %d of %d products; %d rows failed during insertion", result.SuccessCount, result.TotalRows, result.ErrorCount)
	}
	p.logger.WithFields(logrus.Fields{
		"tenantId": tenantID,
		"created":  result.SuccessCount,
		"failed":   result.ErrorCount,
	}).Info("Import committed")
	return result, nil
}

// buildTaxonomy snapshots the live category tree for this request. The
// snapshot is never cached across imports; the catalog may change between
// requests.
func (p *Pipeline) buildTaxonomy(ctx context.Context, tenantID string) (*TaxonomyIndex, error) {
	categories, err := p.catalog.ListActiveCategories(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	subcategories, err := p.catalog.ListSubcategories(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subcategories: %w", err)
	}
	return NewTaxonomyIndex(categories, subcategories)
}

// resolveImages fills each row's Images in place. Uploads are I/O-bound, so
// rows fan out over a bounded worker pool; one row's upload failure only
// shrinks that row's image list.
func (p *Pipeline) resolveImages(ctx context.Context, tenantID string, rows []ResolvedRow, bundle ImageBundle) {
	sem := make(chan struct{}, p.uploadWorkers)
	var wg sync.WaitGroup
	for i := range rows {
		if len(rows[i].ImageRefs) == 0 {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(row *ResolvedRow) {
			defer wg.Done()
			defer func() { <-sem }()
			row.Images = p.images.Resolve(ctx, tenantID, row.ImageRefs, bundle)
		}(&rows[i])
	}
	wg.Wait()
}

// commit persists one product per resolved row. Each insert is independent;
// a failure is recorded against the row's ordinal and does not abort or
// roll back sibling rows.
func (p *Pipeline) commit(ctx context.Context, tenantID string, rows []ResolvedRow, result *models.ImportResult) {
	for i := range rows {
		product := buildProduct(tenantID, &rows[i])
		id, err := p.catalog.InsertProduct(ctx, product)
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, models.ImportRowError{
				Row:     rows[i].Ordinal,
				Field:   "product",
				Message: fmt.Sprintf("failed to insert product: %s", err.Error()),
			})
			continue
		}
		result.SuccessCount++
		result.CreatedProducts = append(result.CreatedProducts, id)
		if p.events != nil {
			p.events.ProductCreated(tenantID, id, product.Name, product.CategoryID)
		}
	}
}

// buildProduct materializes a catalog document from a resolved row,
// applying the documented defaults for omitted optional fields.
func buildProduct(tenantID string, row *ResolvedRow) *models.Product {
	now := time.Now().UTC()
	product := &models.Product{
		ID:                uuid.New().String(),
		TenantID:          tenantID,
		Name:              row.Name,
		Slug:              models.GenerateSlug(row.Name),
		SKU:               row.SKU,
		Description:       row.Description,
		ShortDescription:  row.ShortDescription,
		CategoryID:        row.CategoryID,
		SubcategoryID:     row.SubcategoryID,
		CompareAtPrice:    row.CompareAtPrice,
		Images:            row.Images,
		FilterValues:      row.FilterValues,
		UseDynamicPricing: row.UseDynamicPricing,
		IsActive:          true,
		IsFeatured:        false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if row.UseDynamicPricing {
		product.WeightInGrams = row.WeightInGrams
		product.MetalType = row.MetalType
	} else {
		product.Price = row.Price
	}
	if row.Stock != nil {
		product.Stock = *row.Stock
	}
	if row.IsActive != nil {
		product.IsActive = *row.IsActive
	}
	if row.IsFeatured != nil {
		product.IsFeatured = *row.IsFeatured
	}
	if row.DisplayOrder != nil {
		product.DisplayOrder = *row.DisplayOrder
	}
	return product
}
