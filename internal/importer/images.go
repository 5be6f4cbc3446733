package importer

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// ObjectStorage uploads bytes under a key and returns the public URL.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// AssetLedger records a bookkeeping entry per stored file.
type AssetLedger interface {
	Record(ctx context.Context, asset *models.Asset) error
}

// ImageResolver turns per-row image references into final URLs. Absolute
// URLs pass through verbatim; filenames are looked up in the archive's
// image bundle, uploaded, and recorded as assets. Unresolvable references
// are dropped with a warning, never a row failure.
type ImageResolver struct {
	storage ObjectStorage
	assets  AssetLedger
	logger  *logrus.Entry
}

// NewImageResolver returns an ImageResolver. A nil storage disables
// filename resolution: such references are skipped.
func NewImageResolver(storage ObjectStorage, assets AssetLedger, logger *logrus.Entry) *ImageResolver {
	return &ImageResolver{storage: storage, assets: assets, logger: logger}
}

// Resolve maps each reference to a URL, preserving order. References that
// cannot be resolved are omitted from the result.
func (r *ImageResolver) Resolve(ctx context.Context, tenantID string, refs []string, bundle ImageBundle) []string {
	if len(refs) == 0 {
		return nil
	}
	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		if isAbsoluteURL(ref) {
			urls = append(urls, ref)
			continue
		}
		resolved, ok := r.uploadFromBundle(ctx, tenantID, ref, bundle)
		if !ok {
			continue
		}
		urls = append(urls, resolved)
	}
	return urls
}

func isAbsoluteURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.IsAbs() && (u.Scheme == "http" || u.Scheme == "https")
}

func (r *ImageResolver) uploadFromBundle(ctx context.Context, tenantID, ref string, bundle ImageBundle) (string, bool) {
	data, found := bundle.Lookup(ref)
	if !found {
		r.logger.WithField("image", ref).Warn("Image filename not found in archive, skipping")
		return "", false
	}
	if r.storage == nil {
		r.logger.WithField("image", ref).Warn("Object storage not configured, skipping image upload")
		return "", false
	}

	ext := strings.ToLower(path.Ext(ref))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("imports/%s%s", uuid.New().String(), ext)

	publicURL, err := r.storage.Put(ctx, key, data, contentType)
	if err != nil {
		r.logger.WithField("image", ref).WithError(err).Warn("Image upload failed, skipping")
		return "", false
	}

	if r.assets != nil {
		asset := &models.Asset{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			URL:       publicURL,
			Key:       key,
			MimeType:  contentType,
			Size:      int64(len(data)),
			RefType:   "product-import",
			CreatedAt: time.Now().UTC(),
		}
		if err := r.assets.Record(ctx, asset); err != nil {
			// The file is stored and usable; a missing ledger row is an
			// accounting gap, not a reason to drop the image.
			r.logger.WithField("key", key).WithError(err).Warn("Failed to record asset")
		}
	}

	return publicURL, true
}
