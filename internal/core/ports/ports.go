package ports

import (
	"context"

	"github.com/casthub/catadm/internal/core/domain"
)

// CatalogAPI defines the port for the catalog backend. The grid engine and
// the services only ever see this interface; the REST transport lives in
// internal/adapters/api.
type CatalogAPI interface {
	// ListCategories returns all categories visible to the authenticated admin
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// ListAssets returns one page of a category's asset collection,
	// ordered by the canonical order field
	ListAssets(ctx context.Context, categoryID string, page, pageSize int) (*domain.AssetPage, error)

	// UpdateAsset applies a single-field change to an asset and returns
	// the confirmed record
	UpdateAsset(ctx context.Context, categoryID, assetID string, change domain.FieldChange) (*domain.Asset, error)

	// DeleteAsset removes an asset from its category
	DeleteAsset(ctx context.Context, categoryID, assetID string) error

	// ReorderAssets persists a complete dense ordering for the collection.
	// The payload carries every asset the client holds, not a delta.
	ReorderAssets(ctx context.Context, categoryID string, ordering []domain.OrderEntry) error

	// UploadAsset uploads one media file with its metadata and returns
	// the created asset
	UploadAsset(ctx context.Context, categoryID, filePath string, meta domain.UploadMeta) (*domain.Asset, error)
}
