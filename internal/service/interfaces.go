// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/podium-optique/podium/internal/model"
)

// CatalogFilter defines coarse filtering hints pushed down to the
// catalog source. The engine still applies the full pipeline afterwards;
// these only shrink the snapshot it has to scan.
type CatalogFilter struct {
	Brand string
	Type  model.GeometryType
	Limit int
}

// CatalogSource is the external catalog boundary. Implementations may
// fail (offline storage, unreachable sheet); the engine treats any error
// as a degraded empty snapshot, never as a fatal condition.
type CatalogSource interface {
	FetchCatalog(ctx context.Context, filter CatalogFilter) ([]model.CatalogItem, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CatalogSource

	// Catalog operations
	ReplaceCatalog(ctx context.Context, items []model.CatalogItem) error
	SaveCatalogItems(ctx context.Context, items []model.CatalogItem) error
	GetCatalogItem(ctx context.Context, id int64) (*model.CatalogItem, error)
	GetCatalogCount(ctx context.Context) (int, error)
	GetBrands(ctx context.Context) ([]string, error)

	// Quote persistence
	SaveQuote(ctx context.Context, quote *model.Quote) (int64, error)
	GetQuote(ctx context.Context, id int64) (*model.Quote, error)
	GetQuotesByClient(ctx context.Context, client string) ([]model.Quote, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for transient failures.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
