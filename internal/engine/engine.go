package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/podium-optique/podium/internal/classification"
	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/config"
	"github.com/podium-optique/podium/internal/model"
	"github.com/podium-optique/podium/internal/service"
)

// Engine orchestrates catalog retrieval and the filtering/pricing
// pipeline for one shop configuration.
type Engine struct {
	source     service.CatalogSource
	pipeline   *Pipeline
	classifier *classification.Classifier
	retry      service.RetryOptions
}

// DefaultRetryOptions bounds catalog fetch retries. The catalog is a
// soft dependency; a long retry loop would stall the counter.
func DefaultRetryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
	}
}

// New creates an engine over the given catalog source and settings.
func New(source service.CatalogSource, settings *config.Settings) *Engine {
	classifier := classification.NewDefaultClassifier()
	return &Engine{
		source:     source,
		pipeline:   NewPipeline(settings, classifier),
		classifier: classifier,
		retry:      DefaultRetryOptions(),
	}
}

// Pipeline exposes the underlying pipeline for supplementary searches.
func (e *Engine) Pipeline() *Pipeline {
	return e.pipeline
}

// Rank fetches the catalog and runs the full pass for one criteria set.
// A failed fetch degrades to an empty snapshot instead of failing the
// request; the result carries the Degraded flag.
func (e *Engine) Rank(ctx context.Context, criteria model.Criteria) (*Result, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	catalog, degraded := e.fetchCatalog(ctx, criteria)
	result := e.pipeline.Run(catalog, criteria)
	result.Degraded = degraded
	result.Offers.Sort()

	slog.Info("Ranked catalog",
		"network", criteria.Network,
		"type", criteria.Type,
		"offers", len(result.Offers),
		"degraded", degraded)

	return result, nil
}

// Podium runs Rank and keeps only the top offers.
func (e *Engine) Podium(ctx context.Context, criteria model.Criteria) (*Result, error) {
	result, err := e.Rank(ctx, criteria)
	if err != nil {
		return nil, err
	}
	result.Offers = result.Offers.TopN(model.PodiumSize)
	return result, nil
}

// BestAlternative fetches the discount brand's catalog and delegates to
// the pipeline's supplementary search.
func (e *Engine) BestAlternative(ctx context.Context, session *QuoteSession) (model.SupplementaryPair, error) {
	primary := session.Primary()
	if primary == nil {
		return model.SupplementaryPair{}, common.ErrNoPrimarySelection
	}

	catalog, _ := e.fetchCatalog(ctx, model.Criteria{Brand: model.DiscountBrand})
	return e.pipeline.BestAlternative(catalog, primary, session.FirstPair())
}

func (e *Engine) fetchCatalog(ctx context.Context, criteria model.Criteria) ([]model.CatalogItem, bool) {
	// Interior lenses match by substring, so that stage cannot be
	// pushed down to the source.
	filter := service.CatalogFilter{}
	if criteria.Brand != "" {
		filter.Brand = model.CatalogBrand(criteria.Brand)
	}
	if criteria.Type != "" && criteria.Type != model.GeometryInterior {
		filter.Type = criteria.Type
	}

	var catalog []model.CatalogItem
	err := common.WithRetry(ctx, func() error {
		items, fetchErr := e.source.FetchCatalog(ctx, filter)
		if fetchErr != nil {
			return fetchErr
		}
		catalog = items
		return nil
	}, e.retry)
	if err != nil {
		slog.Warn("Catalog unavailable, continuing with empty snapshot", "error", err)
		return nil, true
	}
	return catalog, false
}
