// Package pricing resolves and applies the shop's pricing strategies:
// linear open-market pricing, the manual per-lens grid, and
// network-negotiated prices, plus the component-based supplementary
// pricing used for second and third pairs.
package pricing

import (
	"github.com/podium-optique/podium/internal/classification"
	"github.com/podium-optique/podium/internal/config"
	"github.com/podium-optique/podium/internal/model"
)

// Strategy prices one catalog item. Price returns common.ErrExcluded when
// the item has no usable price under the strategy; that is an exclusion
// from the result set, not a pipeline failure.
type Strategy interface {
	Price(item model.CatalogItem) (model.PricedOffer, error)
}

// Pricer selects and applies pricing strategies for a given shop
// configuration.
type Pricer struct {
	settings   *config.Settings
	classifier *classification.Classifier
}

// NewPricer creates a pricer over the given settings and classifier.
func NewPricer(settings *config.Settings, classifier *classification.Classifier) *Pricer {
	return &Pricer{settings: settings, classifier: classifier}
}

// StrategyFor resolves the single strategy applying to a criteria set.
// Partner networks always use negotiated prices; the open market uses
// whichever mode the shop configured.
func (p *Pricer) StrategyFor(criteria model.Criteria) Strategy {
	addOn := p.precalAddOn(criteria)

	if !criteria.Network.IsOpenMarket() {
		return &negotiatedStrategy{network: criteria.Network, addOn: addOn}
	}

	if p.settings.Mode == config.ModePerLens {
		return &manualStrategy{settings: p.settings, addOn: addOn}
	}

	return &linearStrategy{pricer: p, addOn: addOn}
}

// precalAddOn resolves the flat precalibration surcharge: the shop's own
// price on the open market, the fixed network table otherwise. Zero when
// the option is not requested.
func (p *Pricer) precalAddOn(criteria model.Criteria) float64 {
	if !criteria.Precal {
		return 0
	}
	if criteria.Network.IsOpenMarket() {
		return p.settings.PrecalPrice
	}
	return criteria.Network.PrecalAddOn()
}

// categoryFor maps an item onto the six linear pricing categories.
// Unifocals split into stock and fabrication sub-rules; unknown
// geometries price as progressive.
func (p *Pricer) categoryFor(item model.CatalogItem) string {
	switch item.Type {
	case model.GeometryUnifocal:
		if p.classifier.IsStock(item) {
			return config.CategoryUnifocalStock
		}
		return config.CategoryUnifocalFab
	case model.GeometryDegressive:
		return config.CategoryDegressive
	case model.GeometryInterior:
		return config.CategoryInterior
	case model.GeometryMultifocal:
		return config.CategoryMultifocal
	default:
		return config.CategoryProgressive
	}
}
