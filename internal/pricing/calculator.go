package pricing

import (
	"math"

	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/config"
	"github.com/podium-optique/podium/internal/model"
)

// RoundHalfUp rounds to the nearest integer euro, halves away from the
// client (0.5 rounds up). Used by the linear formula so that repeated
// passes over the same catalog always produce identical prices.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// linearStrategy prices every item from its purchase price and the
// category's multiplier/offset pair. No item is excluded.
type linearStrategy struct {
	pricer *Pricer
	addOn  float64
}

func (s *linearStrategy) Price(item model.CatalogItem) (model.PricedOffer, error) {
	rule := s.pricer.settings.LinearRuleFor(s.pricer.categoryFor(item))

	selling := RoundHalfUp(item.PurchasePrice*rule.Multiplier + rule.Offset + s.addOn)
	margin := RoundHalfUp(selling - item.PurchasePrice)

	return model.PricedOffer{
		CatalogItem:  item,
		SellingPrice: selling,
		Margin:       margin,
	}, nil
}

// manualStrategy prices only items present in the manual grid. The grid's
// disable lists exclude matching items regardless of price presence, and
// a missing or non-positive grid price excludes rather than pricing at 0.
type manualStrategy struct {
	settings *config.Settings
	addOn    float64
}

func (s *manualStrategy) Price(item model.CatalogItem) (model.PricedOffer, error) {
	if s.settings.ManualDisabled(item) {
		return model.PricedOffer{}, common.ErrExcluded
	}

	price, ok := s.settings.ManualPrice(item.Key())
	if !ok {
		return model.PricedOffer{}, common.ErrExcluded
	}

	// The manual value is the shop's exact grid price; only the add-on
	// moves it, never rounding.
	selling := price + s.addOn

	return model.PricedOffer{
		CatalogItem:  item,
		SellingPrice: selling,
		Margin:       selling - item.PurchasePrice,
	}, nil
}

// negotiatedStrategy prices from the pre-negotiated per-network field on
// the item itself. Items the network did not negotiate are excluded.
type negotiatedStrategy struct {
	network model.Network
	addOn   float64
}

func (s *negotiatedStrategy) Price(item model.CatalogItem) (model.PricedOffer, error) {
	negotiated := item.NegotiatedPrice(s.network)
	if negotiated <= 0 {
		return model.PricedOffer{}, common.ErrExcluded
	}

	selling := negotiated + s.addOn

	return model.PricedOffer{
		CatalogItem:  item,
		SellingPrice: selling,
		Margin:       selling - item.PurchasePrice,
	}, nil
}
