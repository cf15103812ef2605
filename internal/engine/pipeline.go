// Package engine implements the catalog filtering and pricing pipeline
// that turns a raw catalog snapshot into a ranked list of priced offers.
package engine

import (
	"strings"

	"github.com/podium-optique/podium/internal/classification"
	"github.com/podium-optique/podium/internal/config"
	"github.com/podium-optique/podium/internal/model"
	"github.com/podium-optique/podium/internal/pricing"
)

// Result is the outcome of one filtering/pricing pass. Every pass builds
// a fresh Result; nothing in the input catalog is mutated.
type Result struct {
	Offers model.PricedOffers

	// AvailableCoatings lists the coating values still reachable before
	// the coating filter narrows the set; AvailableDesigns the design
	// values reachable after the coating filter but before the design
	// filter. Both preserve catalog order and drive dependent selectors.
	AvailableCoatings []string
	AvailableDesigns  []string

	// Degraded marks a pass that ran on an empty snapshot because the
	// catalog source failed.
	Degraded bool
}

// Pipeline narrows a catalog snapshot through the ordered filter stages,
// pricing the survivors along the way.
type Pipeline struct {
	settings   *config.Settings
	classifier *classification.Classifier
	pricer     *pricing.Pricer
}

// NewPipeline creates a pipeline over the given shop configuration.
func NewPipeline(settings *config.Settings, classifier *classification.Classifier) *Pipeline {
	return &Pipeline{
		settings:   settings,
		classifier: classifier,
		pricer:     pricing.NewPricer(settings, classifier),
	}
}

// Run executes the full stage sequence for one criteria set.
func (p *Pipeline) Run(catalog []model.CatalogItem, criteria model.Criteria) *Result {
	items := p.filterBrands(catalog, criteria)
	items = p.filterGeometry(items, criteria)

	offers := p.priceStage(items, criteria)

	offers = p.filterIndex(offers, criteria)
	offers = p.filterPhotochromic(offers, criteria)

	result := &Result{}
	result.AvailableCoatings = uniqueValues(offers, func(o model.PricedOffer) string { return o.Coating })

	offers = p.filterCoating(offers, criteria)
	offers = p.filterMyopiaControl(offers, criteria)

	result.AvailableDesigns = uniqueValues(offers, func(o model.PricedOffer) string { return o.Design })

	offers = p.filterDesign(offers, criteria)

	result.Offers = offers
	return result
}

// filterBrands applies stage 1: an explicit brand filter wins; otherwise
// the network decides which brands are sellable. The shop's disabled
// brands are always hidden.
func (p *Pipeline) filterBrands(catalog []model.CatalogItem, criteria model.Criteria) []model.CatalogItem {
	allowed := func(brand string) bool {
		if p.settings.BrandDisabled(brand) {
			return false
		}
		if criteria.Brand != "" {
			return strings.EqualFold(brand, model.CatalogBrand(criteria.Brand))
		}
		switch {
		case criteria.Network.IsOpenMarket():
			return true
		case criteria.Network == model.NetworkKalixia:
			// Kalixia only reimburses the two contracted suppliers.
			return strings.EqualFold(brand, model.BrandCodir) || strings.EqualFold(brand, model.BrandHoya)
		default:
			// Remaining partner networks carry everything except the
			// two premium suppliers they have no contract with.
			return !strings.EqualFold(brand, model.BrandZeiss) && !strings.EqualFold(brand, model.BrandSeiko)
		}
	}

	out := make([]model.CatalogItem, 0, len(catalog))
	for _, item := range catalog {
		if allowed(item.Brand) {
			out = append(out, item)
		}
	}
	return out
}

// filterGeometry applies stage 2: exact type match, except the interior
// target which also matches any type containing the interior token.
func (p *Pipeline) filterGeometry(items []model.CatalogItem, criteria model.Criteria) []model.CatalogItem {
	if criteria.Type == "" {
		return items
	}

	out := make([]model.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.Type == criteria.Type {
			out = append(out, item)
			continue
		}
		if criteria.Type == model.GeometryInterior &&
			strings.Contains(string(item.Type), string(model.GeometryInterior)) {
			out = append(out, item)
		}
	}
	return out
}

// priceStage applies stage 3: resolve the single strategy for the pass,
// price every survivor, drop exclusions, then apply the out-of-pocket
// ceiling and the margin pre-sort on the formula-driven branches.
func (p *Pipeline) priceStage(items []model.CatalogItem, criteria model.Criteria) model.PricedOffers {
	strategy := p.pricer.StrategyFor(criteria)

	offers := make(model.PricedOffers, 0, len(items))
	for _, item := range items {
		offer, err := strategy.Price(item)
		if err != nil {
			// Exclusion is the only error a strategy produces; either
			// way the item simply leaves the pass.
			continue
		}
		offers = append(offers, offer)
	}

	offers = p.applyMaxPocket(offers, criteria)

	// The manual grid keeps the shop's own ordering; the computed
	// branches pre-sort by margin.
	if !criteria.Network.IsOpenMarket() || p.settings.Mode == config.ModeLinear {
		offers.Sort()
	}

	return offers
}

// applyMaxPocket caps selling prices so the client's out-of-pocket stays
// under the configured ceiling: price drops to reimbursement base plus
// ceiling, but never under twice the purchase price (then the original
// price wins back).
func (p *Pipeline) applyMaxPocket(offers model.PricedOffers, criteria model.Criteria) model.PricedOffers {
	limit := p.settings.MaxPocketFor(criteria.Type)
	if limit <= 0 {
		return offers
	}

	base := model.RefundBase(criteria.Type)
	for i := range offers {
		target := base + limit
		selling := offers[i].SellingPrice
		if target < selling {
			selling = target
		}
		if floor := offers[i].PurchasePrice * 2; selling < floor {
			if offers[i].SellingPrice > floor {
				selling = offers[i].SellingPrice
			} else {
				selling = floor
			}
		}
		offers[i].SellingPrice = selling
		offers[i].Margin = selling - offers[i].PurchasePrice
	}
	return offers
}

// filterIndex applies stage 4: tolerance comparison over normalized
// index strings; skipped when no index is requested.
func (p *Pipeline) filterIndex(offers model.PricedOffers, criteria model.Criteria) model.PricedOffers {
	if criteria.Index == "" {
		return offers
	}

	out := make(model.PricedOffers, 0, len(offers))
	for _, offer := range offers {
		if model.IndexMatches(offer.Index, criteria.Index) {
			out = append(out, offer)
		}
	}
	return out
}

// filterPhotochromic applies stage 5: the request always wants exactly
// one side of the photochromic partition.
func (p *Pipeline) filterPhotochromic(offers model.PricedOffers, criteria model.Criteria) model.PricedOffers {
	out := make(model.PricedOffers, 0, len(offers))
	for _, offer := range offers {
		if p.classifier.IsPhotochromic(offer.CatalogItem) == criteria.Photochromic {
			out = append(out, offer)
		}
	}
	return out
}

// filterCoating applies stage 6: exact coating match when requested.
func (p *Pipeline) filterCoating(offers model.PricedOffers, criteria model.Criteria) model.PricedOffers {
	if criteria.Coating == "" {
		return offers
	}

	out := make(model.PricedOffers, 0, len(offers))
	for _, offer := range offers {
		if strings.EqualFold(strings.TrimSpace(offer.Coating), strings.TrimSpace(criteria.Coating)) {
			out = append(out, offer)
		}
	}
	return out
}

// filterMyopiaControl applies stage 7: only myopia-control designs when
// the flag is set.
func (p *Pipeline) filterMyopiaControl(offers model.PricedOffers, criteria model.Criteria) model.PricedOffers {
	if !criteria.MyopiaControl {
		return offers
	}

	out := make(model.PricedOffers, 0, len(offers))
	for _, offer := range offers {
		if p.classifier.IsMyopiaControl(offer.Name) {
			out = append(out, offer)
		}
	}
	return out
}

// filterDesign applies stage 8, always last: exact design match.
func (p *Pipeline) filterDesign(offers model.PricedOffers, criteria model.Criteria) model.PricedOffers {
	if criteria.Design == "" {
		return offers
	}

	out := make(model.PricedOffers, 0, len(offers))
	for _, offer := range offers {
		if strings.EqualFold(strings.TrimSpace(offer.Design), strings.TrimSpace(criteria.Design)) {
			out = append(out, offer)
		}
	}
	return out
}

// uniqueValues collects the distinct non-empty values of a field in
// first-seen order.
func uniqueValues(offers model.PricedOffers, field func(model.PricedOffer) string) []string {
	seen := make(map[string]bool, len(offers))
	var out []string
	for _, offer := range offers {
		v := strings.TrimSpace(field(offer))
		if v == "" {
			continue
		}
		key := strings.ToUpper(v)
		if !seen[key] {
			seen[key] = true
			out = append(out, v)
		}
	}
	return out
}
