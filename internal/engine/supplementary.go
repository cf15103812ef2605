package engine

import (
	"strings"

	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/model"
)

// DiscountPair derives the half-price second pair from the selected
// primary offer. The lens is identical; only the selling price changes.
func (p *Pipeline) DiscountPair(primary *model.PricedOffer) (model.SupplementaryPair, error) {
	if primary == nil {
		return model.SupplementaryPair{}, common.ErrNoPrimarySelection
	}

	offer := *primary
	offer.SellingPrice = primary.SellingPrice * 0.5
	offer.Margin = offer.SellingPrice - offer.PurchasePrice

	return model.SupplementaryPair{
		Label: "2ᵉ paire -50%",
		Kind:  model.PairDiscount,
		Offer: offer,
	}, nil
}

// BestAlternative searches the discount brand's catalog for the
// supplementary lens with the highest margin in the primary's family.
// firstPair selects the rebate tier used as the effective cost.
func (p *Pipeline) BestAlternative(catalog []model.CatalogItem, primary *model.PricedOffer, firstPair bool) (model.SupplementaryPair, error) {
	if primary == nil {
		return model.SupplementaryPair{}, common.ErrNoPrimarySelection
	}

	progressive := primary.Type == model.GeometryProgressive

	var best *model.PricedOffer
	for _, item := range catalog {
		if !strings.EqualFold(item.Brand, model.DiscountBrand) {
			continue
		}
		if progressive != (item.Type == model.GeometryProgressive) {
			continue
		}

		cost := p.effectiveCost(item, firstPair, progressive)
		selling := p.pricer.SupplementaryPrice(item, cost)
		offer := model.PricedOffer{
			CatalogItem:  item,
			SellingPrice: selling,
			Margin:       selling - cost,
		}

		if best == nil || offer.Margin > best.Margin ||
			(offer.Margin == best.Margin && offer.ID < best.ID) {
			o := offer
			best = &o
		}
	}
	if best == nil {
		return model.SupplementaryPair{}, common.ErrNoCandidates
	}

	return model.SupplementaryPair{
		Label: "2ᵉ paire alternative",
		Kind:  model.PairAlternative,
		Offer: *best,
	}, nil
}

// effectiveCost picks the rebated purchase price applicable to a
// supplementary sale. The deeper rebate only applies to the first
// supplementary pair on a progressive primary; a missing tier falls
// back to the next one up.
func (p *Pipeline) effectiveCost(item model.CatalogItem, firstPair, progressive bool) float64 {
	if firstPair && progressive && item.PurchasePriceSuperBonifie > 0 {
		return item.PurchasePriceSuperBonifie
	}
	if item.PurchasePriceBonifie > 0 {
		return item.PurchasePriceBonifie
	}
	return item.PurchasePrice
}
