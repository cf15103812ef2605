package model

import "sort"

// PricedOffer is a catalog item augmented with the computed selling price
// and margin. Offers are derived fresh on every filtering pass and never
// persisted.
type PricedOffer struct {
	CatalogItem
	SellingPrice float64
	Margin       float64
}

// PricedOffers is a list of offers that supports margin ranking.
type PricedOffers []PricedOffer

// Sort orders offers by descending margin. Equal margins keep a
// deterministic order by ascending catalog ID so that podium ranks are
// reproducible.
func (o PricedOffers) Sort() {
	sort.SliceStable(o, func(i, j int) bool {
		if o[i].Margin != o[j].Margin {
			return o[i].Margin > o[j].Margin
		}
		return o[i].ID < o[j].ID
	})
}

// Top returns the highest-margin offer, or nil if the list is empty.
func (o PricedOffers) Top() *PricedOffer {
	if len(o) == 0 {
		return nil
	}
	o.Sort()
	return &o[0]
}

// TopN returns the N highest-margin offers.
func (o PricedOffers) TopN(n int) PricedOffers {
	if n <= 0 {
		return PricedOffers{}
	}

	o.Sort()

	if n > len(o) {
		n = len(o)
	}

	result := make(PricedOffers, n)
	copy(result, o[:n])
	return result
}

// PodiumSize is the number of offers shown on the podium.
const PodiumSize = 3

// PodiumLabel names a podium rank for display. Rank 0 is guaranteed to be
// the maximum-margin offer of the filtered set.
func PodiumLabel(rank int) string {
	switch rank {
	case 0:
		return "MEILLEUR CHOIX"
	case 1:
		return "RESTE À CHARGE OPTIMISÉ"
	case 2:
		return "PREMIUM"
	default:
		return ""
	}
}
