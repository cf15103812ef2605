package engine

import (
	"testing"

	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteSessionLifecycle(t *testing.T) {
	session := NewQuoteSession("martin", model.Criteria{Network: model.NetworkNone})

	_, err := session.Quote()
	assert.ErrorIs(t, err, common.ErrNoPrimarySelection)

	err = session.AddSupplementary(model.SupplementaryPair{Kind: model.PairDiscount})
	assert.ErrorIs(t, err, common.ErrNoPrimarySelection)

	primary := model.PricedOffer{
		CatalogItem:  model.CatalogItem{ID: 1, Code: "H1", Name: "LIFESTYLE 4", Brand: "HOYA", PurchasePrice: 80},
		SellingPrice: 150,
		Margin:       70,
	}
	session.SelectPrimary(primary)
	assert.True(t, session.FirstPair())

	require.NoError(t, session.AddSupplementary(model.SupplementaryPair{
		Kind:  model.PairDiscount,
		Offer: model.PricedOffer{SellingPrice: 75},
	}))
	assert.False(t, session.FirstPair())

	require.NoError(t, session.AddSupplementary(model.SupplementaryPair{
		Kind:  model.PairAlternative,
		Offer: model.PricedOffer{SellingPrice: 60},
	}))

	session.RemoveSupplementary(5) // out of range, no-op
	assert.Len(t, session.Supplementary(), 2)

	session.RemoveSupplementary(0)
	require.Len(t, session.Supplementary(), 1)
	assert.Equal(t, model.PairAlternative, session.Supplementary()[0].Kind)

	session.SetReimbursement(100)
	quote, err := session.Quote()
	require.NoError(t, err)

	totals := quote.Totals()
	assert.Equal(t, 300.0, totals.PrimaryPair)
	assert.Equal(t, 120.0, totals.Supplementary)
	assert.Equal(t, 320.0, totals.Remainder)
}

func TestQuoteSessionReplacingPrimaryDropsPairs(t *testing.T) {
	session := NewQuoteSession("martin", model.Criteria{})

	session.SelectPrimary(model.PricedOffer{SellingPrice: 100})
	require.NoError(t, session.AddSupplementary(model.SupplementaryPair{Kind: model.PairDiscount}))

	session.SelectPrimary(model.PricedOffer{SellingPrice: 200})
	assert.Empty(t, session.Supplementary())
	assert.True(t, session.FirstPair())
}
