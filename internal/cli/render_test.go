package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/podium-optique/podium/internal/engine"
	"github.com/podium-optique/podium/internal/model"
	"github.com/stretchr/testify/assert"
)

func sampleResult() *engine.Result {
	return &engine.Result{
		Offers: model.PricedOffers{
			{
				CatalogItem: model.CatalogItem{
					ID: 1, Code: "H100", Name: "LIFESTYLE 4", Brand: "HOYA",
					Type: model.GeometryProgressive, Index: "1.60", Coating: "HVLL",
					PurchasePrice: 80,
				},
				SellingPrice: 300,
				Margin:       220,
			},
			{
				CatalogItem: model.CatalogItem{
					ID: 2, Code: "C300", Name: "EVOLIS ECO", Brand: "CODIR",
					Type: model.GeometryProgressive, Index: "1.60",
					PurchasePrice: 40,
				},
				SellingPrice: 120,
				Margin:       80,
			},
		},
	}
}

func TestRenderPodium(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).RenderPodium(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "MEILLEUR CHOIX")
	assert.Contains(t, out, "LIFESTYLE 4")
	assert.Contains(t, out, "EVOLIS ECO")
}

func TestRenderPodiumDegraded(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).RenderPodium(&engine.Result{Degraded: true})

	out := buf.String()
	assert.Contains(t, out, "Catalogue indisponible")
	assert.Contains(t, out, "Aucun verre")
}

func TestRenderOffers(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).RenderOffers(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "H100")
	assert.Contains(t, out, "C300")
	assert.Contains(t, out, "300.00")
}

func TestRenderQuote(t *testing.T) {
	quote := &model.Quote{
		CreatedAt:     time.Now(),
		Client:        "dupont",
		Reimbursement: 700,
		Primary:       sampleResult().Offers[0],
		Supplementary: []model.SupplementaryPair{
			{
				Label: "2ᵉ paire -50%",
				Kind:  model.PairDiscount,
				Offer: model.PricedOffer{
					CatalogItem:  model.CatalogItem{Code: "H100", Name: "LIFESTYLE 4", Brand: "HOYA"},
					SellingPrice: 150,
				},
			},
		},
	}

	var buf bytes.Buffer
	NewRenderer(&buf).RenderQuote(quote)

	out := buf.String()
	assert.Contains(t, out, "dupont")
	assert.Contains(t, out, "2ᵉ paire -50%")
	assert.Contains(t, out, "900.00")
	assert.Contains(t, out, "200.00")
}
