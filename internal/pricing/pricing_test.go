package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podium-optique/podium/internal/classification"
	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/config"
	"github.com/podium-optique/podium/internal/model"
)

func newTestPricer(settings *config.Settings) *Pricer {
	return NewPricer(settings, classification.NewDefaultClassifier())
}

func linearSettings() *config.Settings {
	return &config.Settings{
		Mode: config.ModeLinear,
		Linear: map[string]config.LinearRule{
			config.CategoryProgressive:   {Multiplier: 2.5, Offset: 20},
			config.CategoryUnifocalStock: {Multiplier: 3.0, Offset: 5},
		},
	}
}

func TestLinearStrategy_Determinism(t *testing.T) {
	p := newTestPricer(linearSettings())
	strategy := p.StrategyFor(model.Criteria{Network: model.NetworkNone})

	item := model.CatalogItem{
		ID:            1,
		Name:          "PROG HD 1.60 QUATTRO",
		Type:          model.GeometryProgressive,
		PurchasePrice: 20,
	}

	offer, err := strategy.Price(item)
	require.NoError(t, err)
	assert.InDelta(t, 70, offer.SellingPrice, 1e-9) // 20*2.5 + 20
	assert.InDelta(t, 50, offer.Margin, 1e-9)
}

func TestLinearStrategy_CategoryResolution(t *testing.T) {
	p := newTestPricer(linearSettings())
	strategy := p.StrategyFor(model.Criteria{Network: model.NetworkNone})

	// Stock unifocal uses the stock sub-rule.
	stock := model.CatalogItem{Name: "UNI STOCK 1.50", Type: model.GeometryUnifocal, Flow: model.FlowStock, PurchasePrice: 10}
	offer, err := strategy.Price(stock)
	require.NoError(t, err)
	assert.InDelta(t, 35, offer.SellingPrice, 1e-9) // 10*3.0 + 5

	// Fabricated unifocal has no sub-rule configured, so it falls back
	// to the default {2.5, 20}.
	fab := model.CatalogItem{Name: "UNI FAB 1.50", Type: model.GeometryUnifocal, Flow: model.FlowFabrication, PurchasePrice: 10}
	offer, err = strategy.Price(fab)
	require.NoError(t, err)
	assert.InDelta(t, 45, offer.SellingPrice, 1e-9)
}

func TestLinearStrategy_RoundHalfUp(t *testing.T) {
	assert.InDelta(t, 71, RoundHalfUp(70.5), 1e-9)
	assert.InDelta(t, 70, RoundHalfUp(70.4), 1e-9)
	assert.InDelta(t, 71, RoundHalfUp(70.6), 1e-9)
}

func TestLinearStrategy_PrecalAddOn(t *testing.T) {
	s := linearSettings()
	s.PrecalPrice = 12
	p := newTestPricer(s)

	strategy := p.StrategyFor(model.Criteria{Network: model.NetworkNone, Precal: true})
	item := model.CatalogItem{Name: "PROG", Type: model.GeometryProgressive, PurchasePrice: 20}

	offer, err := strategy.Price(item)
	require.NoError(t, err)
	assert.InDelta(t, 82, offer.SellingPrice, 1e-9) // 70 + 12
}

func TestManualStrategy(t *testing.T) {
	s := &config.Settings{
		Mode: config.ModePerLens,
		Manual: config.ManualGrid{
			Prices: map[string]float64{
				"PROGRESSIF|QUATTRO|1.60|MISTRAL": 240.5,
				"PROGRESSIF|ECO|1.60|MISTRAL":     100,
			},
			DisabledDesigns: []string{"ECO"},
		},
	}
	p := newTestPricer(s)
	strategy := p.StrategyFor(model.Criteria{Network: model.NetworkNone})

	priced := model.CatalogItem{
		Name: "PROG HD", Type: model.GeometryProgressive,
		Design: "QUATTRO", Index: "1,60", Coating: "MISTRAL",
		PurchasePrice: 80,
	}
	offer, err := strategy.Price(priced)
	require.NoError(t, err)
	// Manual grid values are never rounded.
	assert.InDelta(t, 240.5, offer.SellingPrice, 1e-9)
	assert.InDelta(t, 160.5, offer.Margin, 1e-9)

	// No grid entry: excluded, not priced at zero.
	unknown := model.CatalogItem{Name: "PROG MAX", Type: model.GeometryProgressive, Design: "HD", Index: "1.67", Coating: "MISTRAL"}
	_, err = strategy.Price(unknown)
	assert.True(t, errors.Is(err, common.ErrExcluded))

	// Disable lists override price presence.
	disabled := model.CatalogItem{Name: "ECO", Type: model.GeometryProgressive, Design: "ECO", Index: "1.60", Coating: "MISTRAL"}
	_, err = strategy.Price(disabled)
	assert.True(t, errors.Is(err, common.ErrExcluded))
}

func TestNegotiatedStrategy(t *testing.T) {
	p := newTestPricer(linearSettings())
	strategy := p.StrategyFor(model.Criteria{Network: model.NetworkKalixia})

	item := model.CatalogItem{
		Name:          "PROG HD",
		PurchasePrice: 80,
		NetworkPrices: map[model.Network]float64{model.NetworkKalixia: 190},
	}
	offer, err := strategy.Price(item)
	require.NoError(t, err)
	assert.InDelta(t, 190, offer.SellingPrice, 1e-9)
	assert.InDelta(t, 110, offer.Margin, 1e-9)

	// Non-positive negotiated price excludes.
	item.NetworkPrices[model.NetworkKalixia] = 0
	_, err = strategy.Price(item)
	assert.True(t, errors.Is(err, common.ErrExcluded))

	// Absent network field excludes.
	bare := model.CatalogItem{Name: "PROG MAX", PurchasePrice: 80}
	_, err = strategy.Price(bare)
	assert.True(t, errors.Is(err, common.ErrExcluded))
}

func TestNegotiatedStrategy_PrecalFromNetworkTable(t *testing.T) {
	p := newTestPricer(linearSettings())
	strategy := p.StrategyFor(model.Criteria{Network: model.NetworkSeveane, Precal: true})

	item := model.CatalogItem{
		Name:          "PROG",
		PurchasePrice: 80,
		NetworkPrices: map[model.Network]float64{model.NetworkSeveane: 190},
	}
	offer, err := strategy.Price(item)
	require.NoError(t, err)
	assert.InDelta(t, 190+model.NetworkSeveane.PrecalAddOn(), offer.SellingPrice, 1e-9)
}

func TestComponentPrice(t *testing.T) {
	classifier := classification.NewDefaultClassifier()

	item := model.CatalogItem{
		Name:    "PROG SUP",
		Type:    model.GeometryProgressive,
		Index:   "1.60",
		Coating: "HMC BLUE",
	}
	table := map[string]float64{
		"PROGRESSIF": 80,
		"1.60":       20,
		"HMC":        0,
		"BLUE":       20,
	}

	assert.InDelta(t, 120, ComponentPrice(item, table, classifier), 1e-9)
}

func TestComponentPrice_GeometryPrecedence(t *testing.T) {
	classifier := classification.NewDefaultClassifier()
	table := map[string]float64{
		"INTERIEUR":  100,
		"PROGRESSIF": 80,
		"UNIFOCAL":   10,
	}

	interior := model.CatalogItem{Type: model.GeometryInterior}
	assert.InDelta(t, 100, ComponentPrice(interior, table, classifier), 1e-9)

	unifocal := model.CatalogItem{Type: model.GeometryUnifocal}
	assert.InDelta(t, 10, ComponentPrice(unifocal, table, classifier), 1e-9)
}

func TestComponentPrice_PhotochromicCharge(t *testing.T) {
	classifier := classification.NewDefaultClassifier()
	table := map[string]float64{"UNIFOCAL": 10, "PHOTOCHROMIC": 40}

	photo := model.CatalogItem{Type: model.GeometryUnifocal, Name: "UNI TRANSITIONS"}
	assert.InDelta(t, 50, ComponentPrice(photo, table, classifier), 1e-9)

	clear := model.CatalogItem{Type: model.GeometryUnifocal, Name: "UNI"}
	assert.InDelta(t, 10, ComponentPrice(clear, table, classifier), 1e-9)
}

func TestSupplementaryPrice_Fallback(t *testing.T) {
	s := &config.Settings{
		Mode:          config.ModeLinear,
		Supplementary: config.SupplementarySettings{Mode: config.SupplementaryManual},
	}
	p := newTestPricer(s)

	// No component table: flat 2.5x over the effective cost.
	price := p.SupplementaryPrice(model.CatalogItem{Name: "UNI"}, 24)
	assert.InDelta(t, 60, price, 1e-9)
}

func TestSupplementaryPrice_ComponentMode(t *testing.T) {
	s := &config.Settings{
		Mode: config.ModeLinear,
		Supplementary: config.SupplementarySettings{
			Mode:       config.SupplementaryComponent,
			Components: map[string]float64{"PROGRESSIF": 80, "1.60": 20},
		},
	}
	p := newTestPricer(s)

	item := model.CatalogItem{Name: "PROG", Type: model.GeometryProgressive, Index: "1.60"}
	assert.InDelta(t, 100, p.SupplementaryPrice(item, 24), 1e-9)
}
