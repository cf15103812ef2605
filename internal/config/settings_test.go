package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podium-optique/podium/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ModeLinear, s.Mode)
	assert.Equal(t, SettingsVersion, s.Version)
	assert.Equal(t, DefaultLinearRule, s.LinearRuleFor(CategoryProgressive))
	assert.Equal(t, SupplementaryManual, s.Supplementary.Mode)
	assert.InDelta(t, 2.5, s.Supplementary.Multiplier, 1e-9)
	assert.Empty(t, s.DisabledBrands)
}

func TestLoad_PartialShapeMergesDefaults(t *testing.T) {
	// A legacy stored shape that only knows about one category and no
	// supplementary section at all.
	v := viper.New()
	v.Set("pricing.mode", "per_lens")
	v.Set("pricing.linear.PROGRESSIF.multiplier", 3.0)
	v.Set("pricing.linear.PROGRESSIF.offset", 40.0)
	v.Set("pricing.manual.prices", map[string]float64{
		"PROGRESSIF|QUATTRO|1.60|MISTRAL": 240,
	})

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ModePerLens, s.Mode)
	assert.Equal(t, LinearRule{Multiplier: 3.0, Offset: 40.0}, s.LinearRuleFor(CategoryProgressive))
	// Untouched keys keep their documented defaults.
	assert.Equal(t, DefaultLinearRule, s.LinearRuleFor(CategoryMultifocal))
	assert.Equal(t, SupplementaryManual, s.Supplementary.Mode)

	price, ok := s.ManualPrice(model.GroupingKey("PROGRESSIF|QUATTRO|1.60|MISTRAL"))
	require.True(t, ok)
	assert.InDelta(t, 240, price, 1e-9)
}

func TestLoad_PartialYAMLFile(t *testing.T) {
	// A stored file naming only some keys must still load, with every
	// absent key at its default.
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`pricing:
  mode: per_lens
  manual:
    prices:
      "PROGRESSIF|QUATTRO|1.60|MISTRAL": 240
`)))

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ModePerLens, s.Mode)
	assert.Equal(t, SupplementaryManual, s.Supplementary.Mode)
	assert.InDelta(t, 2.5, s.Supplementary.Multiplier, 1e-9)
	assert.Equal(t, DefaultLinearRule, s.LinearRuleFor(CategoryProgressive))
	assert.Equal(t, SettingsVersion, s.Version)

	price, ok := s.ManualPrice(model.GroupingKey("PROGRESSIF|QUATTRO|1.60|MISTRAL"))
	require.True(t, ok)
	assert.InDelta(t, 240, price, 1e-9)
}

func TestLoad_PartialLinearRule(t *testing.T) {
	v := viper.New()
	v.Set("pricing.linear.DEGRESSIF.multiplier", 2.8)

	s, err := Load(v)
	require.NoError(t, err)

	// The untouched half of the rule keeps its default.
	assert.Equal(t, LinearRule{Multiplier: 2.8, Offset: DefaultLinearRule.Offset}, s.LinearRuleFor(CategoryDegressive))
}

func TestLoad_InvalidMode(t *testing.T) {
	v := viper.New()
	v.Set("pricing.mode", "auction")

	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoad_NegativeComponentCharge(t *testing.T) {
	v := viper.New()
	v.Set("pricing.supplementary.mode", "component")
	v.Set("pricing.supplementary.components", map[string]float64{"PROGRESSIF": -10})

	_, err := Load(v)
	assert.Error(t, err)
}

func TestSettings_ManualPrice(t *testing.T) {
	s := Settings{Manual: ManualGrid{Prices: map[string]float64{
		"UNIFOCAL|ECO|1.50|MISTRAL": 90,
		"UNIFOCAL|ECO|1.50|QUATTRO": 0,
	}}}

	_, ok := s.ManualPrice(model.GroupingKey("UNIFOCAL|ECO|1.50|QUATTRO"))
	assert.False(t, ok, "non-positive manual price must exclude, not price at 0")

	_, ok = s.ManualPrice(model.GroupingKey("UNIFOCAL|ECO|1.50|ABSENT"))
	assert.False(t, ok, "missing manual price must exclude")

	price, ok := s.ManualPrice(model.GroupingKey("UNIFOCAL|ECO|1.50|MISTRAL"))
	assert.True(t, ok)
	assert.InDelta(t, 90, price, 1e-9)
}

func TestSettings_ManualDisabled(t *testing.T) {
	s := Settings{Manual: ManualGrid{
		DisabledDesigns:  []string{"ECO"},
		DisabledIndices:  []string{"1.74"},
		DisabledCoatings: []string{"B-PROTECT"},
	}}

	assert.True(t, s.ManualDisabled(model.CatalogItem{Design: "eco"}))
	assert.True(t, s.ManualDisabled(model.CatalogItem{Index: "1,74"}))
	assert.True(t, s.ManualDisabled(model.CatalogItem{Coating: "B-PROTECT"}))
	assert.False(t, s.ManualDisabled(model.CatalogItem{Design: "QUATTRO", Index: "1.60", Coating: "MISTRAL"}))
}

func TestSettings_BrandDisabled(t *testing.T) {
	s := Settings{DisabledBrands: []string{"SEIKO"}}
	assert.True(t, s.BrandDisabled("SEIKO"))
	assert.False(t, s.BrandDisabled("HOYA"))
}
