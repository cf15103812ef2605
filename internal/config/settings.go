package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/model"
)

// PricingMode selects how open-market selling prices are produced.
type PricingMode string

const (
	// ModeLinear prices every lens from purchase price and a per-category
	// multiplier/offset pair.
	ModeLinear PricingMode = "linear"
	// ModePerLens prices only lenses listed in the manual grid.
	ModePerLens PricingMode = "per_lens"
)

// The six linear pricing categories. Unifocals split by commercial flow;
// every other geometry has one category.
const (
	CategoryUnifocalStock = "UNIFOCAL_STOCK"
	CategoryUnifocalFab   = "UNIFOCAL_FAB"
	CategoryProgressive   = "PROGRESSIF"
	CategoryDegressive    = "DEGRESSIF"
	CategoryInterior      = "INTERIEUR"
	CategoryMultifocal    = "MULTIFOCAL"
)

// LinearRule is one multiplier/offset pair of the linear table.
type LinearRule struct {
	Multiplier float64 `mapstructure:"multiplier"`
	Offset     float64 `mapstructure:"offset"`
}

// DefaultLinearRule applies when a category is missing from the table.
var DefaultLinearRule = LinearRule{Multiplier: 2.5, Offset: 20}

// ManualGrid is the per-lens pricing grid with its disable lists. An item
// with no grid entry, or a non-positive one, is excluded from results.
type ManualGrid struct {
	// Prices is keyed by the canonical grouping key string.
	Prices           map[string]float64 `mapstructure:"prices"`
	DisabledDesigns  []string           `mapstructure:"disabled_designs"`
	DisabledIndices  []string           `mapstructure:"disabled_indices"`
	DisabledCoatings []string           `mapstructure:"disabled_coatings"`
}

// SupplementaryMode selects how supplementary pairs are priced.
type SupplementaryMode string

const (
	// SupplementaryComponent sums per-attribute charges from a table.
	SupplementaryComponent SupplementaryMode = "component"
	// SupplementaryManual uses a flat multiplier over the effective cost.
	SupplementaryManual SupplementaryMode = "manual"
)

// SupplementarySettings configures second/third pair pricing.
type SupplementarySettings struct {
	Mode SupplementaryMode `mapstructure:"mode"`
	// Components maps a cost-component key (geometry category, index
	// bracket, coating family, PHOTOCHROMIC) to an additive euro amount.
	Components map[string]float64 `mapstructure:"components"`
	// Multiplier is the flat fallback applied to the effective cost when
	// no component table is configured.
	Multiplier float64 `mapstructure:"multiplier"`
}

// Settings is the versioned shop pricing configuration. Every field has a
// registered default, so partial or legacy stored shapes merge cleanly
// instead of failing.
type Settings struct {
	Linear         map[string]LinearRule `mapstructure:"linear"`
	Manual         ManualGrid            `mapstructure:"manual"`
	Supplementary  SupplementarySettings `mapstructure:"supplementary"`
	MaxPocket      map[string]float64    `mapstructure:"max_pocket"`
	DisabledBrands []string              `mapstructure:"disabled_brands"`
	Mode           PricingMode           `mapstructure:"mode"`
	PrecalPrice    float64               `mapstructure:"precal_price"`
	Version        int                   `mapstructure:"version"`
}

// SettingsVersion is the current configuration schema version.
const SettingsVersion = 2

// defaultsTree is the canonical default shape of the pricing section.
// Keys are lower case because viper folds stored map keys to lower case.
func defaultsTree() map[string]any {
	linear := make(map[string]any, 6)
	for _, cat := range []string{
		CategoryUnifocalStock,
		CategoryUnifocalFab,
		CategoryProgressive,
		CategoryDegressive,
		CategoryInterior,
		CategoryMultifocal,
	} {
		linear[strings.ToLower(cat)] = map[string]any{
			"multiplier": DefaultLinearRule.Multiplier,
			"offset":     DefaultLinearRule.Offset,
		}
	}

	return map[string]any{
		"version":         SettingsVersion,
		"mode":            string(ModeLinear),
		"precal_price":    0.0,
		"disabled_brands": []string{},
		"linear":          linear,
		"manual": map[string]any{
			"prices":            map[string]float64{},
			"disabled_designs":  []string{},
			"disabled_indices":  []string{},
			"disabled_coatings": []string{},
		},
		"supplementary": map[string]any{
			"mode":       string(SupplementaryManual),
			"components": map[string]float64{},
			"multiplier": 2.5,
		},
		"max_pocket": map[string]float64{},
	}
}

// SetDefaults registers every pricing key with viper. This is the single
// place where defaults live; loading merges them under whatever partial
// shape the stored file has.
func SetDefaults(v *viper.Viper) {
	registerDefaults(v, "pricing", defaultsTree())
}

func registerDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		if sub, ok := value.(map[string]any); ok {
			registerDefaults(v, prefix+"."+key, sub)
			continue
		}
		v.SetDefault(prefix+"."+key, value)
	}
}

// Load reads the pricing settings from viper, filling defaults for every
// missing key and validating the result. Stored shapes may be partial or
// predate the current schema; each absent nested key falls back to its
// default individually.
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	stored := map[string]any{}
	if raw := v.Get("pricing"); raw != nil {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: pricing section is not a table", common.ErrInvalidConfig)
		}
		stored = m
	}

	var s Settings
	if err := decodeSettings(withDefaults(stored, defaultsTree()), &s); err != nil {
		return nil, fmt.Errorf("failed to parse pricing configuration: %w", err)
	}

	// Viper folds map keys to lower case; the grid and tables are keyed
	// by canonical uppercase strings, so restore them here.
	s.Linear = upperKeys(s.Linear)
	s.Manual.Prices = upperKeys(s.Manual.Prices)
	s.Supplementary.Components = upperKeys(s.Supplementary.Components)
	s.MaxPocket = upperKeys(s.MaxPocket)

	if err := s.Validate(); err != nil {
		return nil, err
	}

	common.LogDebug("Loaded pricing settings", common.Fields{
		"mode":         s.Mode,
		"manual_grid":  len(s.Manual.Prices),
		"linear_rules": len(s.Linear),
	})

	return &s, nil
}

// withDefaults overlays stored values on the default tree without
// mutating either map. A stored key wins; nested tables merge per key, so
// a shape that only names some of the keys keeps the defaults for the
// rest.
func withDefaults(stored, defaults map[string]any) map[string]any {
	out := make(map[string]any, len(defaults)+len(stored))
	for k, v := range defaults {
		out[k] = v
	}
	for k, sv := range stored {
		dm, dok := out[k].(map[string]any)
		sm, sok := sv.(map[string]any)
		if dok && sok {
			out[k] = withDefaults(sm, dm)
			continue
		}
		out[k] = sv
	}
	return out
}

// decodeSettings mirrors the decoder viper uses so numeric and string
// conversions behave the same as a direct viper unmarshal.
func decodeSettings(tree map[string]any, s *Settings) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           s,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(tree)
}

func upperKeys[V any](in map[string]V) map[string]V {
	if in == nil {
		return nil
	}
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[strings.ToUpper(k)] = v
	}
	return out
}

// Validate rejects configurations the pricing pass cannot interpret.
func (s *Settings) Validate() error {
	switch s.Mode {
	case ModeLinear, ModePerLens:
	default:
		return fmt.Errorf("%w: invalid pricing mode %q (want %q or %q)", common.ErrInvalidConfig, s.Mode, ModeLinear, ModePerLens)
	}

	switch s.Supplementary.Mode {
	case SupplementaryComponent, SupplementaryManual:
	default:
		return fmt.Errorf("%w: invalid supplementary mode %q", common.ErrInvalidConfig, s.Supplementary.Mode)
	}

	for key, charge := range s.Supplementary.Components {
		if charge < 0 {
			return fmt.Errorf("%w: supplementary component %q must not carry a negative charge, got %.2f", common.ErrInvalidConfig, key, charge)
		}
	}

	if s.Supplementary.Multiplier <= 0 {
		return fmt.Errorf("%w: supplementary multiplier must be positive, got %.2f", common.ErrInvalidConfig, s.Supplementary.Multiplier)
	}

	if s.PrecalPrice < 0 {
		return fmt.Errorf("%w: precal price must not be negative, got %.2f", common.ErrInvalidConfig, s.PrecalPrice)
	}

	return nil
}

// LinearRuleFor returns the rule for a category, falling back to
// DefaultLinearRule when the category is absent.
func (s *Settings) LinearRuleFor(category string) LinearRule {
	if rule, ok := s.Linear[category]; ok && rule.Multiplier > 0 {
		return rule
	}
	return DefaultLinearRule
}

// ManualPrice looks up the manual grid. The second return value is false
// when the lens has no usable price and must be excluded.
func (s *Settings) ManualPrice(key model.GroupingKey) (float64, bool) {
	price, ok := s.Manual.Prices[string(key)]
	if !ok || price <= 0 {
		return 0, false
	}
	return price, true
}

// ManualDisabled reports whether the manual grid's disable lists exclude
// the item regardless of price presence.
func (s *Settings) ManualDisabled(item model.CatalogItem) bool {
	if containsFold(s.Manual.DisabledDesigns, item.Design) {
		return true
	}
	if containsFold(s.Manual.DisabledIndices, model.NormalizeIndex(item.Index)) {
		return true
	}
	return containsFold(s.Manual.DisabledCoatings, item.Coating)
}

// BrandDisabled reports whether the shop hides a brand entirely.
func (s *Settings) BrandDisabled(brand string) bool {
	return containsFold(s.DisabledBrands, brand)
}

// MaxPocketFor returns the configured out-of-pocket ceiling for a
// geometry, 0 when the optimization is disabled.
func (s *Settings) MaxPocketFor(t model.GeometryType) float64 {
	return s.MaxPocket[string(t)]
}

func containsFold(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(value)) {
			return true
		}
	}
	return false
}
