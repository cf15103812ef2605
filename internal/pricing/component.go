package pricing

import (
	"strings"

	"github.com/podium-optique/podium/internal/classification"
	"github.com/podium-optique/podium/internal/config"
	"github.com/podium-optique/podium/internal/model"
)

// Component table keys that are not free-form index brackets.
const (
	// ComponentPhotochromic is the charge key for photochromic lenses.
	ComponentPhotochromic = "PHOTOCHROMIC"
	// ComponentHMC is the charge key for antireflective coating families.
	ComponentHMC = "HMC"
	// ComponentBlue is the charge key for blue-light protection.
	ComponentBlue = "BLUE"
)

// ComponentPrice sums the per-attribute charges of the supplementary
// pricing table for one item: exactly one geometry-category charge (most
// specific geometry wins), every index-bracket charge whose key is a
// substring of the item's normalized index, the coating family charges,
// and the photochromic charge. Absent keys charge 0.
func ComponentPrice(item model.CatalogItem, table map[string]float64, classifier *classification.Classifier) float64 {
	if len(table) == 0 {
		return 0
	}

	total := table[geometryComponent(item.Type)]

	index := model.NormalizeIndex(item.Index)
	if index != "" {
		for key, charge := range table {
			if isIndexBracket(key) && strings.Contains(index, key) {
				total += charge
			}
		}
	}

	if classifier.HasHMC(item.Coating) {
		total += table[ComponentHMC]
	}
	if classifier.HasBlueProtect(item.Coating) {
		total += table[ComponentBlue]
	}
	if classifier.IsPhotochromic(item) {
		total += table[ComponentPhotochromic]
	}

	return total
}

// geometryComponent picks the single geometry charge key, most specific
// first: interior > progressive > degressive > multifocal > unifocal.
func geometryComponent(t model.GeometryType) string {
	s := strings.ToUpper(string(t))
	switch {
	case strings.Contains(s, string(model.GeometryInterior)):
		return string(model.GeometryInterior)
	case strings.Contains(s, string(model.GeometryProgressive)):
		return string(model.GeometryProgressive)
	case strings.Contains(s, string(model.GeometryDegressive)):
		return string(model.GeometryDegressive)
	case strings.Contains(s, string(model.GeometryMultifocal)):
		return string(model.GeometryMultifocal)
	default:
		return string(model.GeometryUnifocal)
	}
}

// isIndexBracket reports whether a table key names an index bracket
// ("1.60", "1.5") rather than a geometry or coating component.
func isIndexBracket(key string) bool {
	if key == "" {
		return false
	}
	return key[0] >= '0' && key[0] <= '9'
}

// SupplementaryPrice computes the selling price of a supplementary-pair
// candidate from its effective cost: the component table when configured,
// else the flat multiplier fallback.
func (p *Pricer) SupplementaryPrice(item model.CatalogItem, effectiveCost float64) float64 {
	supp := p.settings.Supplementary

	if supp.Mode == config.SupplementaryComponent && len(supp.Components) > 0 {
		return ComponentPrice(item, supp.Components, p.classifier)
	}

	multiplier := supp.Multiplier
	if multiplier <= 0 {
		multiplier = 2.5
	}
	return RoundHalfUp(effectiveCost * multiplier)
}
