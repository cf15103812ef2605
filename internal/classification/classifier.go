// Package classification decides lens attributes from supplier naming
// conventions: photochromic families, coating families, myopia-control
// designs and stock-flow markers.
package classification

import (
	"strings"
	"sync"

	"github.com/podium-optique/podium/internal/model"
)

// Markers holds the substring tables driving attribute detection.
// All matching is case-insensitive.
type Markers struct {
	Photochromic  []string
	HMC           []string
	BlueProtect   []string
	MyopiaControl []string
	Stock         []string
}

// Classifier detects lens attributes from catalog text fields. The marker
// tables can be swapped at runtime when a supplier introduces new ranges.
type Classifier struct {
	markers Markers
	mu      sync.RWMutex
}

// NewClassifier creates a classifier with the given marker tables.
func NewClassifier(markers Markers) *Classifier {
	return &Classifier{markers: markers}
}

// NewDefaultClassifier creates a classifier with the built-in markers.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultMarkers())
}

// UpdateMarkers replaces the marker tables.
func (c *Classifier) UpdateMarkers(markers Markers) {
	c.mu.Lock()
	c.markers = markers
	c.mu.Unlock()
}

// IsPhotochromic reports whether the item belongs to a known
// photochromic lens family. Matching scans the concatenated name, design
// and coating fields; families absent from the marker table read as
// non-photochromic.
func (c *Classifier) IsPhotochromic(item model.CatalogItem) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	text := searchText(item)
	return containsAny(text, c.markers.Photochromic)
}

// HasHMC reports whether a coating name belongs to an antireflective
// hard multi-coat family.
func (c *Classifier) HasHMC(coating string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return containsAny(strings.ToUpper(coating), c.markers.HMC)
}

// HasBlueProtect reports whether a coating name carries blue-light
// protection.
func (c *Classifier) HasBlueProtect(coating string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return containsAny(strings.ToUpper(coating), c.markers.BlueProtect)
}

// IsMyopiaControl reports whether the lens name indicates a
// myopia-control design.
func (c *Classifier) IsMyopiaControl(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return containsAny(strings.ToUpper(name), c.markers.MyopiaControl)
}

// IsStock reports whether the item ships from stock, from either the
// commercial-flow tag or a name marker.
func (c *Classifier) IsStock(item model.CatalogItem) bool {
	if item.Flow == model.FlowStock {
		return true
	}
	if item.Flow == model.FlowFabrication {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return containsAny(strings.ToUpper(item.Name), c.markers.Stock)
}

// searchText concatenates the fields scanned for family markers.
func searchText(item model.CatalogItem) string {
	return strings.ToUpper(strings.Join([]string{
		item.Name,
		item.Design,
		item.Coating,
		item.Index,
	}, " "))
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if m == "" {
			continue
		}
		if strings.Contains(text, strings.ToUpper(m)) {
			return true
		}
	}
	return false
}
