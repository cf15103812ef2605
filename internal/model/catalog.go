// Package model defines the domain types shared across the application.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// GeometryType identifies the optical geometry of a lens.
type GeometryType string

const (
	// GeometryUnifocal represents single-vision lenses.
	GeometryUnifocal GeometryType = "UNIFOCAL"
	// GeometryProgressive represents progressive lenses.
	GeometryProgressive GeometryType = "PROGRESSIF"
	// GeometryDegressive represents degressive (near-priority) lenses.
	GeometryDegressive GeometryType = "DEGRESSIF"
	// GeometryInterior represents interior/office progressive lenses.
	GeometryInterior GeometryType = "INTERIEUR"
	// GeometryMultifocal represents bifocal and trifocal lenses.
	GeometryMultifocal GeometryType = "MULTIFOCAL"
)

// CommercialFlow distinguishes stock-held lenses from made-to-order ones.
type CommercialFlow string

const (
	// FlowStock indicates the lens ships from warehouse stock.
	FlowStock CommercialFlow = "STOCK"
	// FlowFabrication indicates the lens is surfaced to order.
	FlowFabrication CommercialFlow = "FABRICATION"
)

// CatalogItem is a single lens reference as received from the catalog
// source. It is never mutated after load; pricing produces PricedOffer
// copies instead.
type CatalogItem struct {
	Code    string
	Name    string
	Brand   string
	Index   string // index of refraction as printed, e.g. "1.50" or "1,50"
	Design  string
	Coating string
	Type    GeometryType
	Flow    CommercialFlow

	PurchasePrice float64
	// Rebated purchase prices used by the supplementary-pair path.
	// Zero means "not negotiated"; callers fall back to PurchasePrice.
	PurchasePriceBonifie      float64
	PurchasePriceSuperBonifie float64

	// Pre-negotiated selling prices per reimbursement network.
	// Zero or absent means the item is not sold on that network.
	NetworkPrices map[Network]float64

	ID int64
}

// NegotiatedPrice returns the pre-negotiated selling price for a partner
// network, or 0 when none is defined.
func (c *CatalogItem) NegotiatedPrice(n Network) float64 {
	if c.NetworkPrices == nil {
		return 0
	}
	return c.NetworkPrices[n]
}

// Validate checks the catalog invariants that must hold for every item.
func (c *CatalogItem) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("catalog item %d: name is required", c.ID)
	}
	if c.PurchasePrice < 0 {
		return fmt.Errorf("catalog item %d: purchase price must not be negative, got %.2f", c.ID, c.PurchasePrice)
	}
	return nil
}

// GroupingKey identifies a (type, design, index, coating) combination.
// Two items with semantically equal fields always produce the same key
// regardless of source casing and whitespace.
type GroupingKey string

// Key builds the canonical grouping key for an item.
func (c *CatalogItem) Key() GroupingKey {
	return NewGroupingKey(string(c.Type), c.Design, c.Index, c.Coating)
}

// NewGroupingKey canonicalizes the four grouping fields into a key.
func NewGroupingKey(geometry, design, index, coating string) GroupingKey {
	parts := []string{
		canonicalField(geometry),
		canonicalField(design),
		canonicalField(NormalizeIndex(index)),
		canonicalField(coating),
	}
	return GroupingKey(strings.Join(parts, "|"))
}

// canonicalField uppercases a field and collapses all whitespace runs.
func canonicalField(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// NormalizeIndex rewrites an index-of-refraction string to use a dot
// decimal separator. Catalog exports use "1,60" and "1.60" interchangeably.
func NormalizeIndex(index string) string {
	return strings.ReplaceAll(strings.TrimSpace(index), ",", ".")
}

// IndexValue parses an index string to a float. Unparseable values
// yield 0 so that partial catalog rows degrade instead of failing.
func IndexValue(index string) float64 {
	v, err := strconv.ParseFloat(NormalizeIndex(index), 64)
	if err != nil {
		return 0
	}
	return v
}

// IndexTolerance is the maximum difference under which two indices are
// considered equal ("1.5" matches "1.50", never "1.6").
const IndexTolerance = 0.01

// IndexMatches reports whether two index strings denote the same
// material within IndexTolerance.
func IndexMatches(a, b string) bool {
	va, vb := IndexValue(a), IndexValue(b)
	diff := va - vb
	if diff < 0 {
		diff = -diff
	}
	return diff <= IndexTolerance
}
