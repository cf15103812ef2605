// Package importer converts external catalog sources (CSV exports,
// Google Sheets tabs) into catalog items. Both sources share the same
// header mapping and field normalization.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/podium-optique/podium/internal/model"
)

// ColumnMap locates the catalog fields in a source row. A value of -1
// means the column is absent.
type ColumnMap struct {
	Code         int
	Name         int
	Brand        int
	Geometry     int
	Index        int
	Design       int
	Coating      int
	Flow         int
	Purchase     int
	Bonifie      int
	SuperBonifie int

	// Networks maps a network to its negotiated-price column.
	Networks map[model.Network]int
}

// headerAliases maps canonical fields to the header spellings seen in
// supplier exports.
var headerAliases = map[string][]string{
	"code":          {"CODE", "REF", "REFERENCE"},
	"name":          {"LIBELLE", "NOM", "DESIGNATION"},
	"brand":         {"MARQUE", "FOURNISSEUR"},
	"geometry":      {"GEOMETRIE", "TYPE"},
	"index":         {"INDICE", "INDEX"},
	"design":        {"DESIGN", "MODELE"},
	"coating":       {"TRAITEMENT", "COATING"},
	"flow":          {"FLUX", "FLOW"},
	"purchase":      {"PRIX ACHAT", "PA", "ACHAT"},
	"bonifie":       {"PA BONIFIE", "PRIX BONIFIE", "BONIFIE"},
	"super_bonifie": {"PA SUPER BONIFIE", "PRIX SUPER BONIFIE", "SUPER BONIFIE"},
}

// accentReplacer folds the accented characters that appear in French
// supplier headers.
var accentReplacer = strings.NewReplacer(
	"É", "E", "È", "E", "Ê", "E", "Ë", "E",
	"À", "A", "Â", "A",
	"Î", "I", "Ï", "I",
	"Ô", "O",
	"Û", "U", "Ù", "U", "Ü", "U",
	"Ç", "C",
)

// canonicalHeader uppercases a header cell and folds accents and
// separator characters.
func canonicalHeader(s string) string {
	s = accentReplacer.Replace(strings.ToUpper(strings.TrimSpace(s)))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// MapHeader resolves a header row into a column map. The code, name and
// brand columns are required.
func MapHeader(header []string) (ColumnMap, error) {
	cols := ColumnMap{
		Code: -1, Name: -1, Brand: -1, Geometry: -1, Index: -1,
		Design: -1, Coating: -1, Flow: -1, Purchase: -1,
		Bonifie: -1, SuperBonifie: -1,
		Networks: make(map[model.Network]int),
	}

	assign := func(field string, i int) {
		switch field {
		case "code":
			cols.Code = i
		case "name":
			cols.Name = i
		case "brand":
			cols.Brand = i
		case "geometry":
			cols.Geometry = i
		case "index":
			cols.Index = i
		case "design":
			cols.Design = i
		case "coating":
			cols.Coating = i
		case "flow":
			cols.Flow = i
		case "purchase":
			cols.Purchase = i
		case "bonifie":
			cols.Bonifie = i
		case "super_bonifie":
			cols.SuperBonifie = i
		}
	}

	for i, cell := range header {
		name := canonicalHeader(cell)
		if name == "" {
			continue
		}

		if network, err := model.ParseNetwork(name); err == nil && !network.IsOpenMarket() {
			cols.Networks[network] = i
			continue
		}

		for field, aliases := range headerAliases {
			for _, alias := range aliases {
				if name == alias {
					assign(field, i)
				}
			}
		}
	}

	if cols.Code < 0 || cols.Name < 0 || cols.Brand < 0 {
		return cols, fmt.Errorf("header is missing required columns (code, name, brand): %v", header)
	}
	return cols, nil
}

// ParseRecord converts one data row into a catalog item.
func ParseRecord(cols ColumnMap, record []string) (model.CatalogItem, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	item := model.CatalogItem{
		Code:                      cell(cols.Code),
		Name:                      strings.ToUpper(cell(cols.Name)),
		Brand:                     strings.ToUpper(cell(cols.Brand)),
		Index:                     model.NormalizeIndex(cell(cols.Index)),
		Design:                    strings.ToUpper(cell(cols.Design)),
		Coating:                   strings.ToUpper(cell(cols.Coating)),
		Type:                      NormalizeGeometry(cell(cols.Geometry)),
		Flow:                      normalizeFlow(cell(cols.Flow)),
		PurchasePrice:             CleanPrice(cell(cols.Purchase)),
		PurchasePriceBonifie:      CleanPrice(cell(cols.Bonifie)),
		PurchasePriceSuperBonifie: CleanPrice(cell(cols.SuperBonifie)),
	}

	for network, i := range cols.Networks {
		price := CleanPrice(cell(i))
		if price <= 0 {
			continue
		}
		if item.NetworkPrices == nil {
			item.NetworkPrices = make(map[model.Network]float64)
		}
		item.NetworkPrices[network] = price
	}

	if item.Code == "" {
		return item, fmt.Errorf("row has no catalog code: %v", record)
	}
	if item.Name == "" {
		return item, fmt.Errorf("row %s has no name", item.Code)
	}
	return item, nil
}

// NormalizeGeometry maps the free-form geometry cell of an export onto
// the canonical lens types.
func NormalizeGeometry(s string) model.GeometryType {
	v := canonicalHeader(s)
	switch {
	case strings.Contains(v, "PROG"):
		return model.GeometryProgressive
	case strings.Contains(v, "DEG"):
		return model.GeometryDegressive
	case strings.Contains(v, "INT"):
		return model.GeometryInterior
	case strings.Contains(v, "MULTI"), strings.Contains(v, "BIF"):
		return model.GeometryMultifocal
	case strings.Contains(v, "UNI"), strings.Contains(v, "MONO"):
		return model.GeometryUnifocal
	default:
		return model.GeometryType(v)
	}
}

func normalizeFlow(s string) model.CommercialFlow {
	v := canonicalHeader(s)
	switch {
	case v == "":
		return ""
	case strings.HasPrefix(v, "STOCK"), v == "STK":
		return model.FlowStock
	case strings.HasPrefix(v, "FAB"):
		return model.FlowFabrication
	default:
		return model.CommercialFlow(v)
	}
}

// CleanPrice parses a price cell: currency symbols and spaces are
// stripped, decimal commas accepted. Unparseable cells price at 0.
func CleanPrice(s string) float64 {
	s = strings.NewReplacer("€", "", " ", "", " ", "").Replace(s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
