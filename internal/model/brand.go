package model

// Lens brands carried by the shop. ORUS is a commercial label that sells
// from the CODIR catalog; CatalogBrand resolves the alias.
const (
	BrandHoya  = "HOYA"
	BrandZeiss = "ZEISS"
	BrandSeiko = "SEIKO"
	BrandCodir = "CODIR"
	BrandOrus  = "ORUS"
)

// Brands lists every selectable brand.
var Brands = []string{BrandHoya, BrandZeiss, BrandSeiko, BrandCodir, BrandOrus}

// DiscountBrand is the brand whose rebated purchase prices drive the
// supplementary-pair alternative search.
const DiscountBrand = BrandCodir

// CatalogBrand maps a commercial brand to the catalog brand its items are
// stored under.
func CatalogBrand(brand string) string {
	if brand == BrandOrus {
		return BrandCodir
	}
	return brand
}
