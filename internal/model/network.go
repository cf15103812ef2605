package model

import "fmt"

// Network identifies a third-party reimbursement network, or the open
// market when no network applies.
type Network string

const (
	// NetworkNone is the open-market sentinel: shop pricing rules apply.
	NetworkNone Network = "HORS_RESEAU"
	// NetworkKalixia is the Kalixia care network.
	NetworkKalixia Network = "KALIXIA"
	// NetworkSanteclair is the Santéclair care network.
	NetworkSanteclair Network = "SANTECLAIR"
	// NetworkCarteBlanche is the Carte Blanche care network.
	NetworkCarteBlanche Network = "CARTEBLANCHE"
	// NetworkItelis is the Itelis care network.
	NetworkItelis Network = "ITELIS"
	// NetworkSeveane is the Sévéane care network.
	NetworkSeveane Network = "SEVEANE"
)

// Networks lists every known network, open market first.
var Networks = []Network{
	NetworkNone,
	NetworkKalixia,
	NetworkSanteclair,
	NetworkCarteBlanche,
	NetworkItelis,
	NetworkSeveane,
}

// ParseNetwork validates a network identifier.
func ParseNetwork(s string) (Network, error) {
	for _, n := range Networks {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown network %q", s)
}

// IsOpenMarket reports whether shop pricing rules apply instead of
// network-negotiated prices.
func (n Network) IsOpenMarket() bool {
	return n == NetworkNone || n == ""
}

// precalAddOns is the fixed per-network surcharge for the precalibration
// option. Unlisted networks (and the open market, which uses the shop
// configuration instead) fall back to 0.
var precalAddOns = map[Network]float64{
	NetworkKalixia:      30,
	NetworkSanteclair:   25,
	NetworkCarteBlanche: 30,
	NetworkItelis:       25,
	NetworkSeveane:      20,
}

// PrecalAddOn returns the precalibration surcharge charged on a partner
// network, 0 for unlisted networks.
func (n Network) PrecalAddOn() float64 {
	return precalAddOns[n]
}

// refundBases is the estimated social-security/mutual reimbursement base
// per geometry, used by the out-of-pocket price optimization.
var refundBases = map[GeometryType]float64{
	GeometryUnifocal:    60,
	GeometryProgressive: 200,
	GeometryDegressive:  120,
	GeometryInterior:    120,
}

// RefundBase returns the reimbursement base for a geometry, 0 when unknown.
func RefundBase(t GeometryType) float64 {
	return refundBases[t]
}
