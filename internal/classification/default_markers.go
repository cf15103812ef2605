package classification

// DefaultMarkers returns the default vendor naming markers. The lists
// are heuristic: supplier catalogs encode lens attributes in free-form
// commercial names, so matching is substring-based and case-insensitive.
// They cover the brands the shop carries (CODIR/ORUS, HOYA, SEIKO,
// ZEISS) and should be extended as new supplier ranges appear.
func DefaultMarkers() Markers {
	return Markers{
		// Photochromic lens families.
		Photochromic: []string{
			"TRANSITION", // Transitions, Transitions XTRActive
			"XTRACTIV",
			"GEN 8",
			"GEN S",
			"SENSITY",     // HOYA
			"SENSE8",      // SEIKO
			"PHOTOFUSION", // ZEISS
			"PHOTOCHROM",
			"SOLACTIVE", // CODIR
		},

		// Hard multi-coat / antireflective coating families.
		HMC: []string{
			"HMC",
			"MISTRAL",
			"QUATTRO",
			"SRC",
			"HVLL",
			"DV ",
		},

		// Blue-light protective coatings.
		BlueProtect: []string{
			"BLUE",
			"B-PROTECT",
			"E-PROTECT",
			"BC",
			"SCREEN",
		},

		// Myopia-control designs (MiYOSMART family).
		MyopiaControl: []string{
			"MIYO",
		},

		// Name markers for stock-flow lenses when the flow tag is absent.
		Stock: []string{
			"STOCK",
			"STK",
		},
	}
}
