package model

import "fmt"

// Criteria captures one prescription/selection request against the
// catalog. Zero values mean "no filter" for the string fields.
type Criteria struct {
	Network Network
	Brand   string
	Type    GeometryType
	Index   string
	Design  string
	Coating string

	// Photochromic is mandatory-exclusive: a request always wants either
	// photochromic or non-photochromic lenses, never both.
	Photochromic  bool
	MyopiaControl bool
	Precal        bool
}

// Validate checks that the criteria reference known enumeration values.
func (c *Criteria) Validate() error {
	if c.Network != "" {
		if _, err := ParseNetwork(string(c.Network)); err != nil {
			return err
		}
	}
	if c.Brand != "" {
		found := false
		for _, b := range Brands {
			if b == c.Brand {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown brand %q", c.Brand)
		}
	}
	return nil
}
