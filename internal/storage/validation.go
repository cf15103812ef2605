package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidLens    = errors.New("invalid catalog item")
	ErrInvalidQuote   = errors.New("invalid quote")
	ErrInvalidID      = errors.New("id must be positive")
	ErrInvalidNetwork = errors.New("invalid network")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a row identifier is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validateCatalogItems validates a slice of catalog items before writing.
func validateCatalogItems(items []model.CatalogItem) error {
	if items == nil {
		return fmt.Errorf("%w: items", ErrNilParameter)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: items", ErrEmptySlice)
	}

	seen := make(map[string]int, len(items))
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: item at index %d: %v", ErrInvalidLens, i, err)
		}
		// The code is the upsert key; items without one cannot be stored.
		code := strings.ToUpper(strings.TrimSpace(item.Code))
		if code == "" {
			return fmt.Errorf("%w: item at index %d: code is required", ErrInvalidLens, i)
		}
		if first, ok := seen[code]; ok {
			return fmt.Errorf("%w: code %q at indexes %d and %d", common.ErrDuplicateEntry, code, first, i)
		}
		seen[code] = i
		for network := range item.NetworkPrices {
			if _, err := model.ParseNetwork(string(network)); err != nil {
				return fmt.Errorf("%w: item at index %d: %v", ErrInvalidNetwork, i, err)
			}
		}
	}
	return nil
}

// validateQuote validates a quote before persisting.
func validateQuote(quote *model.Quote) error {
	if quote == nil {
		return fmt.Errorf("%w: quote", ErrNilParameter)
	}
	if err := quote.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}
	if quote.Primary.Code == "" {
		return fmt.Errorf("%w: primary offer has no catalog code", ErrInvalidQuote)
	}
	return nil
}
