package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/importer"
	"github.com/podium-optique/podium/internal/model"
	"github.com/podium-optique/podium/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Reader fetches the lens catalog from a Google Sheets spreadsheet. It
// implements service.CatalogSource, so the engine can run straight off
// the sheet without a local import.
type Reader struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewReader creates a new Google Sheets catalog reader.
func NewReader(ctx context.Context, config Config, logger *slog.Logger) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Reader{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// FetchCatalog reads and parses the configured sheet range. The coarse
// filter is applied locally after parsing.
func (r *Reader) FetchCatalog(ctx context.Context, filter service.CatalogFilter) ([]model.CatalogItem, error) {
	retryOpts := service.RetryOptions{
		MaxAttempts:  r.config.RetryAttempts,
		InitialDelay: r.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var resp *sheets.ValueRange
	err := common.WithRetry(ctx, func() error {
		var callErr error
		resp, callErr = r.service.Spreadsheets.Values.
			Get(r.config.SpreadsheetID, r.config.ReadRange).
			Context(ctx).Do()
		return callErr
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCatalogUnavailable, err)
	}

	items, skipped, err := parseRows(resp.Values)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		r.logger.Warn("Skipped unparseable catalog rows", "skipped", skipped)
	}

	r.logger.Info("Fetched catalog from sheet",
		"spreadsheet_id", r.config.SpreadsheetID,
		"items", len(items))

	return applyFilter(items, filter), nil
}

// parseRows converts raw sheet values via the shared importer mapping.
// The first row is the header.
func parseRows(values [][]any) ([]model.CatalogItem, int, error) {
	if len(values) < 2 {
		return nil, 0, fmt.Errorf("%w: sheet has no data rows", common.ErrEmptyCatalog)
	}

	cols, err := importer.MapHeader(stringCells(values[0]))
	if err != nil {
		return nil, 0, err
	}

	var items []model.CatalogItem
	skipped := 0
	for _, row := range values[1:] {
		record := stringCells(row)
		if len(record) == 0 {
			continue
		}

		item, parseErr := importer.ParseRecord(cols, record)
		if parseErr != nil {
			skipped++
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, skipped, fmt.Errorf("%w: no valid rows in sheet", common.ErrEmptyCatalog)
	}
	return items, skipped, nil
}

func stringCells(row []any) []string {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = fmt.Sprint(v)
	}
	return cells
}

func applyFilter(items []model.CatalogItem, filter service.CatalogFilter) []model.CatalogItem {
	if filter.Brand == "" && filter.Type == "" && filter.Limit <= 0 {
		return items
	}

	out := make([]model.CatalogItem, 0, len(items))
	for _, item := range items {
		if filter.Brand != "" && item.Brand != filter.Brand {
			continue
		}
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		out = append(out, item)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}

// createSheetsService creates a Google Sheets API service with read-only
// access to the catalog spreadsheet.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsReadonlyScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}
