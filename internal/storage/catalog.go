package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/model"
	"github.com/podium-optique/podium/internal/service"
)

const lensColumns = `id, code, name, brand, lens_type, refractive_index,
	design, coating, flow, purchase_price, purchase_price_bonifie,
	purchase_price_super_bonifie`

// FetchCatalog returns the stored catalog snapshot, optionally narrowed
// by the coarse source filter. Negotiated network prices are attached to
// every returned item.
func (s *SQLiteStorage) FetchCatalog(ctx context.Context, filter service.CatalogFilter) ([]model.CatalogItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := "SELECT " + lensColumns + " FROM lenses"
	var conditions []string
	var args []any

	if filter.Brand != "" {
		conditions = append(conditions, "brand = ?")
		args = append(args, strings.ToUpper(filter.Brand))
	}
	if filter.Type != "" {
		conditions = append(conditions, "lens_type = ?")
		args = append(args, string(filter.Type))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.CatalogItem
	for rows.Next() {
		item, scanErr := scanLens(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog rows: %w", err)
	}

	if err := s.attachNetworkPrices(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetCatalogItem retrieves a single lens by row id.
func (s *SQLiteStorage) GetCatalogItem(ctx context.Context, id int64) (*model.CatalogItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+lensColumns+" FROM lenses WHERE id = ?", id)
	item, err := scanLens(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items := []model.CatalogItem{item}
	if err := s.attachNetworkPrices(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// GetCatalogCount returns the number of stored lenses.
func (s *SQLiteStorage) GetCatalogCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lenses").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count catalog: %w", err)
	}
	return count, nil
}

// GetBrands returns the distinct brands present in the catalog.
func (s *SQLiteStorage) GetBrands(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT brand FROM lenses ORDER BY brand")
	if err != nil {
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var brands []string
	for rows.Next() {
		var brand string
		if err := rows.Scan(&brand); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, brand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate brand rows: %w", err)
	}
	return brands, nil
}

// ReplaceCatalog atomically swaps the stored catalog for a new snapshot.
func (s *SQLiteStorage) ReplaceCatalog(ctx context.Context, items []model.CatalogItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCatalogItems(items); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM network_prices"); err != nil {
		return fmt.Errorf("failed to clear network prices: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM lenses"); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	if err := insertLenses(ctx, tx, items); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveCatalogItems upserts lenses by catalog code, keeping rows not
// present in the batch.
func (s *SQLiteStorage) SaveCatalogItems(ctx context.Context, items []model.CatalogItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCatalogItems(items); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertLenses(ctx, tx, items); err != nil {
		return err
	}
	return tx.Commit()
}

func insertLenses(ctx context.Context, tx *sql.Tx, items []model.CatalogItem) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lenses (code, name, brand, lens_type, refractive_index,
			design, coating, flow, purchase_price, purchase_price_bonifie,
			purchase_price_super_bonifie)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			brand = excluded.brand,
			lens_type = excluded.lens_type,
			refractive_index = excluded.refractive_index,
			design = excluded.design,
			coating = excluded.coating,
			flow = excluded.flow,
			purchase_price = excluded.purchase_price,
			purchase_price_bonifie = excluded.purchase_price_bonifie,
			purchase_price_super_bonifie = excluded.purchase_price_super_bonifie`)
	if err != nil {
		return fmt.Errorf("failed to prepare lens insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	priceStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO network_prices (lens_id, network, price)
		VALUES ((SELECT id FROM lenses WHERE code = ?), ?, ?)
		ON CONFLICT(lens_id, network) DO UPDATE SET price = excluded.price`)
	if err != nil {
		return fmt.Errorf("failed to prepare network price insert: %w", err)
	}
	defer func() { _ = priceStmt.Close() }()

	for _, item := range items {
		_, err := stmt.ExecContext(ctx,
			strings.TrimSpace(item.Code),
			item.Name,
			strings.ToUpper(item.Brand),
			string(item.Type),
			model.NormalizeIndex(item.Index),
			item.Design,
			item.Coating,
			string(item.Flow),
			item.PurchasePrice,
			item.PurchasePriceBonifie,
			item.PurchasePriceSuperBonifie,
		)
		if err != nil {
			return fmt.Errorf("failed to insert lens %s: %w", item.Code, err)
		}

		for network, price := range item.NetworkPrices {
			if price <= 0 {
				continue
			}
			if _, err := priceStmt.ExecContext(ctx, strings.TrimSpace(item.Code), string(network), price); err != nil {
				return fmt.Errorf("failed to insert network price for %s: %w", item.Code, err)
			}
		}
	}
	return nil
}

// attachNetworkPrices loads the negotiated prices for the given items.
func (s *SQLiteStorage) attachNetworkPrices(ctx context.Context, items []model.CatalogItem) error {
	if len(items) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT lens_id, network, price FROM network_prices")
	if err != nil {
		return fmt.Errorf("failed to query network prices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	prices := make(map[int64]map[model.Network]float64)
	for rows.Next() {
		var lensID int64
		var network string
		var price float64
		if err := rows.Scan(&lensID, &network, &price); err != nil {
			return fmt.Errorf("failed to scan network price: %w", err)
		}
		if prices[lensID] == nil {
			prices[lensID] = make(map[model.Network]float64)
		}
		prices[lensID][model.Network(network)] = price
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate network price rows: %w", err)
	}

	for i := range items {
		if p, ok := prices[items[i].ID]; ok {
			items[i].NetworkPrices = p
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLens(row rowScanner) (model.CatalogItem, error) {
	var item model.CatalogItem
	var lensType, flow string
	var design, coating sql.NullString

	err := row.Scan(
		&item.ID,
		&item.Code,
		&item.Name,
		&item.Brand,
		&lensType,
		&item.Index,
		&design,
		&coating,
		&flow,
		&item.PurchasePrice,
		&item.PurchasePriceBonifie,
		&item.PurchasePriceSuperBonifie,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return item, err
	}
	if err != nil {
		return item, fmt.Errorf("failed to scan lens: %w", err)
	}

	item.Type = model.GeometryType(lensType)
	item.Flow = model.CommercialFlow(flow)
	item.Design = design.String
	item.Coating = coating.String
	return item, nil
}
