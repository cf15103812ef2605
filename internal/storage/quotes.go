package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/model"
)

// SaveQuote persists a quote with its primary and supplementary lines
// and returns its row id. Offer snapshots are copied into the lines so
// a later catalog import cannot change a saved quote.
func (s *SQLiteStorage) SaveQuote(ctx context.Context, quote *model.Quote) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateQuote(quote); err != nil {
		return 0, err
	}

	createdAt := quote.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO quotes (client, reimbursement, created_at) VALUES (?, ?, ?)",
		quote.Client, quote.Reimbursement, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert quote: %w", err)
	}
	quoteID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read quote id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quote_lines (quote_id, position, kind, label, code, name,
			brand, lens_type, refractive_index, design, coating,
			purchase_price, selling_price, margin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare quote line insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	insertLine := func(position int, kind, label string, offer model.PricedOffer) error {
		_, execErr := stmt.ExecContext(ctx,
			quoteID, position, kind, label,
			offer.Code, offer.Name, offer.Brand,
			string(offer.Type), offer.Index, offer.Design, offer.Coating,
			offer.PurchasePrice, offer.SellingPrice, offer.Margin)
		return execErr
	}

	if err := insertLine(0, "PRIMARY", "", quote.Primary); err != nil {
		return 0, fmt.Errorf("failed to insert primary line: %w", err)
	}
	for i, pair := range quote.Supplementary {
		if err := insertLine(i+1, string(pair.Kind), pair.Label, pair.Offer); err != nil {
			return 0, fmt.Errorf("failed to insert supplementary line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit quote: %w", err)
	}
	return quoteID, nil
}

// GetQuote retrieves a saved quote by id.
func (s *SQLiteStorage) GetQuote(ctx context.Context, id int64) (*model.Quote, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	quote := &model.Quote{ID: id}
	err := s.db.QueryRowContext(ctx,
		"SELECT client, reimbursement, created_at FROM quotes WHERE id = ?", id).
		Scan(&quote.Client, &quote.Reimbursement, &quote.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query quote: %w", err)
	}

	if err := s.loadQuoteLines(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// GetQuotesByClient retrieves every quote saved for a client, most
// recent first.
func (s *SQLiteStorage) GetQuotesByClient(ctx context.Context, client string) ([]model.Quote, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(client, "client"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, client, reimbursement, created_at FROM quotes WHERE client = ? ORDER BY created_at DESC, id DESC",
		client)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var quotes []model.Quote
	for rows.Next() {
		var quote model.Quote
		if err := rows.Scan(&quote.ID, &quote.Client, &quote.Reimbursement, &quote.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote rows: %w", err)
	}

	for i := range quotes {
		if err := s.loadQuoteLines(ctx, &quotes[i]); err != nil {
			return nil, err
		}
	}
	return quotes, nil
}

func (s *SQLiteStorage) loadQuoteLines(ctx context.Context, quote *model.Quote) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, label, code, name, brand, lens_type, refractive_index,
			design, coating, purchase_price, selling_price, margin
		FROM quote_lines WHERE quote_id = ? ORDER BY position`, quote.ID)
	if err != nil {
		return fmt.Errorf("failed to query quote lines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var kind, lensType string
		var label, index, design, coating sql.NullString
		var offer model.PricedOffer

		err := rows.Scan(&kind, &label,
			&offer.Code, &offer.Name, &offer.Brand,
			&lensType, &index, &design, &coating,
			&offer.PurchasePrice, &offer.SellingPrice, &offer.Margin)
		if err != nil {
			return fmt.Errorf("failed to scan quote line: %w", err)
		}

		offer.Type = model.GeometryType(lensType)
		offer.Index = index.String
		offer.Design = design.String
		offer.Coating = coating.String

		if kind == "PRIMARY" {
			quote.Primary = offer
			continue
		}
		quote.Supplementary = append(quote.Supplementary, model.SupplementaryPair{
			Label: label.String,
			Kind:  model.PairKind(kind),
			Offer: offer,
		})
	}
	return rows.Err()
}
