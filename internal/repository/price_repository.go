package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
)

// PriceRepository provides access to the price_cache table, which keeps one quote per symbol.
type PriceRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// WithTx returns a new PriceRepository scoped to the provided transaction.
func (r *PriceRepository) WithTx(tx *sql.Tx) *PriceRepository {
	return &PriceRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PriceRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func scanQuote(row interface{ Scan(dest ...any) error }) (model.PriceQuote, error) {
	var q model.PriceQuote
	var updatedAtStr string
	if err := row.Scan(&q.Symbol, &q.Price, &q.PreviousClose, &q.Currency, &updatedAtStr); err != nil {
		return model.PriceQuote{}, err
	}
	var err error
	if q.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.PriceQuote{}, err
	}
	return q, nil
}

// UpsertPrice replaces the cached quote for a symbol.
func (r *PriceRepository) UpsertPrice(ctx context.Context, q model.PriceQuote) error {
	query := `
		INSERT INTO price_cache (symbol, price, previous_close, currency, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			price = excluded.price,
			previous_close = excluded.previous_close,
			currency = excluded.currency,
			updated_at = excluded.updated_at
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		q.Symbol,
		q.Price,
		q.PreviousClose,
		q.Currency,
		formatTimestamp(q.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert price: %w", err)
	}
	return nil
}

// GetPrice returns the cached quote for a symbol.
func (r *PriceRepository) GetPrice(ctx context.Context, symbol string) (model.PriceQuote, error) {
	query := `SELECT symbol, price, previous_close, currency, updated_at FROM price_cache WHERE symbol = ?`

	q, err := scanQuote(r.getQuerier().QueryRowContext(ctx, query, symbol))
	if errors.Is(err, sql.ErrNoRows) {
		return model.PriceQuote{}, apperrors.ErrPriceNotFound
	}
	if err != nil {
		return model.PriceQuote{}, fmt.Errorf("failed to query price cache: %w", err)
	}
	return q, nil
}

// GetPrices returns all cached quotes keyed by symbol.
func (r *PriceRepository) GetPrices(ctx context.Context) (map[string]model.PriceQuote, error) {
	rows, err := r.getQuerier().QueryContext(ctx,
		`SELECT symbol, price, previous_close, currency, updated_at FROM price_cache`)
	if err != nil {
		return nil, fmt.Errorf("failed to query price cache: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]model.PriceQuote)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price cache results: %w", err)
		}
		prices[q.Symbol] = q
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price cache: %w", err)
	}

	return prices, nil
}

// DeletePrice drops the cached quote for a symbol. Missing rows are not an error.
func (r *PriceRepository) DeletePrice(ctx context.Context, symbol string) error {
	if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM price_cache WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("failed to delete price: %w", err)
	}
	return nil
}
