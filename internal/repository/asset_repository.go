package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
)

// AssetRepository provides data access methods for the asset table.
type AssetRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// WithTx returns a new AssetRepository scoped to the provided transaction.
func (r *AssetRepository) WithTx(tx *sql.Tx) *AssetRepository {
	return &AssetRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *AssetRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const assetColumns = `id, symbol, type, name, maturity_date, interest_rate, created_at`

func scanAsset(row interface{ Scan(dest ...any) error }) (model.Asset, error) {
	var a model.Asset
	var maturity sql.NullString
	var rate sql.NullFloat64
	var createdAtStr string

	if err := row.Scan(&a.ID, &a.Symbol, &a.Type, &a.Name, &maturity, &rate, &createdAtStr); err != nil {
		return model.Asset{}, err
	}

	var err error
	if a.MaturityDate, err = parseNullTime(maturity); err != nil {
		return model.Asset{}, err
	}
	a.InterestRate = nullFloat(rate)
	if a.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Asset{}, err
	}
	return a, nil
}

// GetAssets retrieves all assets ordered by type then symbol.
// Returns an empty slice if there are none.
func (r *AssetRepository) GetAssets(ctx context.Context) ([]model.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM asset ORDER BY type, symbol, created_at`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset table: %w", err)
	}
	defer rows.Close()

	assets := []model.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset table results: %w", err)
		}
		assets = append(assets, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset table: %w", err)
	}

	return assets, nil
}

// GetAsset retrieves a single asset by id.
func (r *AssetRepository) GetAsset(ctx context.Context, id string) (model.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM asset WHERE id = ?`

	a, err := scanAsset(r.getQuerier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to query asset: %w", err)
	}
	return a, nil
}

// GetOldestCashAsset returns the first cash asset created, or ErrNoCashAsset.
func (r *AssetRepository) GetOldestCashAsset(ctx context.Context) (model.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM asset WHERE type = ? ORDER BY created_at, id LIMIT 1`

	a, err := scanAsset(r.getQuerier().QueryRowContext(ctx, query, model.AssetTypeCash))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, apperrors.ErrNoCashAsset
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to query cash asset: %w", err)
	}
	return a, nil
}

// InsertAsset stores a new asset. A symbol may exist once per asset type.
func (r *AssetRepository) InsertAsset(ctx context.Context, a *model.Asset) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO asset (id, symbol, type, name, maturity_date, interest_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		a.ID,
		a.Symbol,
		a.Type,
		a.Name,
		nullableDate(a.MaturityDate),
		a.InterestRate,
		formatTimestamp(a.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: asset %s (%s)", apperrors.ErrDuplicateEntry, a.Symbol, a.Type)
		}
		return fmt.Errorf("failed to insert asset: %w", err)
	}

	return nil
}

// UpdateAsset overwrites the editable fields of an asset.
func (r *AssetRepository) UpdateAsset(ctx context.Context, a *model.Asset) error {
	query := `
		UPDATE asset
		SET symbol = ?, type = ?, name = ?, maturity_date = ?, interest_rate = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		a.Symbol,
		a.Type,
		a.Name,
		nullableDate(a.MaturityDate),
		a.InterestRate,
		a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: asset %s (%s)", apperrors.ErrDuplicateEntry, a.Symbol, a.Type)
		}
		return fmt.Errorf("failed to update asset: %w", err)
	}

	return checkAffected(result, apperrors.ErrAssetNotFound)
}

// DeleteAsset removes an asset. Its postings and plans are removed by foreign key cascade.
func (r *AssetRepository) DeleteAsset(ctx context.Context, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM asset WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	return checkAffected(result, apperrors.ErrAssetNotFound)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
