package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Setting keys.
const (
	SettingRefreshInterval = "refresh_interval"
	SettingCashAssetID     = "cash_asset_id"
	SettingAIKey           = "ai_key"
	SettingAIModel         = "ai_model"
	SettingLastRefresh     = "last_refresh"
)

// SettingRepository provides key/value access to the setting table.
type SettingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// WithTx returns a new SettingRepository scoped to the provided transaction.
func (r *SettingRepository) WithTx(tx *sql.Tx) *SettingRepository {
	return &SettingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SettingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetSettings returns every stored setting.
func (r *SettingRepository) GetSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT "key", value FROM setting`)
	if err != nil {
		return nil, fmt.Errorf("failed to query setting table: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting table results: %w", err)
		}
		settings[key] = value
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating setting table: %w", err)
	}

	return settings, nil
}

// SetSetting stores value under key, replacing any previous value.
func (r *SettingRepository) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO setting ("key", value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.getQuerier().ExecContext(ctx, query, key, value, formatTimestamp(time.Now())); err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes key. Missing keys are not an error.
func (r *SettingRepository) DeleteSetting(ctx context.Context, key string) error {
	if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM setting WHERE "key" = ?`, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
