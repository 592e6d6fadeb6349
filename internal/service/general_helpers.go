package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"
)

// RoundingPrecision rounds monetary values and share counts to two decimals.
const RoundingPrecision = 100.0

// round rounds a float64 value to two decimal places using the package RoundingPrecision constant.
//
//	round(123.456789)  // returns 123.46
//	round(0.005)       // returns 0.01
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// pct returns part/whole as a percentage, or 0 when whole is 0.
func pct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return round(part / whole * 100)
}

// parseDate parses a YYYY-MM-DD request date as UTC midnight.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// withTx runs fn inside a database transaction, committing when fn returns nil.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
