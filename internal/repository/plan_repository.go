package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
)

// PlanRepository provides data access methods for the investment_plan table.
type PlanRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPlanRepository creates a new PlanRepository with the provided database connection.
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// WithTx returns a new PlanRepository scoped to the provided transaction.
func (r *PlanRepository) WithTx(tx *sql.Tx) *PlanRepository {
	return &PlanRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PlanRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const planColumns = `id, asset_id, total_amount, number_of_purchases, amount_per_purchase, cadence,
	custom_days, start_date, completed_purchases, status, note, created_at`

func scanPlan(row interface{ Scan(dest ...any) error }) (model.Plan, error) {
	var p model.Plan
	var startStr, createdAtStr string

	err := row.Scan(
		&p.ID,
		&p.AssetID,
		&p.TotalAmount,
		&p.NumberOfPurchases,
		&p.AmountPerPurchase,
		&p.Cadence,
		&p.CustomDays,
		&startStr,
		&p.CompletedPurchases,
		&p.Status,
		&p.Note,
		&createdAtStr,
	)
	if err != nil {
		return model.Plan{}, err
	}

	if p.StartDate, err = ParseTime(startStr); err != nil {
		return model.Plan{}, err
	}
	if p.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Plan{}, err
	}
	return p, nil
}

// GetPlans lists plans, optionally limited to one asset. Returns an empty slice if none exist.
func (r *PlanRepository) GetPlans(ctx context.Context, assetID string) ([]model.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM investment_plan`
	var args []any
	if assetID != "" {
		query += ` WHERE asset_id = ?`
		args = append(args, assetID)
	}
	query += ` ORDER BY start_date, created_at`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment_plan table: %w", err)
	}
	defer rows.Close()

	plans := []model.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment_plan table results: %w", err)
		}
		plans = append(plans, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment_plan table: %w", err)
	}

	return plans, nil
}

// GetPlan retrieves a single plan by id.
func (r *PlanRepository) GetPlan(ctx context.Context, id string) (model.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM investment_plan WHERE id = ?`

	p, err := scanPlan(r.getQuerier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Plan{}, apperrors.ErrPlanNotFound
	}
	if err != nil {
		return model.Plan{}, fmt.Errorf("failed to query investment plan: %w", err)
	}
	return p, nil
}

// InsertPlan stores a new plan.
func (r *PlanRepository) InsertPlan(ctx context.Context, p *model.Plan) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO investment_plan (
			id, asset_id, total_amount, number_of_purchases, amount_per_purchase, cadence,
			custom_days, start_date, completed_purchases, status, note, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.AssetID,
		p.TotalAmount,
		p.NumberOfPurchases,
		p.AmountPerPurchase,
		p.Cadence,
		p.CustomDays,
		formatDate(p.StartDate),
		p.CompletedPurchases,
		p.Status,
		p.Note,
		formatTimestamp(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert investment plan: %w", err)
	}

	return nil
}

// UpdatePlan overwrites every mutable field of a plan.
func (r *PlanRepository) UpdatePlan(ctx context.Context, p *model.Plan) error {
	query := `
		UPDATE investment_plan
		SET total_amount = ?, number_of_purchases = ?, amount_per_purchase = ?, cadence = ?,
			custom_days = ?, start_date = ?, completed_purchases = ?, status = ?, note = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		p.TotalAmount,
		p.NumberOfPurchases,
		p.AmountPerPurchase,
		p.Cadence,
		p.CustomDays,
		formatDate(p.StartDate),
		p.CompletedPurchases,
		p.Status,
		p.Note,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update investment plan: %w", err)
	}

	return checkAffected(result, apperrors.ErrPlanNotFound)
}

// DeletePlan removes a plan. Postings made for it keep existing with their plan link cleared.
func (r *PlanRepository) DeletePlan(ctx context.Context, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM investment_plan WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete investment plan: %w", err)
	}

	return checkAffected(result, apperrors.ErrPlanNotFound)
}
