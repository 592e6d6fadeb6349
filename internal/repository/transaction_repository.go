package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/ledger"
	"github.com/ndewijer/folio/internal/model"
)

// TransactionRepository provides data access methods for the journal and transaction tables.
// A journal row is one logical transaction; each of its postings is a transaction row.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Postings are ordered by date; same-day postings by creation time, then by their
// position inside the journal, then by id.
const postingOrder = `t.date ASC, t.created_at ASC, t.seq ASC, t.id ASC`

const postingColumns = `t.id, t.asset_id, t.entry_id, t.kind, t.date, t.quantity, t.price_per_unit, t.amount, t.note, t.plan_id, t.linked_id, t.created_at`

func scanPosting(row interface{ Scan(dest ...any) error }, extra ...any) (model.Transaction, error) {
	var t model.Transaction
	var dateStr, createdAtStr string
	var planID, linkedID sql.NullString

	dest := []any{
		&t.ID,
		&t.AssetID,
		&t.EntryID,
		&t.Kind,
		&dateStr,
		&t.Quantity,
		&t.PricePerUnit,
		&t.Amount,
		&t.Note,
		&planID,
		&linkedID,
		&createdAtStr,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Transaction{}, err
	}

	var err error
	t.Date, err = ParseTime(dateStr)
	if err != nil || t.Date.IsZero() {
		return model.Transaction{}, fmt.Errorf("failed to parse date: %w", err)
	}
	t.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	t.PlanID = nullString(planID)
	t.LinkedID = nullString(linkedID)

	return t, nil
}

func (r *TransactionRepository) queryPostings(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	postings := []model.Transaction{}
	for rows.Next() {
		t, err := scanPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		postings = append(postings, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return postings, nil
}

// GetTransactionsByAsset returns every posting on one asset in ledger order.
func (r *TransactionRepository) GetTransactionsByAsset(ctx context.Context, assetID string) ([]model.Transaction, error) {
	query := `SELECT ` + postingColumns + ` FROM "transaction" t WHERE t.asset_id = ? ORDER BY ` + postingOrder
	return r.queryPostings(ctx, query, assetID)
}

// GetTransactionsGroupedByAsset returns every posting grouped by asset id, each group in ledger order.
func (r *TransactionRepository) GetTransactionsGroupedByAsset(ctx context.Context) (map[string][]model.Transaction, error) {
	query := `SELECT ` + postingColumns + ` FROM "transaction" t ORDER BY ` + postingOrder
	postings, err := r.queryPostings(ctx, query)
	if err != nil {
		return nil, err
	}

	byAsset := make(map[string][]model.Transaction)
	for _, t := range postings {
		byAsset[t.AssetID] = append(byAsset[t.AssetID], t)
	}
	return byAsset, nil
}

// GetTransactionsByPlan returns the postings made for a plan on the plan's asset.
func (r *TransactionRepository) GetTransactionsByPlan(ctx context.Context, planID string) ([]model.Transaction, error) {
	query := `
		SELECT ` + postingColumns + `
		FROM "transaction" t
		JOIN investment_plan p ON p.id = t.plan_id AND p.asset_id = t.asset_id
		WHERE t.plan_id = ?
		ORDER BY ` + postingOrder
	return r.queryPostings(ctx, query, planID)
}

// GetTransactionResponses lists postings matching filter joined with their asset, newest first.
func (r *TransactionRepository) GetTransactionResponses(ctx context.Context, filter model.TransactionFilter) ([]model.TransactionResponse, error) {
	query := `
		SELECT ` + postingColumns + `, a.symbol, a.name, a.type
		FROM "transaction" t
		JOIN asset a ON a.id = t.asset_id
		WHERE 1=1
	`
	var args []any
	if filter.AssetID != "" {
		query += ` AND t.asset_id = ?`
		args = append(args, filter.AssetID)
	}
	if len(filter.Kinds) > 0 {
		//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
		query += ` AND t.kind IN (` + placeholders(len(filter.Kinds)) + `)`
		for _, k := range filter.Kinds {
			args = append(args, k)
		}
	}
	if filter.From != nil {
		query += ` AND t.date >= ?`
		args = append(args, formatDate(*filter.From))
	}
	if filter.To != nil {
		query += ` AND t.date <= ?`
		args = append(args, formatDate(*filter.To))
	}
	query += ` ORDER BY t.date DESC, t.created_at DESC, t.seq DESC, t.id DESC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	responses := []model.TransactionResponse{}
	for rows.Next() {
		var tr model.TransactionResponse
		t, err := scanPosting(rows, &tr.Symbol, &tr.AssetName, &tr.AssetType)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		tr.Transaction = t
		tr.TotalAmount = t.TotalAmount()
		responses = append(responses, tr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return responses, nil
}

// GetTransaction retrieves a single posting by id.
func (r *TransactionRepository) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	query := `SELECT ` + postingColumns + ` FROM "transaction" t WHERE t.id = ?`

	t, err := scanPosting(r.getQuerier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to query transaction: %w", err)
	}
	return t, nil
}

// GetJournal loads a journal and its postings. The posting with seq 0 is the primary.
func (r *TransactionRepository) GetJournal(ctx context.Context, entryID string) (ledger.Journal, error) {
	var j ledger.Journal
	var dateStr string
	var planID sql.NullString

	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, date, note, plan_id FROM journal WHERE id = ?`, entryID,
	).Scan(&j.ID, &dateStr, &j.Note, &planID)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Journal{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return ledger.Journal{}, fmt.Errorf("failed to query journal: %w", err)
	}
	if j.Date, err = ParseTime(dateStr); err != nil {
		return ledger.Journal{}, err
	}
	j.PlanID = nullString(planID)

	postings, err := r.queryPostings(ctx,
		`SELECT `+postingColumns+` FROM "transaction" t WHERE t.entry_id = ? ORDER BY t.seq ASC`, entryID)
	if err != nil {
		return ledger.Journal{}, err
	}

	switch len(postings) {
	case 1:
		j.Primary = postings[0]
	case 2:
		j.Primary = postings[0]
		counter := postings[1]
		j.Counter = &counter
	default:
		return ledger.Journal{}, fmt.Errorf("%w: journal %s has %d postings", apperrors.ErrDataInconsistency, entryID, len(postings))
	}

	return j, nil
}

// InsertJournal stores a journal and its postings. Must run inside a transaction
// because the two postings reference each other.
func (r *TransactionRepository) InsertJournal(ctx context.Context, j ledger.Journal) error {
	now := formatTimestamp(time.Now())

	_, err := r.getQuerier().ExecContext(ctx,
		`INSERT INTO journal (id, date, note, plan_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		j.ID, formatDate(j.Date), j.Note, j.PlanID, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal: %w", err)
	}

	for seq, t := range j.Postings() {
		if err := r.insertPosting(ctx, t, seq, now); err != nil {
			return err
		}
	}

	return nil
}

func (r *TransactionRepository) insertPosting(ctx context.Context, t model.Transaction, seq int, createdAt string) error {
	query := `
		INSERT INTO "transaction"
			(id, asset_id, entry_id, kind, date, quantity, price_per_unit, amount, note, plan_id, linked_id, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.AssetID,
		t.EntryID,
		t.Kind,
		formatDate(t.Date),
		t.Quantity,
		t.PricePerUnit,
		t.Amount,
		t.Note,
		t.PlanID,
		t.LinkedID,
		seq,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// UpdateJournal rewrites a journal and its postings in place. Postings no longer
// part of the journal are removed; creation times are preserved.
func (r *TransactionRepository) UpdateJournal(ctx context.Context, j ledger.Journal) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE journal SET date = ?, note = ?, plan_id = ? WHERE id = ?`,
		formatDate(j.Date), j.Note, j.PlanID, j.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal: %w", err)
	}
	if err := checkAffected(result, apperrors.ErrTransactionNotFound); err != nil {
		return err
	}

	var createdAt string
	err = r.getQuerier().QueryRowContext(ctx,
		`SELECT created_at FROM journal WHERE id = ?`, j.ID,
	).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	if ts, err := ParseTime(createdAt); err == nil {
		createdAt = formatTimestamp(ts)
	}

	if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM "transaction" WHERE entry_id = ?`, j.ID); err != nil {
		return fmt.Errorf("failed to clear journal postings: %w", err)
	}

	for seq, t := range j.Postings() {
		if err := r.insertPosting(ctx, t, seq, createdAt); err != nil {
			return err
		}
	}

	return nil
}

// DeleteJournal removes a journal; its postings go with it.
func (r *TransactionRepository) DeleteJournal(ctx context.Context, entryID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM journal WHERE id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal: %w", err)
	}

	return checkAffected(result, apperrors.ErrTransactionNotFound)
}

// DeleteJournalsForAsset removes every journal with a posting on the asset,
// including the cash postings that balanced them.
func (r *TransactionRepository) DeleteJournalsForAsset(ctx context.Context, assetID string) (int64, error) {
	result, err := r.getQuerier().ExecContext(ctx, `
		DELETE FROM journal
		WHERE id IN (SELECT entry_id FROM "transaction" WHERE asset_id = ?)
	`, assetID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete journals for asset: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// DeleteOrphanJournals removes journals left without postings.
func (r *TransactionRepository) DeleteOrphanJournals(ctx context.Context) error {
	_, err := r.getQuerier().ExecContext(ctx, `
		DELETE FROM journal
		WHERE NOT EXISTS (SELECT 1 FROM "transaction" t WHERE t.entry_id = journal.id)
	`)
	if err != nil {
		return fmt.Errorf("failed to delete orphan journals: %w", err)
	}
	return nil
}
