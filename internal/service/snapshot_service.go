package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/render"
)

// SnapshotService writes the widget snapshot to shared storage.
type SnapshotService struct {
	portfolioService *PortfolioService
	planService      *PlanService
	path             string
}

// NewSnapshotService creates a new SnapshotService writing to path.
func NewSnapshotService(portfolioService *PortfolioService, planService *PlanService, path string) *SnapshotService {
	return &SnapshotService{
		portfolioService: portfolioService,
		planService:      planService,
		path:             path,
	}
}

// Path returns the snapshot file location.
func (s *SnapshotService) Path() string {
	return s.path
}

// Build assembles the snapshot from the current summary and plans. Holdings with
// nothing held are left out; so are completed and cancelled plans.
func (s *SnapshotService) Build(ctx context.Context) (model.Snapshot, error) {
	summary, err := s.portfolioService.GetSummary(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	plans, err := s.planService.GetPlans(ctx, "")
	if err != nil {
		return model.Snapshot{}, err
	}

	snap := model.Snapshot{
		GeneratedAt:    time.Now().UTC(),
		TotalValue:     summary.TotalValue,
		TotalValueText: render.Money(summary.TotalValue, ""),
		DayChange:      summary.DayChange,
		DayChangePct:   summary.DayChangePct,
		UnrealizedGain: summary.UnrealizedGain,
		CashBalance:    summary.CashBalance,
		Holdings:       []model.SnapshotHolding{},
		Plans:          []model.SnapshotPlan{},
	}

	for _, h := range summary.Holdings {
		if h.TotalShares == 0 {
			continue
		}
		snap.Holdings = append(snap.Holdings, model.SnapshotHolding{
			Symbol:       h.Symbol,
			Name:         h.Name,
			Type:         string(h.Type),
			Shares:       h.TotalShares,
			AverageCost:  h.AverageCost,
			CurrentPrice: h.CurrentPrice,
			Value:        h.CurrentValue,
			ValueText:    render.Money(h.CurrentValue, ""),
			DayChange:    h.DayChange,
		})
	}

	for _, p := range plans {
		if p.Status.IsTerminal() {
			continue
		}
		snap.Plans = append(snap.Plans, model.SnapshotPlan{
			Symbol:             p.Symbol,
			Status:             string(p.Status),
			CompletedPurchases: p.CompletedPurchases,
			NumberOfPurchases:  p.NumberOfPurchases,
			AmountPerPurchase:  p.AmountPerPurchase,
			NextPurchaseDate:   p.NextPurchaseDate,
			Overdue:            p.Overdue,
		})
	}

	return snap, nil
}

// Sync builds the snapshot and replaces the shared file. The file is written to a
// temporary sibling and renamed, so a reader never sees a partial document.
func (s *SnapshotService) Sync(ctx context.Context) (model.Snapshot, error) {
	snap, err := s.Build(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSyncSnapshot, err)
	}
	if err := writeFileAtomic(s.path, snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSyncSnapshot, err)
	}
	return snap, nil
}

// Read returns the snapshot last written to shared storage.
func (s *SnapshotService) Read() (model.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

func writeFileAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
