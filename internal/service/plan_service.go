package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/ledger"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/planning"
	"github.com/ndewijer/folio/internal/repository"
	"github.com/ndewijer/folio/internal/validation"
)

// PlanService handles investment plan business logic operations.
// Schedule and lifecycle rules live in the planning package; this service loads,
// applies and stores them.
type PlanService struct {
	db                 *sql.DB
	planRepo           *repository.PlanRepository
	assetRepo          *repository.AssetRepository
	transactionRepo    *repository.TransactionRepository
	transactionService *TransactionService
}

// NewPlanService creates a new PlanService with the provided repository dependencies.
func NewPlanService(
	db *sql.DB,
	planRepo *repository.PlanRepository,
	assetRepo *repository.AssetRepository,
	transactionRepo *repository.TransactionRepository,
	transactionService *TransactionService,
) *PlanService {
	return &PlanService{
		db:                 db,
		planRepo:           planRepo,
		assetRepo:          assetRepo,
		transactionRepo:    transactionRepo,
		transactionService: transactionService,
	}
}

// GetPlans lists plans with their derived schedule fields, optionally for one asset.
func (s *PlanService) GetPlans(ctx context.Context, assetID string) ([]model.PlanResponse, error) {
	plans, err := s.planRepo.GetPlans(ctx, assetID)
	if err != nil {
		return nil, err
	}
	assets, err := s.assetsByID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	responses := make([]model.PlanResponse, 0, len(plans))
	for _, p := range plans {
		r, err := s.planResponse(ctx, p, assets[p.AssetID].Symbol, now)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, nil
}

// GetPlan retrieves a single plan with its derived fields.
func (s *PlanService) GetPlan(ctx context.Context, id string) (model.PlanResponse, error) {
	p, err := s.planRepo.GetPlan(ctx, id)
	if err != nil {
		return model.PlanResponse{}, err
	}
	return s.respond(ctx, p)
}

func (s *PlanService) respond(ctx context.Context, p model.Plan) (model.PlanResponse, error) {
	asset, err := s.assetRepo.GetAsset(ctx, p.AssetID)
	if err != nil {
		return model.PlanResponse{}, err
	}
	return s.planResponse(ctx, p, asset.Symbol, time.Now().UTC())
}

func (s *PlanService) assetsByID(ctx context.Context) (map[string]model.Asset, error) {
	assets, err := s.assetRepo.GetAssets(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}
	return byID, nil
}

// planResponse adds next date, overdue flag, progress and the amount spent so far.
func (s *PlanService) planResponse(ctx context.Context, p model.Plan, symbol string, now time.Time) (model.PlanResponse, error) {
	postings, err := s.transactionRepo.GetTransactionsByPlan(ctx, p.ID)
	if err != nil {
		return model.PlanResponse{}, err
	}

	invested := decimal.Zero
	for _, t := range postings {
		if t.Kind == model.KindBuy {
			invested = invested.Add(decimal.NewFromFloat(t.Quantity).Mul(decimal.NewFromFloat(t.PricePerUnit)))
		}
	}
	remaining := decimal.NewFromFloat(p.TotalAmount).Sub(invested)
	if remaining.IsNegative() || p.Status.IsTerminal() {
		remaining = decimal.Zero
	}

	r := model.PlanResponse{
		Plan:            p,
		Symbol:          symbol,
		Overdue:         planning.IsOverdue(p, now),
		Progress:        planning.Progress(p),
		InvestedAmount:  round(invested.InexactFloat64()),
		RemainingAmount: round(remaining.InexactFloat64()),
	}
	if next, ok := planning.NextPurchaseDate(p); ok {
		r.NextPurchaseDate = &next
	}
	return r, nil
}

// CreatePlan stores a new active plan. Amount per purchase is fixed here as
// total / number of purchases.
func (s *PlanService) CreatePlan(ctx context.Context, req request.CreatePlanRequest) (model.PlanResponse, error) {
	asset, err := s.assetRepo.GetAsset(ctx, req.AssetID)
	if err != nil {
		return model.PlanResponse{}, err
	}
	if asset.Type.IsCash() {
		return model.PlanResponse{}, fmt.Errorf("%w: plans buy a tradable asset", apperrors.ErrKindNotAllowed)
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return model.PlanResponse{}, err
	}

	p := model.Plan{
		ID:                uuid.New().String(),
		AssetID:           asset.ID,
		TotalAmount:       req.TotalAmount,
		NumberOfPurchases: req.NumberOfPurchases,
		AmountPerPurchase: planning.AmountPerPurchase(req.TotalAmount, req.NumberOfPurchases),
		Cadence:           model.Cadence(req.Cadence),
		StartDate:         start,
		Status:            model.PlanActive,
		Note:              strings.TrimSpace(req.Note),
		CreatedAt:         time.Now().UTC(),
	}
	if p.Cadence == model.CadenceCustom {
		p.CustomDays = req.CustomDays
	}

	if err := s.planRepo.InsertPlan(ctx, &p); err != nil {
		return model.PlanResponse{}, fmt.Errorf("failed to create investment plan: %w", err)
	}
	return s.planResponse(ctx, p, asset.Symbol, time.Now().UTC())
}

// UpdatePlan applies the fields present in req. Amount per purchase is recomputed
// only when the total or the number of purchases is edited. Lowering the number of
// purchases to the completed count completes the plan; raising it reopens a
// completed plan.
func (s *PlanService) UpdatePlan(ctx context.Context, id string, req request.UpdatePlanRequest) (model.PlanResponse, error) {
	p, err := s.planRepo.GetPlan(ctx, id)
	if err != nil {
		return model.PlanResponse{}, err
	}

	if req.TotalAmount != nil || req.NumberOfPurchases != nil {
		if req.TotalAmount != nil {
			p.TotalAmount = *req.TotalAmount
		}
		if req.NumberOfPurchases != nil {
			p.NumberOfPurchases = *req.NumberOfPurchases
		}
		p.AmountPerPurchase = planning.AmountPerPurchase(p.TotalAmount, p.NumberOfPurchases)
	}
	if req.Cadence != nil {
		p.Cadence = model.Cadence(*req.Cadence)
	}
	if req.CustomDays != nil {
		p.CustomDays = *req.CustomDays
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return model.PlanResponse{}, err
		}
		p.StartDate = start
	}
	if req.Note != nil {
		p.Note = strings.TrimSpace(*req.Note)
	}

	if p.Cadence == model.CadenceCustom && p.CustomDays < 1 {
		return model.PlanResponse{}, &validation.Error{Fields: map[string]string{
			"customDays": "customDays must be at least 1 for a custom cadence",
		}}
	}
	if p.Cadence != model.CadenceCustom {
		p.CustomDays = 0
	}

	p = planning.Reconcile(p)

	if err := s.planRepo.UpdatePlan(ctx, &p); err != nil {
		return model.PlanResponse{}, fmt.Errorf("failed to update investment plan: %w", err)
	}
	return s.respond(ctx, p)
}

// ChangeStatus pauses, resumes or cancels a plan.
func (s *PlanService) ChangeStatus(ctx context.Context, id string, status model.PlanStatus) (model.PlanResponse, error) {
	p, err := s.planRepo.GetPlan(ctx, id)
	if err != nil {
		return model.PlanResponse{}, err
	}
	if err := planning.Transition(p.Status, status); err != nil {
		return model.PlanResponse{}, err
	}

	p.Status = status
	if err := s.planRepo.UpdatePlan(ctx, &p); err != nil {
		return model.PlanResponse{}, fmt.Errorf("failed to update investment plan: %w", err)
	}
	return s.respond(ctx, p)
}

// RecordPurchase records one scheduled buy for an active plan and advances its
// counter. Without an explicit quantity the plan's amount per purchase is spent at
// the given price. The buy is balanced against the cash asset like any other buy.
func (s *PlanService) RecordPurchase(ctx context.Context, id string, req request.RecordPurchaseRequest) (model.PlanPurchase, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return model.PlanPurchase{}, err
	}

	p, err := s.planRepo.GetPlan(ctx, id)
	if err != nil {
		return model.PlanPurchase{}, err
	}
	if p.Status != model.PlanActive {
		return model.PlanPurchase{}, fmt.Errorf("%w: plan is %s", apperrors.ErrPlanNotActive, p.Status)
	}

	asset, err := s.assetRepo.GetAsset(ctx, p.AssetID)
	if err != nil {
		return model.PlanPurchase{}, err
	}
	cash, err := s.transactionService.counterAsset(ctx, asset, true)
	if err != nil {
		return model.PlanPurchase{}, err
	}

	price := decimal.NewFromFloat(req.PricePerUnit)
	quantity := decimal.NewFromFloat(p.AmountPerPurchase).DivRound(price, 6)
	if req.Quantity != nil {
		quantity = decimal.NewFromFloat(*req.Quantity)
	}

	note := req.Note
	if note == "" {
		note = fmt.Sprintf("Plan purchase %d of %d", p.CompletedPurchases+1, p.NumberOfPurchases)
	}

	planID := p.ID
	var j ledger.Journal
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		planRepo := s.planRepo.WithTx(tx)

		// counter is read inside the transaction
		current, err := planRepo.GetPlan(ctx, id)
		if err != nil {
			return err
		}
		advanced, err := planning.Advance(current)
		if err != nil {
			return err
		}

		j, err = s.transactionService.record(ctx, tx, asset, cash, ledger.Trade{
			Kind:     model.KindBuy,
			Date:     date,
			Quantity: quantity,
			Price:    price,
			Note:     note,
			PlanID:   &planID,
		})
		if err != nil {
			return err
		}

		p = advanced
		return planRepo.UpdatePlan(ctx, &p)
	})
	if err != nil {
		return model.PlanPurchase{}, err
	}

	resp, err := s.planResponse(ctx, p, asset.Symbol, time.Now().UTC())
	if err != nil {
		return model.PlanPurchase{}, err
	}
	return model.PlanPurchase{Plan: resp, Transaction: j.Primary}, nil
}

// DeletePlan removes a plan. Purchases already recorded stay in the ledger.
func (s *PlanService) DeletePlan(ctx context.Context, id string) error {
	return s.planRepo.DeletePlan(ctx, id)
}
