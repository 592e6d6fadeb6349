package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/testutil"
	"github.com/ndewijer/folio/internal/validation"
)

func TestPlanService_CreatePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("fixes amount per purchase", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		stock := testutil.CreateStock(t, db, "VTI")

		// Execute
		plan, err := svc.Plans.CreatePlan(ctx, request.CreatePlanRequest{
			AssetID: stock.ID, TotalAmount: 1000, NumberOfPurchases: 3,
			Cadence: "monthly", StartDate: "2024-01-31", CustomDays: 9,
		})

		// Assert
		if err != nil {
			t.Fatalf("CreatePlan() returned unexpected error: %v", err)
		}
		if plan.AmountPerPurchase != 1000.0/3 {
			t.Errorf("Expected 1000/3 per purchase, got %v", plan.AmountPerPurchase)
		}
		if plan.Status != model.PlanActive || plan.Symbol != "VTI" {
			t.Errorf("Expected active VTI plan, got %s %s", plan.Status, plan.Symbol)
		}
		if plan.CustomDays != 0 {
			t.Errorf("Expected custom days ignored for monthly cadence, got %d", plan.CustomDays)
		}
		if plan.NextPurchaseDate == nil || !plan.NextPurchaseDate.Equal(testutil.Date(2024, 1, 31)) {
			t.Errorf("Expected next purchase on the start date, got %v", plan.NextPurchaseDate)
		}
		if !plan.Overdue {
			t.Error("Expected a plan starting in the past to be overdue")
		}
	})

	t.Run("cash asset cannot carry a plan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		cash := testutil.CreateCashAsset(t, db, "USD")

		_, err := svc.Plans.CreatePlan(ctx, request.CreatePlanRequest{
			AssetID: cash.ID, TotalAmount: 100, NumberOfPurchases: 1, Cadence: "weekly", StartDate: "2024-01-01",
		})

		if !errors.Is(err, apperrors.ErrKindNotAllowed) {
			t.Errorf("Expected ErrKindNotAllowed, got %v", err)
		}
	})
}

// TestPlanService_RecordPurchase tests advancing a plan by recording a purchase.
//
// WHY: The counter and the buy must move together; a plan must stop accepting
// purchases once its count is reached.
func TestPlanService_RecordPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("records a funded buy and advances the counter", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		cash := testutil.CreateCashAsset(t, db, "USD")
		testutil.NewTransaction(cash).Deposit(1000).OnDate(testutil.Date(2023, 12, 31)).Build(t, db)
		stock := testutil.CreateStock(t, db, "VTI")
		plan := testutil.NewPlan(stock.ID).WithAmount(400, 4).StartingOn(testutil.Date(2024, 1, 1)).Build(t, db)

		// Execute
		res, err := svc.Plans.RecordPurchase(ctx, plan.ID, request.RecordPurchaseRequest{
			Date: "2024-01-01", PricePerUnit: 40,
		})

		// Assert
		if err != nil {
			t.Fatalf("RecordPurchase() returned unexpected error: %v", err)
		}
		if res.Plan.CompletedPurchases != 1 || res.Plan.Status != model.PlanActive {
			t.Errorf("Expected 1 completed purchase on an active plan, got %d %s", res.Plan.CompletedPurchases, res.Plan.Status)
		}
		if res.Transaction.Quantity != 2.5 {
			t.Errorf("Expected 2.5 units for 100 at 40, got %v", res.Transaction.Quantity)
		}
		if res.Transaction.Note != "Plan purchase 1 of 4" {
			t.Errorf("Expected default note, got %q", res.Transaction.Note)
		}
		if res.Plan.InvestedAmount != 100 || res.Plan.RemainingAmount != 300 {
			t.Errorf("Expected 100 invested and 300 remaining, got %v / %v", res.Plan.InvestedAmount, res.Plan.RemainingAmount)
		}
		if res.Plan.NextPurchaseDate == nil || !res.Plan.NextPurchaseDate.Equal(testutil.Date(2024, 1, 8)) {
			t.Errorf("Expected next purchase a week later, got %v", res.Plan.NextPurchaseDate)
		}

		cashHolding, err := svc.Portfolio.GetHolding(ctx, cash.ID)
		if err != nil {
			t.Fatalf("GetHolding() returned unexpected error: %v", err)
		}
		if cashHolding.CurrentValue != 900 {
			t.Errorf("Expected cash to fund the purchase, got balance %v", cashHolding.CurrentValue)
		}
	})

	t.Run("last purchase completes the plan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		stock := testutil.CreateStock(t, db, "VTI")
		plan := testutil.NewPlan(stock.ID).WithAmount(300, 3).WithCompleted(2).Build(t, db)

		res, err := svc.Plans.RecordPurchase(ctx, plan.ID, request.RecordPurchaseRequest{
			Date: time.Now().UTC().Format(time.DateOnly), PricePerUnit: 50, Quantity: ptr(1.5),
		})

		if err != nil {
			t.Fatalf("RecordPurchase() returned unexpected error: %v", err)
		}
		if res.Plan.Status != model.PlanCompleted || res.Plan.NextPurchaseDate != nil {
			t.Errorf("Expected completed plan without a next date, got %s %v", res.Plan.Status, res.Plan.NextPurchaseDate)
		}
		if res.Transaction.Quantity != 1.5 {
			t.Errorf("Expected explicit quantity 1.5, got %v", res.Transaction.Quantity)
		}

		_, err = svc.Plans.RecordPurchase(ctx, plan.ID, request.RecordPurchaseRequest{
			Date: "2024-01-01", PricePerUnit: 50,
		})
		if !errors.Is(err, apperrors.ErrPlanNotActive) {
			t.Errorf("Expected ErrPlanNotActive after completion, got %v", err)
		}
	})

	t.Run("paused plan rejects purchases", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		stock := testutil.CreateStock(t, db, "VTI")
		plan := testutil.NewPlan(stock.ID).WithStatus(model.PlanPaused).Build(t, db)

		_, err := svc.Plans.RecordPurchase(ctx, plan.ID, request.RecordPurchaseRequest{
			Date: "2024-01-01", PricePerUnit: 50,
		})

		if !errors.Is(err, apperrors.ErrPlanNotActive) {
			t.Errorf("Expected ErrPlanNotActive, got %v", err)
		}
		testutil.AssertRowCount(t, db, "journal", 0)
	})
}

func TestPlanService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		from    model.PlanStatus
		to      model.PlanStatus
		wantErr bool
	}{
		{"pause", model.PlanActive, model.PlanPaused, false},
		{"resume", model.PlanPaused, model.PlanActive, false},
		{"cancel active", model.PlanActive, model.PlanCancelled, false},
		{"cancel paused", model.PlanPaused, model.PlanCancelled, false},
		{"reactivate cancelled", model.PlanCancelled, model.PlanActive, true},
		{"pause completed", model.PlanCompleted, model.PlanPaused, true},
		{"cancel completed", model.PlanCompleted, model.PlanCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
			stock := testutil.CreateStock(t, db, "VTI")
			b := testutil.NewPlan(stock.ID).WithStatus(tt.from)
			if tt.from == model.PlanCompleted {
				b = b.WithCompleted(10)
			}
			plan := b.Build(t, db)

			got, err := svc.Plans.ChangeStatus(ctx, plan.ID, tt.to)

			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidPlanTransition) {
					t.Errorf("Expected ErrInvalidPlanTransition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ChangeStatus() returned unexpected error: %v", err)
			}
			if got.Status != tt.to {
				t.Errorf("Expected status %s, got %s", tt.to, got.Status)
			}
		})
	}
}

func TestPlanService_UpdatePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("editing the total recomputes the amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		stock := testutil.CreateStock(t, db, "VTI")
		plan := testutil.NewPlan(stock.ID).Build(t, db)

		got, err := svc.Plans.UpdatePlan(ctx, plan.ID, request.UpdatePlanRequest{TotalAmount: ptr(2000.0)})

		if err != nil {
			t.Fatalf("UpdatePlan() returned unexpected error: %v", err)
		}
		if got.AmountPerPurchase != 200 {
			t.Errorf("Expected 200 per purchase, got %v", got.AmountPerPurchase)
		}
	})

	t.Run("editing the note keeps the amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		stock := testutil.CreateStock(t, db, "VTI")
		plan := testutil.NewPlan(stock.ID).Build(t, db)

		got, err := svc.Plans.UpdatePlan(ctx, plan.ID, request.UpdatePlanRequest{Note: ptr("rebalance")})

		if err != nil {
			t.Fatalf("UpdatePlan() returned unexpected error: %v", err)
		}
		if got.AmountPerPurchase != 100 || got.Note != "rebalance" {
			t.Errorf("Expected amount 100 and new note, got %v %q", got.AmountPerPurchase, got.Note)
		}
	})

	t.Run("lowering the count to the counter completes the plan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		stock := testutil.CreateStock(t, db, "VTI")
		plan := testutil.NewPlan(stock.ID).WithCompleted(4).Build(t, db)

		got, err := svc.Plans.UpdatePlan(ctx, plan.ID, request.UpdatePlanRequest{NumberOfPurchases: ptr(4)})

		if err != nil {
			t.Fatalf("UpdatePlan() returned unexpected error: %v", err)
		}
		if got.Status != model.PlanCompleted {
			t.Errorf("Expected completed, got %s", got.Status)
		}
		if got.AmountPerPurchase != 250 {
			t.Errorf("Expected 250 per purchase, got %v", got.AmountPerPurchase)
		}
	})

	t.Run("custom cadence needs a day count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		stock := testutil.CreateStock(t, db, "VTI")
		plan := testutil.NewPlan(stock.ID).Build(t, db)

		_, err := svc.Plans.UpdatePlan(ctx, plan.ID, request.UpdatePlanRequest{Cadence: ptr("custom")})

		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Fatalf("Expected validation error, got %v", err)
		}
		if _, ok := verr.Fields["customDays"]; !ok {
			t.Errorf("Expected customDays field error, got %v", verr.Fields)
		}
	})
}

func TestPlanService_GetPlans(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
	vti := testutil.CreateStock(t, db, "VTI")
	bnd := testutil.CreateStock(t, db, "BND")
	testutil.NewPlan(vti.ID).Build(t, db)
	testutil.NewPlan(bnd.ID).WithStatus(model.PlanPaused).StartingOn(testutil.Date(2020, 1, 1)).Build(t, db)

	all, err := svc.Plans.GetPlans(ctx, "")
	if err != nil {
		t.Fatalf("GetPlans() returned unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 plans, got %d", len(all))
	}

	forBND, err := svc.Plans.GetPlans(ctx, bnd.ID)
	if err != nil {
		t.Fatalf("GetPlans() returned unexpected error: %v", err)
	}
	if len(forBND) != 1 || forBND[0].Symbol != "BND" {
		t.Fatalf("Expected the BND plan, got %+v", forBND)
	}
	if forBND[0].Overdue {
		t.Error("Expected a paused plan never to be overdue")
	}
}

func TestPlanService_DeletePlan(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
	stock := testutil.CreateStock(t, db, "VTI")
	plan := testutil.NewPlan(stock.ID).Build(t, db)
	testutil.NewTransaction(stock).Buy(1, 100).ForPlan(plan.ID).Build(t, db)

	if err := svc.Plans.DeletePlan(ctx, plan.ID); err != nil {
		t.Fatalf("DeletePlan() returned unexpected error: %v", err)
	}

	testutil.AssertRowCount(t, db, "investment_plan", 0)
	testutil.AssertRowCount(t, db, `"transaction"`, 1)

	if err := svc.Plans.DeletePlan(ctx, plan.ID); !errors.Is(err, apperrors.ErrPlanNotFound) {
		t.Errorf("Expected ErrPlanNotFound on second delete, got %v", err)
	}
}
