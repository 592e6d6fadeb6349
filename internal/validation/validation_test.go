package validation

import (
	"errors"
	"testing"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
)

const testUUID = "3f2b8c1e-6d4a-4e8b-9c3d-2a1b0c9d8e7f"

func ptr[T any](v T) *T { return &v }

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *validation.Error, got %T (%v)", err, err)
	}
	return verr.Fields
}

func TestValidateUUID(t *testing.T) {
	if err := ValidateUUID(testUUID); err != nil {
		t.Errorf("Expected valid UUID, got %v", err)
	}
	if err := ValidateUUID("not-a-uuid"); !errors.Is(err, apperrors.ErrInvalidUUID) {
		t.Errorf("Expected ErrInvalidUUID, got %v", err)
	}
}

func TestValidateCreateAsset(t *testing.T) {
	t.Run("valid stock", func(t *testing.T) {
		err := ValidateCreateAsset(request.CreateAssetRequest{Symbol: "AAPL", Type: "stock", Name: "Apple"})
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("valid certificate of deposit", func(t *testing.T) {
		err := ValidateCreateAsset(request.CreateAssetRequest{
			Symbol: "CD-1Y", Type: "cd", Name: "One year CD",
			MaturityDate: ptr("2025-06-30"), InterestRate: ptr(4.5),
		})
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("missing fields and unknown type", func(t *testing.T) {
		fields := fieldsOf(t, ValidateCreateAsset(request.CreateAssetRequest{Type: "crypto"}))
		for _, f := range []string{"symbol", "type", "name"} {
			if _, ok := fields[f]; !ok {
				t.Errorf("Expected error for %s, got %v", f, fields)
			}
		}
	})

	t.Run("maturity on a stock", func(t *testing.T) {
		fields := fieldsOf(t, ValidateCreateAsset(request.CreateAssetRequest{
			Symbol: "AAPL", Type: "stock", Name: "Apple", MaturityDate: ptr("2025-01-01"),
		}))
		if _, ok := fields["maturityDate"]; !ok {
			t.Errorf("Expected maturityDate error, got %v", fields)
		}
	})

	t.Run("bad maturity format", func(t *testing.T) {
		fields := fieldsOf(t, ValidateCreateAsset(request.CreateAssetRequest{
			Symbol: "CD", Type: "cd", Name: "CD", MaturityDate: ptr("30/06/2025"),
		}))
		if fields["maturityDate"] != "must be a date in YYYY-MM-DD format" {
			t.Errorf("Expected date format error, got %v", fields)
		}
	})
}

func TestValidateCreateTransaction(t *testing.T) {
	base := func() request.CreateTransactionRequest {
		return request.CreateTransactionRequest{AssetID: testUUID, Kind: "buy", Date: "2024-01-05", Quantity: 10, PricePerUnit: 100}
	}

	t.Run("valid buy", func(t *testing.T) {
		if err := ValidateCreateTransaction(base()); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("valid deposit", func(t *testing.T) {
		req := base()
		req.Kind, req.Quantity, req.PricePerUnit, req.Amount = "deposit", 0, 0, 5000
		if err := ValidateCreateTransaction(req); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*request.CreateTransactionRequest)
		field  string
	}{
		{"bad asset id", func(r *request.CreateTransactionRequest) { r.AssetID = "x" }, "assetId"},
		{"unknown kind", func(r *request.CreateTransactionRequest) { r.Kind = "fee" }, "kind"},
		{"bad date", func(r *request.CreateTransactionRequest) { r.Date = "2024-13-01" }, "date"},
		{"zero quantity", func(r *request.CreateTransactionRequest) { r.Quantity = 0 }, "quantity"},
		{"zero price", func(r *request.CreateTransactionRequest) { r.PricePerUnit = 0 }, "pricePerUnit"},
		{"negative quantity", func(r *request.CreateTransactionRequest) { r.Quantity = -1 }, "quantity"},
		{"deposit without amount", func(r *request.CreateTransactionRequest) { r.Kind = "deposit" }, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)
			fields := fieldsOf(t, ValidateCreateTransaction(req))
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("Expected error on %s, got %v", tt.field, fields)
			}
		})
	}
}

func TestValidateTrade(t *testing.T) {
	if err := ValidateTrade(model.KindBuy, 10, 100, 0); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidateTrade(model.KindDeposit, 0, 0, 50); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	fields := fieldsOf(t, ValidateTrade(model.KindSell, 10, 0, 0))
	if _, ok := fields["pricePerUnit"]; !ok {
		t.Errorf("Expected pricePerUnit error, got %v", fields)
	}
	fields = fieldsOf(t, ValidateTrade(model.KindWithdrawal, 0, 0, 0))
	if _, ok := fields["amount"]; !ok {
		t.Errorf("Expected amount error, got %v", fields)
	}
}

func TestValidateCreatePlan(t *testing.T) {
	req := request.CreatePlanRequest{
		AssetID: testUUID, TotalAmount: 1200, NumberOfPurchases: 12, Cadence: "monthly", StartDate: "2024-01-01",
	}
	if err := ValidateCreatePlan(req); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	req.Cadence = "custom"
	fields := fieldsOf(t, ValidateCreatePlan(req))
	if _, ok := fields["customDays"]; !ok {
		t.Errorf("Expected customDays error, got %v", fields)
	}

	req.Cadence = "daily"
	req.NumberOfPurchases = 0
	fields = fieldsOf(t, ValidateCreatePlan(req))
	if _, ok := fields["cadence"]; !ok {
		t.Errorf("Expected cadence error, got %v", fields)
	}
	if _, ok := fields["numberOfPurchases"]; !ok {
		t.Errorf("Expected numberOfPurchases error, got %v", fields)
	}
}

func TestValidatePlanStatus(t *testing.T) {
	if err := ValidatePlanStatus(request.PlanStatusRequest{Status: "paused"}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidatePlanStatus(request.PlanStatusRequest{Status: "completed"}); err == nil {
		t.Error("Expected completed to be rejected")
	}
}

func TestValidateUpdateSettings(t *testing.T) {
	if err := ValidateUpdateSettings(request.UpdateSettingsRequest{RefreshIntervalMinutes: ptr(15)}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	fields := fieldsOf(t, ValidateUpdateSettings(request.UpdateSettingsRequest{RefreshIntervalMinutes: ptr(10)}))
	if _, ok := fields["refreshIntervalMinutes"]; !ok {
		t.Errorf("Expected refreshIntervalMinutes error, got %v", fields)
	}
}

func TestErrorMessageIsSorted(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "two", "a": "one"}}
	if err.Error() != "a: one; b: two" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}
