package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/testutil"
	"github.com/ndewijer/folio/internal/validation"
)

func ptr[T any](v T) *T { return &v }

// TestTransactionService_CreateTransaction tests recording logical transactions.
//
// WHY: Every trade on a tradable asset must be mirrored on the cash asset so the
// cash balance stays consistent with the positions it funded.
func TestTransactionService_CreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("buy creates a linked cash withdrawal", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		cash := testutil.CreateCashAsset(t, db, "USD")
		stock := testutil.CreateStock(t, db, "AAPL")

		// Execute
		j, err := svc.Transaction.CreateTransaction(ctx, request.CreateTransactionRequest{
			AssetID:      stock.ID,
			Kind:         "buy",
			Date:         "2024-01-15",
			Quantity:     10,
			PricePerUnit: 150,
			Note:         "first lot",
		})

		// Assert
		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}
		if len(j.Postings) != 2 {
			t.Fatalf("Expected 2 postings, got %d", len(j.Postings))
		}
		primary, counter := j.Postings[0], j.Postings[1]
		if counter.AssetID != cash.ID || counter.Kind != model.KindWithdrawal {
			t.Errorf("Expected withdrawal on cash, got %s on %s", counter.Kind, counter.AssetID)
		}
		if counter.Amount != 1500 {
			t.Errorf("Expected counter amount 1500, got %v", counter.Amount)
		}
		if primary.LinkedID == nil || *primary.LinkedID != counter.ID {
			t.Error("Expected primary posting to link to the counter posting")
		}
		testutil.AssertRowCount(t, db, "journal", 1)
		testutil.AssertRowCount(t, db, `"transaction"`, 2)
	})

	t.Run("linkCash false records the trade alone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		testutil.CreateCashAsset(t, db, "USD")
		stock := testutil.CreateStock(t, db, "MSFT")

		j, err := svc.Transaction.CreateTransaction(ctx, request.CreateTransactionRequest{
			AssetID: stock.ID, Kind: "buy", Date: "2024-01-15", Quantity: 1, PricePerUnit: 300,
			LinkCash: ptr(false),
		})

		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}
		if len(j.Postings) != 1 {
			t.Errorf("Expected 1 posting, got %d", len(j.Postings))
		}
	})

	t.Run("no cash asset records the trade alone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		stock := testutil.CreateStock(t, db, "VTI")

		j, err := svc.Transaction.CreateTransaction(ctx, request.CreateTransactionRequest{
			AssetID: stock.ID, Kind: "buy", Date: "2024-01-15", Quantity: 2, PricePerUnit: 200,
		})

		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}
		if len(j.Postings) != 1 {
			t.Errorf("Expected 1 posting, got %d", len(j.Postings))
		}
	})

	t.Run("dividend is paid into cash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		testutil.CreateCashAsset(t, db, "USD")
		stock := testutil.CreateStock(t, db, "KO")

		j, err := svc.Transaction.CreateTransaction(ctx, request.CreateTransactionRequest{
			AssetID: stock.ID, Kind: "dividend", Date: "2024-03-01", Quantity: 100, PricePerUnit: 0.46,
		})

		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}
		if j.Postings[1].Kind != model.KindDeposit || j.Postings[1].Amount != 46 {
			t.Errorf("Expected deposit of 46, got %s of %v", j.Postings[1].Kind, j.Postings[1].Amount)
		}
	})

	t.Run("deposit on cash is a single posting", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		cash := testutil.CreateCashAsset(t, db, "USD")

		j, err := svc.Transaction.CreateTransaction(ctx, request.CreateTransactionRequest{
			AssetID: cash.ID, Kind: "deposit", Date: "2024-01-01", Amount: 5000,
		})

		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}
		if len(j.Postings) != 1 || j.Postings[0].Amount != 5000 {
			t.Errorf("Expected one posting of 5000, got %+v", j.Postings)
		}
	})

	t.Run("rejects a kind that does not fit the asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		cash := testutil.CreateCashAsset(t, db, "USD")

		_, err := svc.Transaction.CreateTransaction(ctx, request.CreateTransactionRequest{
			AssetID: cash.ID, Kind: "buy", Date: "2024-01-01", Quantity: 1, PricePerUnit: 1,
		})

		if !errors.Is(err, apperrors.ErrKindNotAllowed) {
			t.Errorf("Expected ErrKindNotAllowed, got %v", err)
		}
		testutil.AssertRowCount(t, db, "journal", 0)
	})

	t.Run("rejects selling more than held", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		stock := testutil.CreateStock(t, db, "NVDA")
		testutil.NewTransaction(stock).Buy(5, 100).OnDate(testutil.Date(2024, 1, 1)).Build(t, db)

		_, err := svc.Transaction.CreateTransaction(ctx, request.CreateTransactionRequest{
			AssetID: stock.ID, Kind: "sell", Date: "2024-02-01", Quantity: 6, PricePerUnit: 120,
		})

		if !errors.Is(err, apperrors.ErrInsufficientShares) {
			t.Errorf("Expected ErrInsufficientShares, got %v", err)
		}
	})

	t.Run("allows selling exactly what is held", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		stock := testutil.CreateStock(t, db, "AMD")
		testutil.NewTransaction(stock).Buy(0.1, 100).OnDate(testutil.Date(2024, 1, 1)).Build(t, db)
		testutil.NewTransaction(stock).Buy(0.2, 100).OnDate(testutil.Date(2024, 1, 2)).Build(t, db)

		_, err := svc.Transaction.CreateTransaction(ctx, request.CreateTransactionRequest{
			AssetID: stock.ID, Kind: "sell", Date: "2024-02-01", Quantity: 0.3, PricePerUnit: 120,
		})

		if err != nil {
			t.Errorf("Expected sale of full holding to succeed, got %v", err)
		}
	})

	t.Run("unknown asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})

		_, err := svc.Transaction.CreateTransaction(ctx, request.CreateTransactionRequest{
			AssetID: testutil.MakeID(), Kind: "buy", Date: "2024-01-01", Quantity: 1, PricePerUnit: 1,
		})

		if !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("Expected ErrAssetNotFound, got %v", err)
		}
	})
}

// TestTransactionService_UpdateTransaction tests editing a logical transaction.
//
// WHY: Editing either posting must regenerate both, so the cash leg can never
// drift from the trade it funded.
func TestTransactionService_UpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("editing the trade updates the cash leg", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		cash := testutil.CreateCashAsset(t, db, "USD")
		stock := testutil.CreateStock(t, db, "AAPL")
		j := testutil.NewTransaction(stock).Buy(10, 100).OnDate(testutil.Date(2024, 1, 1)).FundedBy(cash).Build(t, db)

		// Execute
		updated, err := svc.Transaction.UpdateTransaction(ctx, j.Primary.ID, request.UpdateTransactionRequest{
			PricePerUnit: ptr(120.0),
			Date:         ptr("2024-01-05"),
			Note:         ptr("corrected"),
		})

		// Assert
		if err != nil {
			t.Fatalf("UpdateTransaction() returned unexpected error: %v", err)
		}
		counter := updated.Postings[1]
		if counter.ID != j.Counter.ID {
			t.Error("Expected counter posting id to be preserved")
		}
		if counter.Amount != 1200 {
			t.Errorf("Expected counter amount 1200, got %v", counter.Amount)
		}
		if counter.Date.Format("2006-01-02") != "2024-01-05" || counter.Note != "corrected" {
			t.Errorf("Expected counter date and note to follow, got %s %q", counter.Date, counter.Note)
		}

		stored, err := svc.Transaction.GetTransaction(ctx, j.Counter.ID)
		if err != nil {
			t.Fatalf("GetTransaction() returned unexpected error: %v", err)
		}
		if stored.Amount != 1200 {
			t.Errorf("Expected stored counter amount 1200, got %v", stored.Amount)
		}
	})

	t.Run("editing through the cash posting edits the whole journal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		cash := testutil.CreateCashAsset(t, db, "USD")
		stock := testutil.CreateStock(t, db, "AAPL")
		j := testutil.NewTransaction(stock).Buy(10, 100).FundedBy(cash).Build(t, db)

		updated, err := svc.Transaction.UpdateTransaction(ctx, j.Counter.ID, request.UpdateTransactionRequest{
			Quantity: ptr(4.0),
		})

		if err != nil {
			t.Fatalf("UpdateTransaction() returned unexpected error: %v", err)
		}
		if updated.Postings[0].Quantity != 4 || updated.Postings[1].Amount != 400 {
			t.Errorf("Expected 4 units and 400 cash, got %+v", updated.Postings)
		}
	})

	t.Run("amount sent to the cash posting reprices the trade", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		cash := testutil.CreateCashAsset(t, db, "USD")
		stock := testutil.CreateStock(t, db, "AAPL")
		j := testutil.NewTransaction(stock).Buy(10, 100).FundedBy(cash).Build(t, db)

		// Execute
		updated, err := svc.Transaction.UpdateTransaction(ctx, j.Counter.ID, request.UpdateTransactionRequest{
			Amount: ptr(500.0),
		})

		// Assert
		if err != nil {
			t.Fatalf("UpdateTransaction() returned unexpected error: %v", err)
		}
		primary, counter := updated.Postings[0], updated.Postings[1]
		if primary.Quantity != 10 || primary.PricePerUnit != 50 || primary.Amount != 500 {
			t.Errorf("Expected buy of 10 @ 50 = 500, got %+v", primary)
		}
		if counter.Kind != model.KindWithdrawal || counter.Amount != 500 {
			t.Errorf("Expected withdrawal of 500, got %+v", counter)
		}

		summary, err := svc.Portfolio.GetSummary(ctx)
		if err != nil {
			t.Fatalf("GetSummary() returned unexpected error: %v", err)
		}
		for _, h := range summary.Holdings {
			if h.ID == stock.ID && h.AverageCost != 50 {
				t.Errorf("Expected average cost 50 after the edit, got %v", h.AverageCost)
			}
		}
	})

	t.Run("amount with a price on a unit trade is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		cash := testutil.CreateCashAsset(t, db, "USD")
		stock := testutil.CreateStock(t, db, "AAPL")
		j := testutil.NewTransaction(stock).Buy(10, 100).FundedBy(cash).Build(t, db)

		_, err := svc.Transaction.UpdateTransaction(ctx, j.Counter.ID, request.UpdateTransactionRequest{
			Amount:       ptr(500.0),
			PricePerUnit: ptr(60.0),
		})

		var verr *validation.Error
		if !errors.As(err, &verr) || verr.Fields["amount"] == "" {
			t.Errorf("Expected an amount validation error, got %v", err)
		}
	})

	t.Run("edit is held to the create rules", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		cash := testutil.CreateCashAsset(t, db, "USD")
		stock := testutil.CreateStock(t, db, "AAPL")
		j := testutil.NewTransaction(stock).Buy(10, 100).FundedBy(cash).Build(t, db)

		// Execute
		_, err := svc.Transaction.UpdateTransaction(ctx, j.Primary.ID, request.UpdateTransactionRequest{
			PricePerUnit: ptr(0.0),
		})

		// Assert
		var verr *validation.Error
		if !errors.As(err, &verr) || verr.Fields["pricePerUnit"] == "" {
			t.Fatalf("Expected a pricePerUnit validation error, got %v", err)
		}
		stored, err := svc.Transaction.GetTransaction(ctx, j.Primary.ID)
		if err != nil {
			t.Fatalf("GetTransaction() returned unexpected error: %v", err)
		}
		if stored.PricePerUnit != 100 {
			t.Errorf("Expected stored price to stay 100, got %v", stored.PricePerUnit)
		}
	})

	t.Run("sell edit is checked without its previous version", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		stock := testutil.CreateStock(t, db, "AAPL")
		testutil.NewTransaction(stock).Buy(10, 100).OnDate(testutil.Date(2024, 1, 1)).Build(t, db)
		sale := testutil.NewTransaction(stock).Sell(8, 110).OnDate(testutil.Date(2024, 2, 1)).Build(t, db)

		if _, err := svc.Transaction.UpdateTransaction(ctx, sale.Primary.ID, request.UpdateTransactionRequest{
			Quantity: ptr(10.0),
		}); err != nil {
			t.Errorf("Expected sell of 10 to be allowed, got %v", err)
		}

		_, err := svc.Transaction.UpdateTransaction(ctx, sale.Primary.ID, request.UpdateTransactionRequest{
			Quantity: ptr(11.0),
		})
		if !errors.Is(err, apperrors.ErrInsufficientShares) {
			t.Errorf("Expected ErrInsufficientShares, got %v", err)
		}
	})

	t.Run("unknown transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})

		_, err := svc.Transaction.UpdateTransaction(ctx, testutil.MakeID(), request.UpdateTransactionRequest{})

		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound, got %v", err)
		}
	})
}

func TestTransactionService_DeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting either posting removes the journal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
		cash := testutil.CreateCashAsset(t, db, "USD")
		stock := testutil.CreateStock(t, db, "AAPL")
		j := testutil.NewTransaction(stock).Buy(1, 10).FundedBy(cash).Build(t, db)

		if err := svc.Transaction.DeleteTransaction(ctx, j.Counter.ID); err != nil {
			t.Fatalf("DeleteTransaction() returned unexpected error: %v", err)
		}

		testutil.AssertRowCount(t, db, "journal", 0)
		testutil.AssertRowCount(t, db, `"transaction"`, 0)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})

		err := svc.Transaction.DeleteTransaction(ctx, testutil.MakeID())

		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound, got %v", err)
		}
	})
}

func TestTransactionService_GetTransactions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
	cash := testutil.CreateCashAsset(t, db, "USD")
	stock := testutil.CreateStock(t, db, "AAPL")
	testutil.NewTransaction(cash).Deposit(1000).OnDate(testutil.Date(2024, 1, 1)).Build(t, db)
	testutil.NewTransaction(stock).Buy(2, 100).OnDate(testutil.Date(2024, 1, 2)).FundedBy(cash).Build(t, db)
	testutil.NewTransaction(stock).Sell(1, 120).OnDate(testutil.Date(2024, 1, 3)).FundedBy(cash).Build(t, db)

	t.Run("all postings newest first", func(t *testing.T) {
		rows, err := svc.Transaction.GetTransactions(ctx, model.TransactionFilter{})
		if err != nil {
			t.Fatalf("GetTransactions() returned unexpected error: %v", err)
		}
		if len(rows) != 5 {
			t.Fatalf("Expected 5 postings, got %d", len(rows))
		}
		if rows[0].Date.Before(rows[len(rows)-1].Date) {
			t.Error("Expected newest first")
		}
	})

	t.Run("filtered by asset and kind", func(t *testing.T) {
		rows, err := svc.Transaction.GetTransactions(ctx, model.TransactionFilter{
			AssetID: cash.ID,
			Kinds:   []model.TransactionKind{model.KindWithdrawal},
		})
		if err != nil {
			t.Fatalf("GetTransactions() returned unexpected error: %v", err)
		}
		if len(rows) != 1 || rows[0].Amount != 200 || rows[0].Symbol != "USD" {
			t.Errorf("Expected the single 200 withdrawal, got %+v", rows)
		}
	})

	t.Run("journal lookup by posting id", func(t *testing.T) {
		rows, _ := svc.Transaction.GetTransactions(ctx, model.TransactionFilter{AssetID: stock.ID})
		j, err := svc.Transaction.GetJournal(ctx, rows[0].ID)
		if err != nil {
			t.Fatalf("GetJournal() returned unexpected error: %v", err)
		}
		if len(j.Postings) != 2 || j.Postings[0].AssetID != stock.ID {
			t.Errorf("Expected stock posting first in a pair, got %+v", j.Postings)
		}
	})
}
