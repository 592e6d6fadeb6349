package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/service"
	"github.com/ndewijer/folio/internal/testutil"
)

func TestExportService_Export(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
	cash := testutil.CreateCashAsset(t, db, "USD")
	stock := testutil.CreateStock(t, db, "AAPL")
	testutil.NewTransaction(cash).Deposit(1000).OnDate(testutil.Date(2024, 1, 1)).Build(t, db)
	testutil.NewTransaction(stock).Buy(2, 100).OnDate(testutil.Date(2024, 1, 2)).
		WithNote("first, \"lot\"").FundedBy(cash).Build(t, db)

	t.Run("csv oldest first", func(t *testing.T) {
		var buf bytes.Buffer

		err := svc.Export.Export(ctx, &buf, service.FormatCSV, model.TransactionFilter{})

		if err != nil {
			t.Fatalf("Export() returned unexpected error: %v", err)
		}
		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("exported CSV does not parse: %v", err)
		}
		if len(records) != 4 {
			t.Fatalf("Expected header and 3 rows, got %d records", len(records))
		}
		if records[0][0] != "id" || records[0][5] != "kind" {
			t.Errorf("Unexpected header %v", records[0])
		}
		if records[1][2] != "2024-01-01" || records[1][5] != "deposit" {
			t.Errorf("Expected the deposit first, got %v", records[1])
		}
		for _, r := range records[2:] {
			if r[10] != "first, \"lot\"" {
				t.Errorf("Expected note to survive quoting, got %q", r[10])
			}
		}
	})

	t.Run("json filtered by asset", func(t *testing.T) {
		var buf bytes.Buffer

		err := svc.Export.Export(ctx, &buf, "JSON", model.TransactionFilter{AssetID: stock.ID})

		if err != nil {
			t.Fatalf("Export() returned unexpected error: %v", err)
		}
		var rows []model.TransactionResponse
		if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
			t.Fatalf("exported JSON does not parse: %v", err)
		}
		if len(rows) != 1 || rows[0].Symbol != "AAPL" || rows[0].TotalAmount != 200 {
			t.Errorf("Expected the AAPL buy, got %+v", rows)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		var buf bytes.Buffer

		err := svc.Export.Export(ctx, &buf, "xlsx", model.TransactionFilter{})

		if !errors.Is(err, apperrors.ErrUnsupportedFormat) {
			t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
		}
		if buf.Len() != 0 {
			t.Error("Expected nothing written")
		}
	})

	if service.ContentType(service.FormatJSON) != "application/json" || service.ContentType(service.FormatCSV) != "text/csv" {
		t.Error("Unexpected content types")
	}
}
