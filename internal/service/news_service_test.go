package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/testutil"
)

func TestNewsService_GetNews(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("merges held symbols newest first", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		feed := testutil.NewMockNewsClient().
			WithHeadline("AAPL", "Apple old", now.Add(-3*time.Hour)).
			WithHeadline("AAPL", "Apple new", now.Add(-1*time.Hour)).
			WithHeadline("VTI", "Index flows", now.Add(-2*time.Hour)).
			WithError("MSFT", errors.New("feed down"))
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{News: feed})
		testutil.CreateStock(t, db, "AAPL")
		testutil.CreateStock(t, db, "MSFT")
		testutil.NewAsset().WithSymbol("VTI").WithType(model.AssetTypeETF).Build(t, db)
		testutil.CreateCashAsset(t, db, "USD")

		// Execute
		got, err := svc.News.GetNews(ctx, "", 5)

		// Assert
		if err != nil {
			t.Fatalf("GetNews() returned unexpected error: %v", err)
		}
		if len(got.Items) != 3 {
			t.Fatalf("Expected 3 items, got %d", len(got.Items))
		}
		want := []string{"Apple new", "Index flows", "Apple old"}
		for i, title := range want {
			if got.Items[i].Title != title {
				t.Errorf("Item %d: expected %q, got %q", i, title, got.Items[i].Title)
			}
		}
		if got.Errors["MSFT"] != "Could not load news for MSFT" {
			t.Errorf("Expected MSFT error, got %v", got.Errors)
		}
	})

	t.Run("single symbol with a limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		feed := testutil.NewMockNewsClient().
			WithHeadline("AAPL", "one", now).
			WithHeadline("AAPL", "two", now)
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{News: feed})

		got, err := svc.News.GetNews(ctx, "AAPL", 1)

		if err != nil {
			t.Fatalf("GetNews() returned unexpected error: %v", err)
		}
		if len(got.Items) != 1 || got.Errors != nil {
			t.Errorf("Expected one item and no errors, got %+v", got)
		}
	})
}

func TestInsightService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("renders the model reply", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		gen := &testutil.MockGenerator{Response: "## Summary\n\nYou hold **AAPL**."}
		feed := testutil.NewMockNewsClient().WithHeadline("AAPL", "Apple beats estimates", time.Now())
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{
			Generator: gen,
			News:      feed,
			EnvAIKey:  "env-key",
		})
		stock := testutil.CreateStock(t, db, "AAPL")
		testutil.NewTransaction(stock).Buy(3, 100).Build(t, db)

		// Execute
		got, err := svc.Insight.Generate(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Generate() returned unexpected error: %v", err)
		}
		if !strings.Contains(got.HTML, "<strong>AAPL</strong>") || !strings.Contains(got.HTML, "<h2") {
			t.Errorf("Expected rendered HTML, got %q", got.HTML)
		}
		if got.Model != "test-model" || gen.LastModel != "test-model" {
			t.Errorf("Expected default model, got %q", got.Model)
		}
		if gen.LastKey != "env-key" {
			t.Errorf("Expected env key to be used, got %q", gen.LastKey)
		}
		if !strings.Contains(gen.LastPrompt, "AAPL") || !strings.Contains(gen.LastPrompt, "Apple beats estimates") {
			t.Errorf("Expected prompt to carry holdings and headlines, got %q", gen.LastPrompt)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gen := &testutil.MockGenerator{Response: "unused"}
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{Generator: gen})

		_, err := svc.Insight.Generate(ctx)

		if !errors.Is(err, apperrors.ErrAIKeyMissing) {
			t.Errorf("Expected ErrAIKeyMissing, got %v", err)
		}
		if gen.LastPrompt != "" {
			t.Error("Expected the generator not to be called")
		}
	})

	t.Run("generator failure is wrapped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gen := &testutil.MockGenerator{Err: errors.New("quota exceeded")}
		svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{Generator: gen, EnvAIKey: "k"})

		_, err := svc.Insight.Generate(ctx)

		if !errors.Is(err, apperrors.ErrFailedToGenerateInsight) {
			t.Errorf("Expected ErrFailedToGenerateInsight, got %v", err)
		}
	})
}
