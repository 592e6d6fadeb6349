package testutil

import (
	"database/sql"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/ndewijer/folio/internal/insight"
	"github.com/ndewijer/folio/internal/news"
	"github.com/ndewijer/folio/internal/repository"
	"github.com/ndewijer/folio/internal/service"
	"github.com/ndewijer/folio/internal/yahoo"
)

// Services bundles every service wired against one test database.
type Services struct {
	Settings    *service.SettingsService
	Assets      *service.AssetService
	Transaction *service.TransactionService
	Plans       *service.PlanService
	Portfolio   *service.PortfolioService
	Prices      *service.PriceService
	News        *service.NewsService
	Insight     *service.InsightService
	Snapshot    *service.SnapshotService
	Export      *service.ExportService
	System      *service.SystemService
}

// ServiceOptions overrides the external clients used by NewTestServices.
// Nil fields get a mock with default behaviour.
type ServiceOptions struct {
	Quotes       yahoo.QuoteClient
	News         news.Client
	Generator    insight.Generator
	SecretKey    string
	EnvAIKey     string
	SnapshotPath string
}

// NewTestServices wires all services to db with mock external clients.
//
// Example usage:
//
//	svc := testutil.NewTestServices(t, db, testutil.ServiceOptions{})
//	holdings, err := svc.Portfolio.GetHoldings(ctx)
func NewTestServices(t *testing.T, db *sql.DB, opts ServiceOptions) *Services {
	t.Helper()

	if opts.Quotes == nil {
		opts.Quotes = NewMockQuoteClient()
	}
	if opts.News == nil {
		opts.News = NewMockNewsClient()
	}
	if opts.Generator == nil {
		opts.Generator = &MockGenerator{Response: "## Overview\n\nAll good."}
	}
	if opts.SecretKey == "" {
		opts.SecretKey = MakeSecretKey(t)
	}
	if opts.SnapshotPath == "" {
		opts.SnapshotPath = filepath.Join(t.TempDir(), "widget.json")
	}

	assetRepo := repository.NewAssetRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settings, err := service.NewSettingsService(settingRepo, assetRepo, opts.SecretKey, "test-model", opts.EnvAIKey)
	if err != nil {
		t.Fatalf("Failed to create settings service: %v", err)
	}

	s := &Services{Settings: settings}
	s.Assets = service.NewAssetService(db, assetRepo, transactionRepo, priceRepo)
	s.Transaction = service.NewTransactionService(db, assetRepo, transactionRepo, settings)
	s.Plans = service.NewPlanService(db, planRepo, assetRepo, transactionRepo, s.Transaction)
	s.Portfolio = service.NewPortfolioService(assetRepo, transactionRepo, priceRepo)
	s.Prices = service.NewPriceService(assetRepo, priceRepo, settingRepo, opts.Quotes, 4)
	s.News = service.NewNewsService(assetRepo, opts.News, 4)
	s.Insight = service.NewInsightService(s.Portfolio, s.News, settings, opts.Generator)
	s.Snapshot = service.NewSnapshotService(s.Portfolio, s.Plans, opts.SnapshotPath)
	s.Export = service.NewExportService(s.Transaction)
	s.System = service.NewSystemService(db, settings, opts.SnapshotPath)
	return s
}

// MakeSecretKey generates a base64 fernet key.
func MakeSecretKey(t *testing.T) string {
	t.Helper()

	var k fernet.Key
	if err := k.Generate(); err != nil {
		t.Fatalf("Failed to generate secret key: %v", err)
	}
	return k.Encode()
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeSymbolName generates a unique asset name for testing.
//
// Example usage:
//
//	name := testutil.MakeSymbolName("Tech Symbol")
//	// Returns: "Tech Symbol XYZ789"
func MakeSymbolName(base string) string {
	if base == "" {
		base = "Symbol"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
