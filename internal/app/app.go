// Package app opens the database and wires the services shared by the server and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ndewijer/folio/internal/api"
	"github.com/ndewijer/folio/internal/config"
	"github.com/ndewijer/folio/internal/database"
	"github.com/ndewijer/folio/internal/insight"
	"github.com/ndewijer/folio/internal/logging"
	"github.com/ndewijer/folio/internal/news"
	"github.com/ndewijer/folio/internal/repository"
	"github.com/ndewijer/folio/internal/service"
	"github.com/ndewijer/folio/internal/yahoo"
)

// App is an open database with its services.
type App struct {
	DB       *sql.DB
	Services api.Services
}

// Open opens and migrates the database at cfg.Database.Path and builds the services.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	version, err := database.Migrate(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logging.Get().Infow("database ready", "path", cfg.Database.Path, "schema_version", version)

	services, err := NewServices(db, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &App{DB: db, Services: services}, nil
}

// Close closes the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// NewServices wires repositories, external clients and services around db.
func NewServices(db *sql.DB, cfg *config.Config) (api.Services, error) {
	assetRepo := repository.NewAssetRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settings, err := service.NewSettingsService(settingRepo, assetRepo, cfg.Security.SecretKey, cfg.AI.Model, cfg.AI.APIKey)
	if err != nil {
		return api.Services{}, err
	}

	quotes := yahoo.NewFinanceClient(cfg.Market.QuoteURL, cfg.Market.Timeout)
	feeds := news.NewFeedClient(cfg.Market.NewsURL, cfg.Market.Timeout)

	s := api.Services{Settings: settings}
	s.Assets = service.NewAssetService(db, assetRepo, transactionRepo, priceRepo)
	s.Transaction = service.NewTransactionService(db, assetRepo, transactionRepo, settings)
	s.Plans = service.NewPlanService(db, planRepo, assetRepo, transactionRepo, s.Transaction)
	s.Portfolio = service.NewPortfolioService(assetRepo, transactionRepo, priceRepo)
	s.Prices = service.NewPriceService(assetRepo, priceRepo, settingRepo, quotes, cfg.Market.MaxConcurrency)
	s.News = service.NewNewsService(assetRepo, feeds, cfg.Market.MaxConcurrency)
	s.Insight = service.NewInsightService(s.Portfolio, s.News, settings, insight.GenAIGenerator{})
	s.Snapshot = service.NewSnapshotService(s.Portfolio, s.Plans, cfg.Widget.SnapshotPath)
	s.Export = service.NewExportService(s.Transaction)
	s.System = service.NewSystemService(db, settings, cfg.Widget.SnapshotPath)
	return s, nil
}
