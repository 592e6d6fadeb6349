// Package api wires the HTTP handlers into a chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/folio/internal/api/handlers"
	custommiddleware "github.com/ndewijer/folio/internal/api/middleware"
	"github.com/ndewijer/folio/internal/config"
	"github.com/ndewijer/folio/internal/service"
)

// Services holds the services the router dispatches to.
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

// NewRouter creates and configures the HTTP router.
// When cfg.Server.APIKey is set, every route that changes state requires it.
func NewRouter(s Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// guard wraps mutating routes
	guard := func(next http.Handler) http.Handler { return next }
	if cfg.Server.APIKey != "" {
		guard = custommiddleware.APIKey(cfg.Server.APIKey)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(s.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/asset", func(r chi.Router) {
			assetHandler := handlers.NewAssetHandler(s.Assets, s.Portfolio, s.Transaction)
			r.Get("/", assetHandler.Assets)
			r.With(guard).Post("/", assetHandler.CreateAsset)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", assetHandler.GetAsset)
				r.Get("/transactions", assetHandler.AssetTransactions)
				r.With(guard).Put("/", assetHandler.UpdateAsset)
				r.With(guard).Delete("/", assetHandler.DeleteAsset)
			})
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(s.Transaction)
			r.Get("/", transactionHandler.AllTransactions)
			r.With(guard).Post("/", transactionHandler.CreateTransaction)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.With(guard).Put("/", transactionHandler.UpdateTransaction)
				r.With(guard).Delete("/", transactionHandler.DeleteTransaction)
			})
		})

		r.Route("/plan", func(r chi.Router) {
			planHandler := handlers.NewPlanHandler(s.Plans)
			r.Get("/", planHandler.Plans)
			r.With(guard).Post("/", planHandler.CreatePlan)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", planHandler.GetPlan)
				r.With(guard).Put("/", planHandler.UpdatePlan)
				r.With(guard).Delete("/", planHandler.DeletePlan)
				r.With(guard).Post("/status", planHandler.ChangeStatus)
				r.With(guard).Post("/purchase", planHandler.RecordPurchase)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(s.Portfolio)
			r.Get("/summary", portfolioHandler.PortfolioSummary)
		})

		r.Route("/price", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(s.Prices, s.Snapshot)
			r.Get("/", priceHandler.Prices)
			r.With(guard).Post("/refresh", priceHandler.Refresh)
		})

		newsHandler := handlers.NewNewsHandler(s.News, s.Insight)
		r.Get("/news", newsHandler.News)
		r.With(guard).Post("/insight", newsHandler.Insight)

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(s.Settings)
			r.Get("/", settingsHandler.GetSettings)
			r.With(guard).Put("/", settingsHandler.UpdateSettings)
		})

		r.Get("/export", handlers.NewExportHandler(s.Export).Export)

		r.Route("/snapshot", func(r chi.Router) {
			snapshotHandler := handlers.NewSnapshotHandler(s.Snapshot)
			r.Get("/", snapshotHandler.Snapshot)
			r.With(guard).Post("/sync", snapshotHandler.Sync)
		})
	})

	return r
}
