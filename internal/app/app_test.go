package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ndewijer/folio/internal/app"
	"github.com/ndewijer/folio/internal/config"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Database.Path = filepath.Join(dir, "nested", "folio.db")
	cfg.Widget.SnapshotPath = filepath.Join(dir, "widget.json")
	cfg.Market.MaxConcurrency = 2
	cfg.AI.Model = "test-model"

	a, err := app.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open() returned unexpected error: %v", err)
	}
	defer a.Close()

	if err := a.Services.System.CheckHealth(); err != nil {
		t.Errorf("Expected healthy database, got %v", err)
	}
	info, err := a.Services.System.CheckVersion(context.Background())
	if err != nil {
		t.Fatalf("CheckVersion() returned unexpected error: %v", err)
	}
	if info.MigrationNeeded {
		t.Error("Expected migrations to be applied")
	}
	if info.Features["ai_insight"] {
		t.Error("Expected AI insight to be unavailable without a key")
	}
}

func TestNewServices_InvalidSecret(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.SecretKey = "not-a-fernet-key"

	if _, err := app.NewServices(nil, cfg); err == nil {
		t.Error("Expected an error for an invalid secret key")
	}
}
