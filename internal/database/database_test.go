package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenAndMigrate(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "folio.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	version, err := Migrate(ctx, db)
	if err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if version < 1 {
		t.Errorf("Expected schema version >= 1, got %d", version)
	}

	// Applying again is a no-op
	again, err := Migrate(ctx, db)
	if err != nil {
		t.Fatalf("second Migrate() error: %v", err)
	}
	if again != version {
		t.Errorf("Expected version %d after re-run, got %d", version, again)
	}

	for _, table := range []string{"asset", "journal", "transaction", "investment_plan", "price_cache", "setting"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil || fk != 1 {
		t.Errorf("Expected foreign keys enabled, got %d (%v)", fk, err)
	}

	if err := HealthCheck(db); err != nil {
		t.Errorf("HealthCheck() error: %v", err)
	}

	v, err := Version(ctx, db)
	if err != nil || v != version {
		t.Errorf("Version() = %d, %v; want %d", v, err, version)
	}
}
