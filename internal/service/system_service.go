package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/folio/internal/database"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db              *sql.DB
	settingsService *SettingsService
	snapshotPath    string
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB, settingsService *SettingsService, snapshotPath string) *SystemService {
	return &SystemService{
		db:              db,
		settingsService: settingsService,
		snapshotPath:    snapshotPath,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application and schema versions and which optional
// features are usable with the current configuration.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	current, target, err := database.Versions(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	features := map[string]bool{
		"price_refresh":   true,
		"news":            true,
		"ai_insight":      false,
		"widget_snapshot": s.snapshotPath != "",
	}
	if s.settingsService != nil {
		if _, err := s.settingsService.AIKey(ctx); err == nil {
			features["ai_insight"] = true
		}
	}

	info := model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  strconv.FormatInt(current, 10),
		Features:   features,
	}
	if current < target {
		msg := fmt.Sprintf("database schema is at version %d, latest is %d", current, target)
		info.MigrationNeeded = true
		info.MigrationMessage = &msg
	}
	return info, nil
}
