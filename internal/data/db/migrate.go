package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&onboarding.SessionRecord{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}
	// Stale session sweeps scan by updated_at.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_onboarding_sessions_updated_at
		ON onboarding_sessions (updated_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_onboarding_sessions_updated_at: %w", err)
	}
	return nil
}
