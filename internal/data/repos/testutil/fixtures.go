package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
)

// SeedSession inserts a session row with the given raw form_data JSON.
func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, step int, formData string) *onboarding.SessionRecord {
	tb.Helper()
	if formData == "" {
		formData = "{}"
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	rec := &onboarding.SessionRecord{
		ID:           uuid.New(),
		FormData:     datatypes.JSON(formData),
		CurrentStep:  step,
		LastActivity: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return rec
}
