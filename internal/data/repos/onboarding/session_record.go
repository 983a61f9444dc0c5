package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/onboarding-backend/internal/domain/onboarding"
	"github.com/yungbote/onboarding-backend/internal/platform/dbctx"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

// SessionRecordRepo persists whole session documents. Implementations
// return domain.ErrNotFound for unknown ids on GetByID and Replace.
type SessionRecordRepo interface {
	Create(dbc dbctx.Context, rec *domain.SessionRecord) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.SessionRecord, error)
	Replace(dbc dbctx.Context, rec *domain.SessionRecord) error
	Ping(ctx context.Context) error
	Backend() string
}

type sessionRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRecordRepo(db *gorm.DB, baseLog *logger.Logger) SessionRecordRepo {
	repoLog := baseLog.With("repo", "SessionRecordRepo")
	return &sessionRecordRepo{db: db, log: repoLog}
}

func (r *sessionRecordRepo) Backend() string { return r.db.Dialector.Name() }

func (r *sessionRecordRepo) Create(dbc dbctx.Context, rec *domain.SessionRecord) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if rec == nil {
		return fmt.Errorf("nil session record")
	}
	return transaction.WithContext(dbc.Context()).Create(rec).Error
}

func (r *sessionRecordRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.SessionRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var rec domain.SessionRecord
	err := transaction.WithContext(dbc.Context()).
		Where("id = ?", id).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Replace overwrites the mutable columns of an existing row. created_at is
// never touched.
func (r *sessionRecordRepo) Replace(dbc dbctx.Context, rec *domain.SessionRecord) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if rec == nil {
		return fmt.Errorf("nil session record")
	}
	res := transaction.WithContext(dbc.Context()).
		Model(&domain.SessionRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"form_data":     rec.FormData,
			"current_step":  rec.CurrentStep,
			"last_activity": rec.LastActivity,
			"updated_at":    rec.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRecordRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
