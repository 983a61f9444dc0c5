package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	repos "github.com/yungbote/onboarding-backend/internal/data/repos/onboarding"
	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
	"github.com/yungbote/onboarding-backend/internal/modules/onboarding/formstate"
	"github.com/yungbote/onboarding-backend/internal/observability"
	"github.com/yungbote/onboarding-backend/internal/platform/dbctx"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

type SaveResult struct {
	SessionID uuid.UUID `json:"sessionId"`
	LastSaved time.Time `json:"lastSaved"`
}

// SessionStore is the only path between session documents and the record
// backend. Ids are checked before the backend is touched and every backend
// failure surfaces as *onboarding.StoreError.
type SessionStore interface {
	Create(ctx context.Context) (*onboarding.Session, error)
	Load(ctx context.Context, rawID string) (*onboarding.Session, error)
	// Save replaces the stored document. Timestamps are assigned here.
	Save(ctx context.Context, rawID string, step int, fd onboarding.FormData) (SaveResult, error)
	Ping(ctx context.Context) error
}

type sessionStore struct {
	log     *logger.Logger
	repo    repos.SessionRecordRepo
	engine  *formstate.Engine
	metrics *observability.Metrics
	now     func() time.Time
}

func NewSessionStore(baseLog *logger.Logger, repo repos.SessionRecordRepo, engine *formstate.Engine, metrics *observability.Metrics) SessionStore {
	if engine == nil {
		engine = formstate.New(nil)
	}
	return &sessionStore{
		log:     baseLog.With("service", "SessionStore"),
		repo:    repo,
		engine:  engine,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *sessionStore) Create(ctx context.Context) (*onboarding.Session, error) {
	now := s.now()
	session := onboarding.Session{
		ID:           uuid.New(),
		CurrentStep:  0,
		CreatedAt:    now,
		LastActivity: now,
		UpdatedAt:    now,
	}
	rec, err := onboarding.NewSessionRecord(session)
	if err != nil {
		return nil, s.storeErr("create session", session.ID, err)
	}
	start := time.Now()
	err = s.repo.Create(dbctx.Context{Ctx: ctx}, rec)
	s.observe("create", err, start)
	if err != nil {
		return nil, s.storeErr("create session", session.ID, err)
	}
	s.log.Info("Session created", "session_id", session.ID.String())
	return &session, nil
}

func (s *sessionStore) Load(ctx context.Context, rawID string) (*onboarding.Session, error) {
	id, err := onboarding.ParseID("sessionId", rawID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rec, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	s.observe("load", err, start)
	if errors.Is(err, onboarding.ErrNotFound) {
		return nil, onboarding.ErrNotFound
	}
	if err != nil {
		return nil, s.storeErr("load session", id, err)
	}
	session, err := rec.ToSession()
	if err != nil {
		return nil, s.storeErr("load session", id, err)
	}
	return session, nil
}

func (s *sessionStore) Save(ctx context.Context, rawID string, step int, fd onboarding.FormData) (SaveResult, error) {
	id, err := onboarding.ParseID("sessionId", rawID)
	if err != nil {
		return SaveResult{}, err
	}
	fd, err = s.engine.Validate(fd, step)
	if err != nil {
		return SaveResult{}, err
	}

	now := s.now()
	rec, err := onboarding.NewSessionRecord(onboarding.Session{
		ID:           id,
		CurrentStep:  step,
		FormData:     fd,
		LastActivity: now,
		UpdatedAt:    now,
	})
	if err != nil {
		return SaveResult{}, s.storeErr("save session", id, err)
	}

	start := time.Now()
	err = s.repo.Replace(dbctx.Context{Ctx: ctx}, rec)
	s.observe("save", err, start)
	if errors.Is(err, onboarding.ErrNotFound) {
		return SaveResult{}, onboarding.ErrNotFound
	}
	if err != nil {
		return SaveResult{}, s.storeErr("save session", id, err)
	}
	s.log.Debug("Session saved", "session_id", id.String(), "current_step", step)
	return SaveResult{SessionID: id, LastSaved: now}, nil
}

func (s *sessionStore) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return &onboarding.StoreError{Op: "reach session store", Err: err}
	}
	return nil
}

func (s *sessionStore) storeErr(op string, id uuid.UUID, err error) error {
	s.log.Error("Session store failure", "op", op, "session_id", id.String(), "backend", s.repo.Backend(), "error", err)
	return &onboarding.StoreError{Op: op, Err: err}
}

func (s *sessionStore) observe(op string, err error, start time.Time) {
	outcome := "ok"
	switch {
	case errors.Is(err, onboarding.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	s.metrics.ObserveStoreOp(s.repo.Backend(), op, outcome, time.Since(start))
}
