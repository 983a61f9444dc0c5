package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
	"github.com/yungbote/onboarding-backend/internal/modules/onboarding/formstate"
	"github.com/yungbote/onboarding-backend/internal/observability"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

type BootstrapResult struct {
	SessionID   uuid.UUID `json:"sessionId"`
	CurrentStep int       `json:"currentStep"`
	LastSaved   time.Time `json:"lastSaved"`
}

type UpdateInput struct {
	SessionID   string
	CurrentStep int
	FormData    onboarding.FormData
}

type OnboardingService interface {
	Bootstrap(ctx context.Context) (BootstrapResult, error)
	Get(ctx context.Context, sessionID string) (*onboarding.Session, error)
	Update(ctx context.Context, in UpdateInput) (SaveResult, error)
	DeletePhoto(ctx context.Context, sessionID, productID, photoID string) error
	Steps() []onboarding.Step
	Ready(ctx context.Context) error
}

type onboardingService struct {
	log     *logger.Logger
	store   SessionStore
	photos  PhotoLifecycle
	engine  *formstate.Engine
	metrics *observability.Metrics
	now     func() time.Time
}

func NewOnboardingService(
	baseLog *logger.Logger,
	store SessionStore,
	photos PhotoLifecycle,
	engine *formstate.Engine,
	metrics *observability.Metrics,
) OnboardingService {
	if engine == nil {
		engine = formstate.New(nil)
	}
	return &onboardingService{
		log:     baseLog.With("service", "OnboardingService"),
		store:   store,
		photos:  photos,
		engine:  engine,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *onboardingService) Bootstrap(ctx context.Context) (BootstrapResult, error) {
	session, err := s.store.Create(ctx)
	if err != nil {
		return BootstrapResult{}, err
	}
	return BootstrapResult{
		SessionID:   session.ID,
		CurrentStep: session.CurrentStep,
		LastSaved:   session.UpdatedAt,
	}, nil
}

func (s *onboardingService) Get(ctx context.Context, sessionID string) (*onboarding.Session, error) {
	return s.store.Load(ctx, sessionID)
}

// Update is the autosave path: load, merge the patch, save. Nothing is
// written unless the whole patch is valid.
func (s *onboardingService) Update(ctx context.Context, in UpdateInput) (SaveResult, error) {
	session, err := s.store.Load(ctx, in.SessionID)
	if err != nil {
		return SaveResult{}, err
	}
	next, err := s.engine.ApplyPatch(*session, in.CurrentStep, in.FormData, s.now())
	if err != nil {
		s.countViolations(err)
		return SaveResult{}, err
	}
	res, err := s.store.Save(ctx, in.SessionID, next.CurrentStep, next.FormData)
	if err != nil {
		s.countViolations(err)
		return SaveResult{}, err
	}
	return res, nil
}

func (s *onboardingService) DeletePhoto(ctx context.Context, sessionID, productID, photoID string) error {
	return s.photos.DeletePhoto(ctx, sessionID, productID, photoID)
}

func (s *onboardingService) Steps() []onboarding.Step {
	return append([]onboarding.Step(nil), onboarding.Steps...)
}

func (s *onboardingService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *onboardingService) countViolations(err error) {
	var ve *onboarding.ValidationError
	if !errors.As(err, &ve) {
		return
	}
	if len(ve.Violations) > 0 {
		s.metrics.IncValidationFailure(ve.Violations[0].Field)
	}
	s.log.Debug("Patch rejected", "violations", len(ve.Violations), "headline", ve.Error())
}
