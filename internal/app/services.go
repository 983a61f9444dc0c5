package app

import (
	"github.com/yungbote/onboarding-backend/internal/modules/onboarding/formstate"
	"github.com/yungbote/onboarding-backend/internal/modules/onboarding/validation"
	"github.com/yungbote/onboarding-backend/internal/observability"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
	"github.com/yungbote/onboarding-backend/internal/platform/objectstore"
	"github.com/yungbote/onboarding-backend/internal/services"
)

type Services struct {
	Sessions   services.SessionStore
	Photos     services.PhotoLifecycle
	Onboarding services.OnboardingService
}

func wireServices(log *logger.Logger, reposet *Repos, photos objectstore.Store, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	engine := formstate.New(validation.Default())
	sessions := services.NewSessionStore(log, reposet.Sessions, engine, metrics)
	photoLifecycle := services.NewPhotoLifecycle(log, photos, metrics)
	return Services{
		Sessions:   sessions,
		Photos:     photoLifecycle,
		Onboarding: services.NewOnboardingService(log, sessions, photoLifecycle, engine, metrics),
	}
}
