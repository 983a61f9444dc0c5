package app

import (
	"context"

	apphttp "github.com/yungbote/onboarding-backend/internal/http"
	httpH "github.com/yungbote/onboarding-backend/internal/http/handlers"
	"github.com/yungbote/onboarding-backend/internal/observability"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
	"github.com/yungbote/onboarding-backend/internal/platform/objectstore"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Onboarding *httpH.OnboardingHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, photos objectstore.Store) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(map[string]httpH.Pinger{
			"session_store": httpH.PingFunc(func(ctx context.Context) error { return serviceset.Onboarding.Ready(ctx) }),
			"photo_storage": photos,
		}),
		Onboarding: httpH.NewOnboardingHandler(serviceset.Onboarding),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.Otel.ServiceName,
		Tracing:           cfg.Otel.Enabled,
		CORSOrigins:       cfg.CORSAllowedOrigins,
		OnboardingHandler: handlers.Onboarding,
		HealthHandler:     handlers.Health,
	})
}
