package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/onboarding-backend/internal/http/handlers"
	httpMW "github.com/yungbote/onboarding-backend/internal/http/middleware"
	"github.com/yungbote/onboarding-backend/internal/observability"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	// Tracing adds otelgin spans. The global tracer provider decides where
	// they go.
	Tracing     bool
	CORSOrigins []string

	OnboardingHandler *httpH.OnboardingHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/healthcheck", "/readyz"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	{
		// Onboarding (session ids are the only credential)
		if cfg.OnboardingHandler != nil {
			ob := api.Group("/onboarding")
			ob.GET("/steps", cfg.OnboardingHandler.ListSteps)
			ob.POST("/sessions", cfg.OnboardingHandler.CreateSession)
			ob.GET("/sessions/:sessionId", cfg.OnboardingHandler.GetSession)
			ob.PATCH("/sessions/:sessionId", cfg.OnboardingHandler.UpdateSession)
			ob.PUT("/sessions/:sessionId", cfg.OnboardingHandler.UpdateSession)
			ob.DELETE("/sessions/:sessionId/products/:productId/photos/:photoId", cfg.OnboardingHandler.DeletePhoto)
		}
	}

	return r
}
