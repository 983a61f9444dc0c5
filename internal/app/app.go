package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	apphttp "github.com/yungbote/onboarding-backend/internal/http"
	"github.com/yungbote/onboarding-backend/internal/observability"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
	"github.com/yungbote/onboarding-backend/internal/platform/objectstore"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Repos    *Repos
	Photos   objectstore.Store
	Services Services
	Server   *apphttp.Server
	Metrics  *observability.Metrics

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig(nil)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info("Config loaded",
		"session_store_backend", cfg.SessionStoreBackend,
		"photo_storage_backend", cfg.Photos.Backend,
		"metrics_enabled", cfg.MetricsEnabled,
		"otel_enabled", cfg.Otel.Enabled,
	)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Otel.Environment,
		Version:     cfg.Otel.Version,
		Endpoint:    cfg.Otel.Endpoint,
		Headers:     observability.ParseHeaders(cfg.Otel.Headers),
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	})

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.New(15 * time.Second)
	}

	reposet, err := wireRepos(ctx, log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		log.Sync()
		return nil, err
	}
	photos, err := resolvePhotoStore(ctx, log, cfg.Photos)
	if err != nil {
		_ = reposet.Close()
		_ = otelShutdown(ctx)
		log.Sync()
		return nil, err
	}
	if c, ok := photos.(io.Closer); ok {
		reposet.closers = append(reposet.closers, c.Close)
	}

	serviceset := wireServices(log, reposet, photos, metrics)
	handlerset := wireHandlers(log, serviceset, photos)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Repos:        reposet,
		Photos:       photos,
		Services:     serviceset,
		Server:       server,
		Metrics:      metrics,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP (and /metrics when enabled) until ctx is cancelled or one
// of the servers fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Server.Run(gctx, a.Cfg.Addr())
	})
	if a.Metrics != nil {
		a.Metrics.StartSQLCollector(gctx, a.Log, a.Repos.DB)
		a.Metrics.StartRedisCollector(gctx, a.Log, a.Repos.Redis)
		g.Go(func() error {
			return a.Metrics.Serve(gctx, a.Log, a.Cfg.MetricsAddr)
		})
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Repos != nil {
		if err := a.Repos.Close(); err != nil && a.Log != nil {
			a.Log.Warn("Closing backends failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
