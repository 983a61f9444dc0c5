package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/onboarding-backend/internal/clients/redis"
	"github.com/yungbote/onboarding-backend/internal/data/db"
	repos "github.com/yungbote/onboarding-backend/internal/data/repos/onboarding"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

type Repos struct {
	Sessions repos.SessionRecordRepo

	// Exactly one of these is set, depending on SESSION_STORE_BACKEND.
	DB    *gorm.DB
	Redis goredis.UniversalClient

	closers []func() error
}

func (r *Repos) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

func wireRepos(ctx context.Context, log *logger.Logger, cfg Config) (*Repos, error) {
	log.Info("Wiring repos...", "backend", cfg.SessionStoreBackend)
	out := &Repos{}

	switch cfg.SessionStoreBackend {
	case "redis":
		rdb, err := redisclient.NewClient(ctx, log, redisclient.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
		out.closers = append(out.closers, rdb.Close)
		out.Sessions = repos.NewRedisSessionRecordRepo(rdb, cfg.Redis.TTL, log)
		return out, nil

	case "sqlite":
		svc, err := db.NewSQLiteService(log, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return out.withSQL(log, svc)

	default:
		pg := cfg.Postgres
		svc, err := db.NewPostgresService(log, db.PostgresConfig{
			DSN:      pg.DSN,
			Host:     pg.Host,
			Port:     pg.Port,
			User:     pg.User,
			Password: pg.Password,
			Name:     pg.Name,
			SSLMode:  pg.SSLMode,
			Pool: db.PoolConfig{
				MaxOpenConns:    pg.MaxOpenConns,
				MaxIdleConns:    pg.MaxIdleConns,
				ConnMaxLifetime: pg.ConnMaxLifetime,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return out.withSQL(log, svc)
	}
}

func (r *Repos) withSQL(log *logger.Logger, svc *db.Service) (*Repos, error) {
	r.closers = append(r.closers, svc.Close)
	if err := db.AutoMigrateAll(svc.DB()); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("%s automigrate: %w", svc.Driver(), err)
	}
	r.DB = svc.DB()
	r.Sessions = repos.NewSessionRecordRepo(svc.DB(), log)
	return r, nil
}
