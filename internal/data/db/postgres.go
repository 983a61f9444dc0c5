package db

import (
	"fmt"
	"net/url"

	"gorm.io/driver/postgres"

	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

type PostgresConfig struct {
	// DSN wins over the discrete fields when set.
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Pool     PoolConfig
}

func (c PostgresConfig) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

func NewPostgresService(logg *logger.Logger, cfg PostgresConfig) (*Service, error) {
	s, err := open(logg, "Postgres", postgres.Open(cfg.dsn()), cfg.Pool)
	if err != nil {
		return nil, err
	}
	s.log.Info("Connected", "host", cfg.Host, "database", cfg.Name)
	return s, nil
}
