package db

import (
	"strings"

	"gorm.io/driver/sqlite"

	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

// NewSQLiteService opens a file backed (or ":memory:") database for local
// development and tests.
func NewSQLiteService(logg *logger.Logger, path string) (*Service, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "onboarding.db"
	}
	// a single connection keeps ":memory:" databases shared across calls
	s, err := open(logg, "SQLite", sqlite.Open(path), PoolConfig{MaxOpenConns: 1})
	if err != nil {
		return nil, err
	}
	s.log.Info("Connected", "path", path)
	return s, nil
}
