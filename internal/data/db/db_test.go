package db

import (
	"context"
	"testing"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

func TestSQLiteServiceMigratesAndPings(t *testing.T) {
	s, err := NewSQLiteService(logger.Nop(), ":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteService: %v", err)
	}
	defer s.Close()

	if err := AutoMigrateAll(s.DB()); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	if !s.DB().Migrator().HasTable(&onboarding.SessionRecord{}) {
		t.Fatalf("table %q missing after migrate", onboarding.SessionRecord{}.TableName())
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if s.Driver() != "SQLite" {
		t.Fatalf("driver: want=%q got=%q", "SQLite", s.Driver())
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: "5432", User: "app", Password: "p@ss word", Name: "onboarding"}
	want := "postgres://app:p%40ss%20word@db:5432/onboarding?sslmode=disable"
	if got := cfg.dsn(); got != want {
		t.Fatalf("dsn: want=%q got=%q", want, got)
	}
	cfg.DSN = "postgres://override"
	if got := cfg.dsn(); got != "postgres://override" {
		t.Fatalf("dsn override: got=%q", got)
	}
}
