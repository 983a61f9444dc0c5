package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/onboarding-backend/internal/platform/envutil"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"session_ttl"`
}

type PhotoStorageConfig struct {
	Backend string `yaml:"backend"`

	// gcs
	ObjectStorageMode   string `yaml:"object_storage_mode"`
	StorageEmulatorHost string `yaml:"storage_emulator_host"`
	GCSBucket           string `yaml:"gcs_bucket"`
	GCSCredentialsFile  string `yaml:"gcs_credentials_file"`

	// s3
	S3Bucket          string `yaml:"s3_bucket"`
	S3Region          string `yaml:"s3_region"`
	S3Endpoint        string `yaml:"s3_endpoint"`
	S3AccessKeyID     string `yaml:"s3_access_key_id"`
	S3SecretAccessKey string `yaml:"-"`

	// local
	LocalRoot string `yaml:"local_root"`
}

type OtelSettings struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Environment string  `yaml:"environment"`
	Version     string  `yaml:"version"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type Config struct {
	Port               string   `yaml:"port"`
	LogMode            string   `yaml:"log_mode"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	SessionStoreBackend string         `yaml:"session_store_backend"`
	Postgres            PostgresConfig `yaml:"postgres"`
	SQLitePath          string         `yaml:"sqlite_path"`
	Redis               RedisConfig    `yaml:"redis"`

	Photos PhotoStorageConfig `yaml:"photos"`

	MetricsEnabled bool         `yaml:"metrics_enabled"`
	MetricsAddr    string       `yaml:"metrics_addr"`
	Otel           OtelSettings `yaml:"otel"`
}

func defaultConfig() Config {
	return Config{
		Port:                "8080",
		LogMode:             "development",
		SessionStoreBackend: "postgres",
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Name:            "onboarding",
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		SQLitePath: "onboarding.db",
		Redis:      RedisConfig{Addr: "localhost:6379"},
		Photos: PhotoStorageConfig{
			Backend:   "local",
			S3Region:  "us-east-1",
			LocalRoot: "./data/photos",
		},
		MetricsAddr: ":9090",
		Otel: OtelSettings{
			ServiceName: "onboarding-api",
			Environment: "development",
			SampleRatio: 0.1,
		},
	}
}

// LoadConfig layers CONFIG_FILE (if set) over the defaults, then the
// environment over both.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path, ok := envutil.Lookup("CONFIG_FILE"); ok {
		if err := loadConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.CORSAllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)

	cfg.SessionStoreBackend = strings.ToLower(envutil.String("SESSION_STORE_BACKEND", cfg.SessionStoreBackend))
	pg := &cfg.Postgres
	pg.DSN = envutil.String("POSTGRES_DSN", pg.DSN)
	pg.Host = envutil.String("POSTGRES_HOST", pg.Host)
	pg.Port = envutil.String("POSTGRES_PORT", pg.Port)
	pg.User = envutil.String("POSTGRES_USER", pg.User)
	pg.Password = envutil.String("POSTGRES_PASSWORD", pg.Password)
	pg.Name = envutil.String("POSTGRES_NAME", pg.Name)
	pg.SSLMode = envutil.String("POSTGRES_SSLMODE", pg.SSLMode)
	pg.MaxOpenConns = envutil.Int("POSTGRES_MAX_OPEN_CONNS", pg.MaxOpenConns)
	pg.MaxIdleConns = envutil.Int("POSTGRES_MAX_IDLE_CONNS", pg.MaxIdleConns)
	pg.ConnMaxLifetime = envutil.Duration("POSTGRES_CONN_MAX_LIFETIME", pg.ConnMaxLifetime)
	cfg.SQLitePath = envutil.String("SQLITE_PATH", cfg.SQLitePath)
	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.TTL = envutil.Duration("REDIS_SESSION_TTL", cfg.Redis.TTL)

	ph := &cfg.Photos
	ph.Backend = strings.ToLower(envutil.String("PHOTO_STORAGE_BACKEND", ph.Backend))
	ph.ObjectStorageMode = envutil.String("OBJECT_STORAGE_MODE", ph.ObjectStorageMode)
	ph.StorageEmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", ph.StorageEmulatorHost)
	ph.GCSBucket = envutil.String("PHOTO_GCS_BUCKET_NAME", ph.GCSBucket)
	ph.GCSCredentialsFile = envutil.String("GOOGLE_APPLICATION_CREDENTIALS", ph.GCSCredentialsFile)
	ph.S3Bucket = envutil.String("PHOTO_S3_BUCKET", ph.S3Bucket)
	ph.S3Region = envutil.String("PHOTO_S3_REGION", ph.S3Region)
	ph.S3Endpoint = envutil.String("PHOTO_S3_ENDPOINT", ph.S3Endpoint)
	ph.S3AccessKeyID = envutil.String("PHOTO_S3_ACCESS_KEY_ID", ph.S3AccessKeyID)
	ph.S3SecretAccessKey = envutil.String("PHOTO_S3_SECRET_ACCESS_KEY", ph.S3SecretAccessKey)
	ph.LocalRoot = envutil.String("PHOTO_LOCAL_ROOT", ph.LocalRoot)

	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.MetricsAddr = envutil.String("METRICS_ADDR", cfg.MetricsAddr)
	o := &cfg.Otel
	o.Enabled = envutil.Bool("OTEL_ENABLED", o.Enabled)
	o.ServiceName = envutil.String("OTEL_SERVICE_NAME", o.ServiceName)
	o.Environment = envutil.String("OTEL_ENVIRONMENT", o.Environment)
	o.Version = envutil.String("OTEL_SERVICE_VERSION", o.Version)
	o.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", o.Endpoint)
	o.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", o.Headers)
	o.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", o.Insecure)
	if v, ok := envutil.Lookup("OTEL_TRACES_SAMPLER_ARG"); ok {
		if ratio, err := strconv.ParseFloat(v, 64); err == nil {
			o.SampleRatio = ratio
		}
	}
}

func (c Config) validate() error {
	switch c.SessionStoreBackend {
	case "postgres", "sqlite", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_STORE_BACKEND %q (allowed: postgres, sqlite, redis)", c.SessionStoreBackend)
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT is required")
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
