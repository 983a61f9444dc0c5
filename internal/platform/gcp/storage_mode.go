package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type StorageMode string

const (
	StorageModeGCS         StorageMode = "gcs"
	StorageModeGCSEmulator StorageMode = "gcs_emulator"
)

// BucketConfig describes the photo bucket. Mode may be left empty, in which
// case it is derived from EmulatorHost.
type BucketConfig struct {
	Bucket          string
	Mode            StorageMode
	EmulatorHost    string
	CredentialsJSON string
	CredentialsFile string
	// set by Resolve when Mode was inferred from EmulatorHost
	inferred bool
}

type ConfigErrorCode string

const (
	ConfigErrorMissingBucket       ConfigErrorCode = "missing_bucket"
	ConfigErrorInvalidMode         ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingEmulatorHost ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidEmulatorHost ConfigErrorCode = "invalid_emulator_host"
)

type ConfigError struct {
	Code         ConfigErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid photo bucket config"
	}
	switch e.Code {
	case ConfigErrorMissingBucket:
		return "photo bucket name is required for the gcs backend"
	case ConfigErrorInvalidMode:
		return fmt.Sprintf("invalid gcs storage mode %q (allowed: %q, %q)", e.Mode, StorageModeGCS, StorageModeGCSEmulator)
	case ConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("storage mode %q requires an emulator host", StorageModeGCSEmulator)
	case ConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf("invalid emulator host %q; expected absolute URL like http://fake-gcs:4443", e.EmulatorHost)
	default:
		return "invalid photo bucket config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Resolve normalizes the config and validates it.
func (cfg BucketConfig) Resolve() (BucketConfig, error) {
	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	cfg.EmulatorHost = strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	cfg.Mode = StorageMode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))
	if cfg.Mode == "" {
		cfg.Mode = StorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = StorageModeGCSEmulator
			cfg.inferred = true
		}
	}
	return cfg, cfg.Validate()
}

func (cfg BucketConfig) Validate() error {
	if cfg.Bucket == "" {
		return &ConfigError{Code: ConfigErrorMissingBucket}
	}
	switch cfg.Mode {
	case StorageModeGCS:
		return nil
	case StorageModeGCSEmulator:
	default:
		return &ConfigError{Code: ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
	if cfg.EmulatorHost == "" {
		return &ConfigError{Code: ConfigErrorMissingEmulatorHost, Mode: string(cfg.Mode)}
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return &ConfigError{
			Code:         ConfigErrorInvalidEmulatorHost,
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Cause:        err,
		}
	}
	return nil
}

func (cfg BucketConfig) IsEmulator() bool { return cfg.Mode == StorageModeGCSEmulator }

func (cfg BucketConfig) ModeSource() string {
	if cfg.inferred {
		return "emulator_host"
	}
	return "explicit_or_default"
}
