package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/onboarding-backend/internal/platform/gcp"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
	"github.com/yungbote/onboarding-backend/internal/platform/objectstore"
	"github.com/yungbote/onboarding-backend/internal/platform/s3store"
)

var (
	newPhotoBucket = func(ctx context.Context, log *logger.Logger, cfg gcp.BucketConfig) (objectstore.Store, error) {
		return gcp.NewPhotoBucket(ctx, log, cfg)
	}
	newS3Store = func(ctx context.Context, log *logger.Logger, cfg s3store.Config) (objectstore.Store, error) {
		return s3store.New(ctx, log, cfg)
	}
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidBackend      StorageProviderBootstrapErrorCode = "invalid_backend"
	StorageProviderBootstrapErrorMissingBucket       StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code    StorageProviderBootstrapErrorCode
	Backend string
	Mode    string
	Cause   error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "photo storage bootstrap failed"
	}
	return fmt.Sprintf(
		"photo storage bootstrap failed (code=%s backend=%q mode=%q): %v",
		e.Code,
		e.Backend,
		e.Mode,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolvePhotoStore builds the object store selected by PHOTO_STORAGE_BACKEND.
func resolvePhotoStore(ctx context.Context, log *logger.Logger, cfg PhotoStorageConfig) (objectstore.Store, error) {
	backend, ok := objectstore.ParseBackend(cfg.Backend)
	if !ok {
		err := &StorageProviderBootstrapError{
			Code:    StorageProviderBootstrapErrorInvalidBackend,
			Backend: cfg.Backend,
			Cause:   fmt.Errorf("unsupported photo storage backend %q", cfg.Backend),
		}
		log.Error("Photo storage provider selection failed", "backend", cfg.Backend, "error_code", err.Code, "error", err)
		return nil, err
	}

	log.Info(
		"Selecting photo storage provider",
		"backend", backend,
		"mode", cfg.ObjectStorageMode,
		"emulator_host", cfg.StorageEmulatorHost,
	)

	var (
		store objectstore.Store
		err   error
	)
	switch backend {
	case objectstore.BackendGCS:
		store, err = newPhotoBucket(ctx, log, gcp.BucketConfig{
			Bucket:          cfg.GCSBucket,
			Mode:            gcp.StorageMode(cfg.ObjectStorageMode),
			EmulatorHost:    cfg.StorageEmulatorHost,
			CredentialsFile: cfg.GCSCredentialsFile,
		})
	case objectstore.BackendS3:
		store, err = newS3Store(ctx, log, s3store.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	case objectstore.BackendLocal:
		store, err = objectstore.NewLocalStore(cfg.LocalRoot)
	}
	if err != nil {
		classified := classifyStorageProviderBootstrapError(cfg, err)
		log.Error(
			"Photo storage provider bootstrap failed",
			"backend", backend,
			"mode", cfg.ObjectStorageMode,
			"emulator_host", cfg.StorageEmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return store, nil
}

func classifyStorageProviderBootstrapError(cfg PhotoStorageConfig, err error) error {
	out := &StorageProviderBootstrapError{
		Code:    StorageProviderBootstrapErrorConnectFailed,
		Backend: cfg.Backend,
		Mode:    cfg.ObjectStorageMode,
		Cause:   err,
	}
	var cfgErr *gcp.ConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case gcp.ConfigErrorMissingBucket:
			out.Code = StorageProviderBootstrapErrorMissingBucket
		case gcp.ConfigErrorInvalidMode:
			out.Code = StorageProviderBootstrapErrorInvalidMode
		case gcp.ConfigErrorMissingEmulatorHost:
			out.Code = StorageProviderBootstrapErrorMissingEmulatorHost
		case gcp.ConfigErrorInvalidEmulatorHost:
			out.Code = StorageProviderBootstrapErrorInvalidEmulatorHost
		}
	}
	return out
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
