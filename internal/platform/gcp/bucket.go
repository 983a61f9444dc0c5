package gcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yungbote/onboarding-backend/internal/platform/logger"
	"github.com/yungbote/onboarding-backend/internal/platform/objectstore"
)

// PhotoBucket removes uploaded product photos from a GCS bucket.
type PhotoBucket struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

var _ objectstore.Store = (*PhotoBucket)(nil)

func NewPhotoBucket(ctx context.Context, log *logger.Logger, cfg BucketConfig) (*PhotoBucket, error) {
	cfg, err := cfg.Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve photo bucket config: %w", err)
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	b := &PhotoBucket{
		log:    log.With("service", "PhotoBucket"),
		client: client,
		bucket: cfg.Bucket,
	}
	b.log.Info(
		"Photo bucket initialized",
		"mode", cfg.Mode,
		"mode_source", cfg.ModeSource(),
		"emulator_host", cfg.EmulatorHost,
		"bucket", cfg.Bucket,
	)
	return b, nil
}

func newStorageClient(ctx context.Context, cfg BucketConfig) (*storage.Client, error) {
	if cfg.IsEmulator() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(cfg.clientOptions(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (b *PhotoBucket) Name() string { return string(objectstore.BackendGCS) }

func (b *PhotoBucket) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := b.client.Bucket(b.bucket).Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrBucketNotExist) {
			return fmt.Errorf("bucket %q does not exist", b.bucket)
		}
		return err
	}
	return nil
}

func (b *PhotoBucket) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	keys, err := b.listKeys(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, objectstore.ErrNotFound
	}
	deleted := 0
	for _, k := range keys {
		err := b.client.Bucket(b.bucket).Object(k).Delete(ctx)
		if errors.Is(err, storage.ErrObjectNotExist) {
			// removed concurrently
			continue
		}
		if err != nil {
			return deleted, fmt.Errorf("delete GCS object %q in bucket %q: %w", k, b.bucket, err)
		}
		deleted++
	}
	if deleted == 0 {
		return 0, objectstore.ErrNotFound
	}
	b.log.Debug("Deleted photo objects", "prefix", prefix, "count", deleted)
	return deleted, nil
}

func (b *PhotoBucket) listKeys(ctx context.Context, prefix string) ([]string, error) {
	it := b.client.Bucket(b.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	var out []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list GCS objects under %q: %w", prefix, err)
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

func (b *PhotoBucket) Close() error { return b.client.Close() }
