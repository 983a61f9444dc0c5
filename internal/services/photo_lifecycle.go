package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
	"github.com/yungbote/onboarding-backend/internal/observability"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
	"github.com/yungbote/onboarding-backend/internal/platform/objectstore"
)

type PhotoLifecycle interface {
	// DeletePhoto removes the stored object behind a product photo. Deleting
	// a photo that is already gone succeeds.
	DeletePhoto(ctx context.Context, sessionID, productID, photoID string) error
}

type photoLifecycle struct {
	log     *logger.Logger
	store   objectstore.Store
	metrics *observability.Metrics
}

func NewPhotoLifecycle(baseLog *logger.Logger, store objectstore.Store, metrics *observability.Metrics) PhotoLifecycle {
	return &photoLifecycle{
		log:     baseLog.With("service", "PhotoLifecycle"),
		store:   store,
		metrics: metrics,
	}
}

// PhotoKey is the object key prefix of a product photo. Stored objects may
// carry an extension after it.
func PhotoKey(sessionID, productID, photoID string) string {
	return fmt.Sprintf("onboarding/%s/products/%s/photos/%s", sessionID, productID, photoID)
}

func (p *photoLifecycle) DeletePhoto(ctx context.Context, sessionID, productID, photoID string) error {
	sid, err := onboarding.ParseID("sessionId", sessionID)
	if err != nil {
		return err
	}
	pid, err := onboarding.ParseID("productId", productID)
	if err != nil {
		return err
	}
	phid, err := onboarding.ParseID("photoId", photoID)
	if err != nil {
		return err
	}

	key := PhotoKey(sid.String(), pid.String(), phid.String())
	n, err := p.store.DeletePrefix(ctx, key)
	switch {
	case errors.Is(err, objectstore.ErrNotFound):
		p.metrics.IncPhotoDelete(p.store.Name(), "absent")
		p.log.Debug("Photo already absent", "session_id", sid.String(), "key", key)
		return nil
	case err != nil:
		p.metrics.IncPhotoDelete(p.store.Name(), "error")
		p.log.Error("Photo delete failed", "session_id", sid.String(), "key", key, "backend", p.store.Name(), "error", err)
		return &onboarding.StoreError{Op: "delete photo", Err: err}
	}
	p.metrics.IncPhotoDelete(p.store.Name(), "deleted")
	p.log.Info("Photo deleted", "session_id", sid.String(), "key", key, "objects", n)
	return nil
}
