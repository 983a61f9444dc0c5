package objectstore

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when nothing exists under the requested key or
// prefix. Backends translate their own not-found errors into it.
var ErrNotFound = errors.New("object not found")

// Store is the slice of object storage the service needs: removal of every
// object under a key prefix, and a reachability probe.
type Store interface {
	// DeletePrefix removes all objects whose key starts with prefix and
	// returns how many were removed. It returns ErrNotFound when none matched.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Ping(ctx context.Context) error
	Name() string
}

type Backend string

const (
	BackendGCS   Backend = "gcs"
	BackendS3    Backend = "s3"
	BackendLocal Backend = "local"
)

func ParseBackend(raw string) (Backend, bool) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(raw))); b {
	case BackendGCS, BackendS3, BackendLocal:
		return b, true
	default:
		return "", false
	}
}
