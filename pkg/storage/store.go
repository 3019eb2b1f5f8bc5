package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/school-portal-api/pkg/config"
)

// ErrObjectNotFound is returned when a stored object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Object describes a stored upload.
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int
}

// ObjectStore persists uploaded files under string keys.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*Object, error)
	Delete(ctx context.Context, key string) error
	URL(key string) (string, error)
}

// New builds the object store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		return NewS3Store(ctx, cfg)
	case config.StorageDriverLocal, "":
		signer := NewSignedURLSigner(cfg.SignedURLSecret, cfg.SignedURLTTL)
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL, signer)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
