package ports

import (
	"context"

	"go.trai.ch/rebund/internal/core/domain"
)

// CacheStore is the content-addressed result cache.
// An entry is written once per fingerprint and never mutated.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type CacheStore interface {
	// Get returns the payload stored under key. A miss returns nil, false, nil.
	// Entries failing their integrity check are reported as a miss.
	Get(ctx context.Context, key domain.Fingerprint) ([]byte, bool, error)

	// Put stores data under key. Writing an existing key is a no-op.
	Put(ctx context.Context, key domain.Fingerprint, data []byte) error

	// Close releases the store's resources.
	Close() error
}

// CacheFactory opens the cache store selected by the configuration.
type CacheFactory interface {
	Open(ctx context.Context, root string, cfg domain.CacheConfig) (CacheStore, error)
}
