package cas

import (
	"context"
	"path/filepath"

	"go.trai.ch/rebund/internal/adapters/sqlcache"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/zerr"
)

// Factory opens the result cache selected by a CacheConfig.
type Factory struct {
	logger ports.Logger
}

// NewFactory creates a Factory.
func NewFactory(logger ports.Logger) *Factory {
	return &Factory{logger: logger}
}

// Open opens the backing store of cfg below root and puts the memory tier in front of it.
func (f *Factory) Open(ctx context.Context, root string, cfg domain.CacheConfig) (ports.CacheStore, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = domain.DefaultCachePath()
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}

	var backing ports.CacheStore
	switch cfg.Backend {
	case "", domain.CacheBackendFS:
		store, err := NewStore(dir, f.logger)
		if err != nil {
			return nil, err
		}
		backing = store
	case domain.CacheBackendSQLite:
		store, err := sqlcache.Open(ctx, dir, f.logger)
		if err != nil {
			return nil, err
		}
		backing = store
	case domain.CacheBackendMemory:
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidCacheBackend, ""), "backend", cfg.Backend)
	}

	tiered, err := NewTiered(cfg.MemoryEntries, backing)
	if err != nil {
		if backing != nil {
			_ = backing.Close()
		}
		return nil, err
	}
	return tiered, nil
}
