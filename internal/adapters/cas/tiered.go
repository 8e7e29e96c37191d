package cas

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Tiered serves results from memory and falls back to a backing store.
// Concurrent misses on the same key share one backing read.
type Tiered struct {
	memory  *lru.Cache[domain.Fingerprint, []byte]
	backing ports.CacheStore
	group   singleflight.Group
}

type loaded struct {
	data []byte
	ok   bool
}

// NewTiered creates a Tiered store holding up to entries results in memory.
// A nil backing store keeps results in memory only.
func NewTiered(entries int, backing ports.CacheStore) (*Tiered, error) {
	if entries <= 0 {
		entries = domain.DefaultMemoryEntries
	}
	memory, err := lru.New[domain.Fingerprint, []byte](entries)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}
	return &Tiered{memory: memory, backing: backing}, nil
}

// Get returns the payload stored under key.
func (t *Tiered) Get(ctx context.Context, key domain.Fingerprint) ([]byte, bool, error) {
	if data, ok := t.memory.Get(key); ok {
		return data, true, nil
	}
	if t.backing == nil {
		return nil, false, nil
	}

	v, err, _ := t.group.Do(string(key), func() (any, error) {
		// another caller may have filled the tier while we waited
		if data, ok := t.memory.Get(key); ok {
			return loaded{data: data, ok: true}, nil
		}
		data, ok, err := t.backing.Get(ctx, key)
		if err != nil || !ok {
			return loaded{}, err
		}
		t.memory.Add(key, data)
		return loaded{data: data, ok: true}, nil
	})
	if err != nil {
		return nil, false, err
	}
	l, _ := v.(loaded)
	return l.data, l.ok, nil
}

// Put stores data in memory and in the backing store.
func (t *Tiered) Put(ctx context.Context, key domain.Fingerprint, data []byte) error {
	if t.memory.Contains(key) {
		return nil
	}
	t.memory.Add(key, data)
	if t.backing == nil {
		return nil
	}
	return t.backing.Put(ctx, key, data)
}

// Close closes the backing store.
func (t *Tiered) Close() error {
	t.memory.Purge()
	if t.backing == nil {
		return nil
	}
	return t.backing.Close()
}
