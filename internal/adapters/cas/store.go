// Package cas implements the content-addressed result cache: a disk or sqlite
// backing store behind an in-memory LRU tier.
package cas

import (
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/zerr"
)

// checksumSize is the length of the xxhash header of every entry.
const checksumSize = 8

// Store keeps one file per fingerprint below a directory. Each file holds the
// xxhash of the payload followed by the payload.
type Store struct {
	dir    string
	logger ports.Logger
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, logger ports.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "dir", dir)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Get returns the payload stored under key. Corrupt entries are removed and
// reported as a miss.
func (s *Store) Get(_ context.Context, key domain.Fingerprint) ([]byte, bool, error) {
	filename := s.getFilename(key)
	//nolint:gosec // Path is constructed from the store directory and a fingerprint
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", string(key))
	}

	payload, err := Unseal(data)
	if err != nil {
		s.logger.Warn(zerr.With(err, "key", string(key)).Error())
		_ = os.Remove(filename)
		return nil, false, nil
	}
	return payload, true, nil
}

// Put stores data under key. Existing entries are left untouched.
func (s *Store) Put(_ context.Context, key domain.Fingerprint, data []byte) error {
	filename := s.getFilename(key)
	if _, err := os.Stat(filename); err == nil {
		return nil
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(Seal(data)); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", string(key))
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func (s *Store) getFilename(key domain.Fingerprint) string {
	name := string(key)
	shard := "00"
	if len(name) >= 2 {
		shard = name[:2]
	}
	return filepath.Join(s.dir, shard, name)
}

// Seal prefixes data with its checksum.
func Seal(data []byte) []byte {
	out := make([]byte, checksumSize, checksumSize+len(data))
	binary.BigEndian.PutUint64(out, xxhash.Sum64(data))
	return append(out, data...)
}

// Unseal verifies and strips the checksum written by Seal.
func Unseal(data []byte) ([]byte, error) {
	if len(data) < checksumSize {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheCorruption, ""), "size", len(data))
	}
	sum, payload := binary.BigEndian.Uint64(data[:checksumSize]), data[checksumSize:]
	if xxhash.Sum64(payload) != sum {
		return nil, domain.ErrCacheCorruption
	}
	return payload, nil
}
