// Package sqlcache implements the result cache on a single sqlite file.
package sqlcache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/zerr"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `CREATE TABLE IF NOT EXISTS results (
	key      TEXT PRIMARY KEY,
	checksum INTEGER NOT NULL,
	data     BLOB NOT NULL
)`

// Store is a sqlite backed result cache.
type Store struct {
	db     *sql.DB
	logger ports.Logger
}

// Open opens or creates the database in dir.
func Open(ctx context.Context, dir string, logger ports.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "dir", dir)
	}
	path := filepath.Join(dir, domain.CacheDBName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", path)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode = WAL", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", path)
		}
	}
	return &Store{db: db, logger: logger}, nil
}

// Get returns the payload stored under key. Rows failing their checksum are
// deleted and reported as a miss.
func (s *Store) Get(ctx context.Context, key domain.Fingerprint) ([]byte, bool, error) {
	var (
		sum  int64
		data []byte
	)
	err := s.db.QueryRowContext(ctx, "SELECT checksum, data FROM results WHERE key = ?", string(key)).Scan(&sum, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", string(key))
	}

	//nolint:gosec // the checksum is stored as its two's complement
	if uint64(sum) != xxhash.Sum64(data) {
		s.logger.Warn(zerr.With(zerr.Wrap(domain.ErrCacheCorruption, ""), "key", string(key)).Error())
		_, _ = s.db.ExecContext(ctx, "DELETE FROM results WHERE key = ?", string(key))
		return nil, false, nil
	}
	return data, true, nil
}

// Put stores data under key. Existing rows are kept.
func (s *Store) Put(ctx context.Context, key domain.Fingerprint, data []byte) error {
	//nolint:gosec // see Get
	sum := int64(xxhash.Sum64(data))
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO results (key, checksum, data) VALUES (?, ?, ?) ON CONFLICT (key) DO NOTHING",
		string(key), sum, data)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", string(key))
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
