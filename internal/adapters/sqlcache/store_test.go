package sqlcache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebund/internal/adapters/sqlcache"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func open(t *testing.T, dir string) *sqlcache.Store {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	store, err := sqlcache.Open(t.Context(), dir, logger)
	require.NoError(t, err)
	return store
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	store := open(t, t.TempDir())
	t.Cleanup(func() { _ = store.Close() })
	ctx := t.Context()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "k1", []byte("first")))
	require.NoError(t, store.Put(ctx, "k1", []byte("second")))

	data, ok, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("first"), data)
}

func TestStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := open(t, dir)
	require.NoError(t, first.Put(t.Context(), domain.Fingerprint("k"), []byte("kept")))
	require.NoError(t, first.Close())

	second := open(t, dir)
	t.Cleanup(func() { _ = second.Close() })
	data, ok, err := second.Get(t.Context(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("kept"), data)
}
