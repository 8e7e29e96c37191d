package cas_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebund/internal/adapters/cas"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	store, err := cas.NewStore(t.TempDir(), logger)
	require.NoError(t, err)

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, store.Put(t.Context(), "abcdef", []byte("payload")))

		got, ok, err := store.Get(t.Context(), "abcdef")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("payload"), got)
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		got, ok, err := store.Get(t.Context(), "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("write once", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, store.Put(t.Context(), "once", []byte("first")))
		require.NoError(t, store.Put(t.Context(), "once", []byte("second")))

		got, _, err := store.Get(t.Context(), "once")
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), got)
	})
}

func TestStore_CorruptEntryIsAMiss(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(1)

	store, err := cas.NewStore(dir, logger)
	require.NoError(t, err)
	require.NoError(t, store.Put(t.Context(), "c0ffee", []byte("payload")))

	path := filepath.Join(dir, "c0", "c0ffee")
	data, err := os.ReadFile(path) //nolint:gosec // test fixture
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	//nolint:gosec // test fixture
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, ok, err := store.Get(t.Context(), "c0ffee")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoFileExists(t, path)
}

func TestUnseal(t *testing.T) {
	t.Parallel()

	payload, err := cas.Unseal(cas.Seal([]byte("x")))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), payload)

	_, err = cas.Unseal([]byte("short"))
	require.ErrorIs(t, err, domain.ErrCacheCorruption)
}
