package watcher_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rebund/internal/adapters/fs"
	"go.trai.ch/rebund/internal/adapters/watcher"
	"go.trai.ch/rebund/internal/core/domain"
)

func TestContentFilter(t *testing.T) {
	mem := fs.NewMemory(map[string]string{
		"/p/a.js": "a",
		"/p/b.js": "b",
	})
	f := watcher.NewContentFilter(mem)
	f.Prime(slices.Values([]string{"/p/a.js", "/p/b.js"}))

	// Touch without a content change.
	assert.Empty(t, f.Filter([]domain.ChangeEvent{domain.Updated("/p/a.js")}))

	mem.Set("/p/a.js", "a2")
	assert.Equal(t, []domain.ChangeEvent{domain.Updated("/p/a.js")},
		f.Filter([]domain.ChangeEvent{domain.Updated("/p/a.js")}))

	// Same content again after the update.
	assert.Empty(t, f.Filter([]domain.ChangeEvent{domain.Updated("/p/a.js")}))

	mem.Set("/p/c.js", "c")
	assert.Equal(t, []domain.ChangeEvent{domain.Created("/p/c.js")},
		f.Filter([]domain.ChangeEvent{domain.Created("/p/c.js")}))

	mem.Remove("/p/b.js")
	assert.Equal(t, []domain.ChangeEvent{domain.Deleted("/p/b.js")},
		f.Filter([]domain.ChangeEvent{domain.Deleted("/p/b.js")}))

	// Recreated with the old content counts as new, since it was forgotten.
	mem.Set("/p/b.js", "b")
	assert.Equal(t, []domain.ChangeEvent{domain.Created("/p/b.js")},
		f.Filter([]domain.ChangeEvent{domain.Created("/p/b.js")}))
}

func TestContentFilter_AtomicSave(t *testing.T) {
	mem := fs.NewMemory(map[string]string{"/p/a.js": "a"})
	f := watcher.NewContentFilter(mem)
	f.Prime(slices.Values([]string{"/p/a.js"}))

	// Editors replace the file by rename; the path still exists.
	assert.Empty(t, f.Filter([]domain.ChangeEvent{domain.Deleted("/p/a.js")}))

	mem.Set("/p/a.js", "changed")
	assert.Equal(t, []domain.ChangeEvent{domain.Updated("/p/a.js")},
		f.Filter([]domain.ChangeEvent{domain.Deleted("/p/a.js")}))
}

func TestContentFilter_UnreadableCreate(t *testing.T) {
	f := watcher.NewContentFilter(fs.NewMemory(nil))

	assert.Equal(t, []domain.ChangeEvent{domain.Created("/p/gone.js")},
		f.Filter([]domain.ChangeEvent{domain.Created("/p/gone.js")}))
}
