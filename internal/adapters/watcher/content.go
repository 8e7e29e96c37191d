package watcher

import (
	"iter"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

// ContentFilter drops events that leave a file's content unchanged, such as
// editors touching a file on save or an atomic save replacing it with
// identical bytes.
type ContentFilter struct {
	mu     sync.Mutex
	fs     ports.FileSystem
	hashes map[string]uint64
}

// NewContentFilter creates a filter reading files through fsys.
func NewContentFilter(fsys ports.FileSystem) *ContentFilter {
	return &ContentFilter{fs: fsys, hashes: make(map[string]uint64)}
}

// Prime records the current content of paths.
func (f *ContentFilter) Prime(paths iter.Seq[string]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for path := range paths {
		if data, err := f.fs.ReadFile(path); err == nil {
			f.hashes[path] = xxhash.Sum64(data)
		}
	}
}

// Filter returns the events of batch that change content. A deletion of a
// file that exists again is checked like an update.
func (f *ContentFilter) Filter(batch []domain.ChangeEvent) []domain.ChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.ChangeEvent, 0, len(batch))
	for _, ev := range batch {
		if ev.Kind == domain.ChangeDeleted && !f.fs.IsFile(ev.Path) {
			delete(f.hashes, ev.Path)
			out = append(out, ev)
			continue
		}

		data, err := f.fs.ReadFile(ev.Path)
		if err != nil {
			// directories and files that vanished again
			if ev.Kind != domain.ChangeDeleted {
				out = append(out, ev)
			}
			continue
		}
		sum := xxhash.Sum64(data)
		prev, known := f.hashes[ev.Path]
		f.hashes[ev.Path] = sum
		if known && prev == sum {
			continue
		}
		if ev.Kind == domain.ChangeDeleted {
			ev.Kind = domain.ChangeUpdated
		}
		out = append(out, ev)
	}
	return out
}
