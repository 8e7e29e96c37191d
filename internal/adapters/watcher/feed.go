package watcher

import (
	"context"
	"time"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

const batchBuffer = 16

// Feed turns the raw events of a watcher into debounced, content-filtered
// change batches.
type Feed struct {
	watcher ports.Watcher
	filter  *ContentFilter
	window  time.Duration
}

// NewFeed creates a feed. A nil filter forwards every batch.
func NewFeed(w ports.Watcher, filter *ContentFilter, window time.Duration) *Feed {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Feed{watcher: w, filter: filter, window: window}
}

// Run starts watching root and returns the change batches. The channel is
// never closed; cancel ctx to stop the feed.
func (f *Feed) Run(ctx context.Context, root string) (<-chan []domain.ChangeEvent, error) {
	if err := f.watcher.Start(ctx, root); err != nil {
		return nil, err
	}

	out := make(chan []domain.ChangeEvent, batchBuffer)
	deb := NewDebouncer(f.window, func(batch []domain.ChangeEvent) {
		if f.filter != nil {
			batch = f.filter.Filter(batch)
		}
		if len(batch) == 0 {
			return
		}
		select {
		case out <- batch:
		case <-ctx.Done():
		}
	})

	go func() {
		for event := range f.watcher.Events() {
			deb.Add(event)
		}
		deb.Flush()
	}()
	go func() {
		<-ctx.Done()
		_ = f.watcher.Stop()
	}()

	return out, nil
}
