package watcher

import (
	"sync"
	"time"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

// Debouncer coalesces rapid file system events into change batches.
type Debouncer struct {
	mu       sync.Mutex
	pending  []domain.ChangeEvent
	timer    *time.Timer
	window   time.Duration
	callback func(batch []domain.ChangeEvent)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(batch []domain.ChangeEvent)) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
	}
}

// Add records an event and restarts the window.
func (d *Debouncer) Add(event ports.WatchEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = append(d.pending, changeEvent(event))

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()
	batch := d.take()
	d.timer = nil
	d.mu.Unlock()

	if len(batch) > 0 && d.callback != nil {
		go d.callback(batch)
	}
}

// Flush immediately hands the pending events to the callback and blocks
// until it returns.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired, let it complete rather than processing twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	batch := d.take()
	d.mu.Unlock()

	if len(batch) > 0 && d.callback != nil {
		d.callback(batch)
	}
}

// take coalesces and clears the pending events. Callers hold mu.
func (d *Debouncer) take() []domain.ChangeEvent {
	batch := domain.CoalesceEvents(d.pending)
	d.pending = nil
	return batch
}

// changeEvent maps a watch operation to a change kind. A rename reports the
// old path, which no longer exists.
func changeEvent(event ports.WatchEvent) domain.ChangeEvent {
	switch event.Operation {
	case ports.OpCreate:
		return domain.Created(event.Path)
	case ports.OpRemove, ports.OpRename:
		return domain.Deleted(event.Path)
	default:
		return domain.Updated(event.Path)
	}
}
