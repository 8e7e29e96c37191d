package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebund/internal/adapters/watcher"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

type batches struct {
	mu  sync.Mutex
	got [][]domain.ChangeEvent
}

func (b *batches) add(batch []domain.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, batch)
}

func (b *batches) all() [][]domain.ChangeEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.got
}

func write(path string) ports.WatchEvent { return ports.WatchEvent{Path: path, Operation: ports.OpWrite} }
func create(path string) ports.WatchEvent { return ports.WatchEvent{Path: path, Operation: ports.OpCreate} }
func remove(path string) ports.WatchEvent { return ports.WatchEvent{Path: path, Operation: ports.OpRemove} }

func TestDebouncer_SingleEvent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Add(write("/project/src/index.js"))

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, b.all(), 1)
		assert.Equal(t, []domain.ChangeEvent{domain.Updated("/project/src/index.js")}, b.all()[0])
	})
}

func TestDebouncer_CoalescesWithinWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Add(create("/project/src/b.js"))
		time.Sleep(50 * time.Millisecond)
		d.Add(write("/project/src/b.js"))
		d.Add(write("/project/src/a.js"))
		time.Sleep(50 * time.Millisecond)
		d.Add(remove("/project/src/c.js"))

		// The window restarts with every event.
		time.Sleep(90 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, b.all())

		time.Sleep(20 * time.Millisecond)
		synctest.Wait()

		require.Len(t, b.all(), 1)
		assert.Equal(t, []domain.ChangeEvent{
			domain.Updated("/project/src/a.js"),
			domain.Created("/project/src/b.js"),
			domain.Deleted("/project/src/c.js"),
		}, b.all()[0])
	})
}

func TestDebouncer_RenameReportsDeletion(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(10*time.Millisecond, b.add)

		d.Add(ports.WatchEvent{Path: "/project/old.js", Operation: ports.OpRename})
		d.Add(create("/project/new.js"))

		time.Sleep(20 * time.Millisecond)
		synctest.Wait()

		require.Len(t, b.all(), 1)
		assert.Equal(t, []domain.ChangeEvent{
			domain.Created("/project/new.js"),
			domain.Deleted("/project/old.js"),
		}, b.all()[0])
	})
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(50*time.Millisecond, b.add)

		d.Add(write("/project/a.js"))
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		d.Add(write("/project/b.js"))
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		assert.Len(t, b.all(), 2)
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(time.Hour, b.add)

		d.Add(write("/project/a.js"))
		d.Flush()

		require.Len(t, b.all(), 1)

		// Nothing left for the timer.
		d.Flush()
		assert.Len(t, b.all(), 1)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add(write("/project/a.js"))
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
		d.Flush()
	})
}
