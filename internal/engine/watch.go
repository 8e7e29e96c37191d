package engine

import (
	"context"

	"go.trai.ch/rebund/internal/core/domain"
)

// Watch builds once and then once more after every batch received on
// batches, until ctx is done or batches is closed. Batches arriving during a
// build are merged into the next one. Failed builds do not end the loop.
func (e *Engine) Watch(ctx context.Context, batches <-chan []domain.ChangeEvent) error {
	e.emit(domain.BuildEvent{Type: domain.EventWatchStart})
	defer e.emit(domain.BuildEvent{Type: domain.EventWatchEnd})

	wake := make(chan struct{}, 1)
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			select {
			case <-ctx.Done():
				return
			case events, ok := <-batches:
				if !ok {
					return
				}
				e.Notify(events...)
				select {
				case wake <- struct{}{}:
				default:
				}
			}
		}
	}()

	e.rebuild(ctx)
	for {
		select {
		case <-ctx.Done():
			<-closed
			return nil
		case <-wake:
			e.rebuild(ctx)
		case <-closed:
			select {
			case <-wake:
				e.rebuild(ctx)
			default:
			}
			return nil
		}
	}
}

func (e *Engine) rebuild(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := e.Build(ctx); err != nil {
		e.logger.Debug("build failed, waiting for changes")
	}
}
