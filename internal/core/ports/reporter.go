package ports

import (
	"context"
	"time"

	"go.trai.ch/rebund/internal/core/domain"
)

// Reporter presents the build event stream.
// Request spans are forwarded by the telemetry bridge.
//
//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Stop flushes buffered output.
	Stop() error

	// Wait blocks until the reporter has terminated.
	Wait() error

	// OnBuildEvent is called for every element of the build event stream.
	OnBuildEvent(ev domain.BuildEvent)

	// OnRequestStart is called when a request body starts executing.
	OnRequestStart(spanID, parentID, name string, startTime time.Time)

	// OnRequestComplete is called when a request body finishes.
	OnRequestComplete(spanID string, endTime time.Time, err error)
}
