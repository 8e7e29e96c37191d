package ports

import (
	"time"

	"go.trai.ch/rebund/internal/core/domain"
)

// Request outcomes used as metric labels.
const (
	OutcomeExecuted = "executed"
	OutcomeReused   = "reused"
	OutcomeCached   = "cached"
	OutcomeErrored  = "errored"
)

// Metrics records engine counters.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveRequest records one settled request.
	ObserveRequest(kind domain.RequestKind, outcome string, d time.Duration)
	// AddInvalidations records n nodes invalidated directly by a trigger kind.
	AddInvalidations(trigger domain.TriggerKind, n int)
	// IncBundlerInvocations records one call of the named bundler.
	IncBundlerInvocations(bundler string)
	// ObserveBuild records one finished build.
	ObserveBuild(success bool, d time.Duration)
}
