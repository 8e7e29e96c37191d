package engine

import (
	"errors"

	"go.trai.ch/rebund/internal/core/domain"
)

// Diagnostic kinds that do not come from a request failure.
const (
	DiagnosticCycle    = "cycle"
	DiagnosticInternal = "internal"
)

// Diagnostics turns a build error into diagnostics. Each request failure is
// reported once, attributed to the request that produced it.
func Diagnostics(err error) []domain.Diagnostic {
	if err == nil {
		return nil
	}
	var out []domain.Diagnostic
	seen := make(map[string]struct{})
	collect(err, domain.NewRequestID(domain.KindBuild, ""), &out, seen)

	if len(out) == 0 {
		kind := DiagnosticInternal
		if errors.Is(err, domain.ErrCycleDetected) {
			kind = DiagnosticCycle
		}
		out = append(out, domain.Diagnostic{Kind: kind, Message: err.Error()})
	}
	return out
}

func collect(err error, req domain.RequestID, out *[]domain.Diagnostic, seen map[string]struct{}) {
	switch e := err.(type) {
	case nil:
		return
	case *domain.RequestFailure:
		key := e.Error()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		*out = append(*out, e.Diagnostic(req))
		return
	case *domain.DependencyError:
		collect(e.Err, e.Dependency, out, seen)
		return
	}

	var dep *domain.DependencyError
	if errors.Is(err, domain.ErrCycleDetected) && !errors.As(err, &dep) && len(domain.CollectFailures(err)) == 0 {
		addCycle(err, req, out, seen)
		return
	}

	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			collect(inner, req, out, seen)
		}
	case interface{ Unwrap() error }:
		collect(e.Unwrap(), req, out, seen)
	}
}

func addCycle(err error, req domain.RequestID, out *[]domain.Diagnostic, seen map[string]struct{}) {
	key := err.Error()
	if _, dup := seen[key]; dup {
		return
	}
	seen[key] = struct{}{}
	*out = append(*out, domain.Diagnostic{Kind: DiagnosticCycle, Message: key, Request: req})
}
