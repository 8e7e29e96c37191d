package domain

import "strings"

// Span attributes recorded on builds and request executions.
const (
	AttrRequestKind   = "rebund.request.kind"
	AttrRequestID     = "rebund.request.id"
	AttrRequestCached = "rebund.request.cached"
	AttrBuildSequence = "rebund.build.sequence"
)

// RequestStatus is the lifecycle state of a request execution as shown by reporters.
type RequestStatus string

const (
	// RequestStatusPending indicates the request is waiting for a lane.
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusRunning indicates the request body is executing.
	RequestStatusRunning RequestStatus = "running"
	// RequestStatusCompleted indicates the request body succeeded.
	RequestStatusCompleted RequestStatus = "completed"
	// RequestStatusFailed indicates the request body returned an error.
	RequestStatusFailed RequestStatus = "failed"
	// RequestStatusCached indicates the result was served from the result cache.
	RequestStatusCached RequestStatus = "cached"
)

// IsTerminal checks if a status is a terminal state.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusCompleted, RequestStatusFailed, RequestStatusCached:
		return true
	default:
		return false
	}
}

// NormalizeRequestStatus converts a string to a RequestStatus, defaulting to pending if unknown.
func NormalizeRequestStatus(s string) RequestStatus {
	switch st := RequestStatus(strings.ToLower(s)); st {
	case RequestStatusRunning, RequestStatusCompleted, RequestStatusFailed, RequestStatusCached:
		return st
	default:
		return RequestStatusPending
	}
}
