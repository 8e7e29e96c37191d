package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

// ChangeKind is the kind of a file-system change.
type ChangeKind uint8

const (
	// ChangeCreated reports a new file.
	ChangeCreated ChangeKind = iota + 1
	// ChangeUpdated reports modified content.
	ChangeUpdated
	// ChangeDeleted reports a removed file.
	ChangeDeleted
)

// String returns the lower-case name of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ChangeEvent is a single file-system notification.
type ChangeEvent struct {
	Path string
	Kind ChangeKind
}

// Created returns a creation event for path.
func Created(path string) ChangeEvent { return ChangeEvent{Path: path, Kind: ChangeCreated} }

// Updated returns an update event for path.
func Updated(path string) ChangeEvent { return ChangeEvent{Path: path, Kind: ChangeUpdated} }

// Deleted returns a deletion event for path.
func Deleted(path string) ChangeEvent { return ChangeEvent{Path: path, Kind: ChangeDeleted} }

// CoalesceEvents collapses events per path. The last kind wins, except that an update
// following a creation in the same batch keeps the creation, since creation already
// implies new content. The result is sorted by path.
func CoalesceEvents(events []ChangeEvent) []ChangeEvent {
	if len(events) == 0 {
		return nil
	}

	latest := make(map[string]ChangeKind, len(events))
	for _, ev := range events {
		path := filepath.Clean(ev.Path)
		prev, seen := latest[path]
		if seen && prev == ChangeCreated && ev.Kind == ChangeUpdated {
			continue
		}
		latest[path] = ev.Kind
	}

	out := make([]ChangeEvent, 0, len(latest))
	for path, kind := range latest {
		out = append(out, ChangeEvent{Path: path, Kind: kind})
	}
	slices.SortFunc(out, func(a, b ChangeEvent) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out
}

// ChangeBatch is everything the invalidation engine consumes for one build.
type ChangeBatch struct {
	Events []ChangeEvent
	// EnvKeys lists environment variables whose value differs from the previous build.
	EnvKeys []string
	// OptionPaths lists configuration slices whose fingerprint differs from the previous build.
	OptionPaths []string
	// Startup fires every Always subscription.
	Startup bool
}

// IsEmpty reports whether the batch can invalidate anything.
func (b ChangeBatch) IsEmpty() bool {
	return len(b.Events) == 0 && len(b.EnvKeys) == 0 && len(b.OptionPaths) == 0 && !b.Startup
}

// Merge appends other into b and coalesces the file events.
func (b ChangeBatch) Merge(other ChangeBatch) ChangeBatch {
	events := make([]ChangeEvent, 0, len(b.Events)+len(other.Events))
	events = append(events, b.Events...)
	events = append(events, other.Events...)
	return ChangeBatch{
		Events:      CoalesceEvents(events),
		EnvKeys:     mergeSorted(b.EnvKeys, other.EnvKeys),
		OptionPaths: mergeSorted(b.OptionPaths, other.OptionPaths),
		Startup:     b.Startup || other.Startup,
	}
}

func mergeSorted(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}
