package domain

import "strconv"

// RequestFailure is the error of a failed request body. It carries the
// fields reported as a diagnostic and matches its Kind with errors.Is.
type RequestFailure struct {
	// Kind is one of ErrResolutionFailure, ErrTransformFailure, ErrBundlerFailure, ...
	Kind error
	File string
	Line int
	Err  error
}

// NewFailure builds a RequestFailure.
func NewFailure(kind error, file string, line int, cause error) *RequestFailure {
	return &RequestFailure{Kind: kind, File: file, Line: line, Err: cause}
}

func (f *RequestFailure) Error() string {
	msg := f.Kind.Error()
	if f.File != "" {
		msg += ": " + f.File
		if f.Line > 0 {
			msg += ":" + strconv.Itoa(f.Line)
		}
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the cause.
func (f *RequestFailure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Err}
}

// Diagnostic converts the failure for the build event stream.
func (f *RequestFailure) Diagnostic(req RequestID) Diagnostic {
	msg := f.Kind.Error()
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return Diagnostic{
		Kind:    f.Kind.Error(),
		Message: msg,
		File:    f.File,
		Line:    f.Line,
		Request: req,
	}
}

// DependencyError is returned to a request whose dependency is errored.
type DependencyError struct {
	Dependency RequestID
	Err        error
}

func (e *DependencyError) Error() string {
	return ErrDependencyFailed.Error() + ": " + e.Dependency.String() + ": " + e.Err.Error()
}

// Unwrap exposes ErrDependencyFailed and the dependency's error.
func (e *DependencyError) Unwrap() []error {
	return []error{ErrDependencyFailed, e.Err}
}

// CollectFailures walks an error tree and returns every RequestFailure it holds,
// in depth-first order, skipping duplicates.
func CollectFailures(err error) []*RequestFailure {
	var out []*RequestFailure
	seen := make(map[string]struct{})

	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if failure, ok := e.(*RequestFailure); ok {
			key := failure.Error()
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				out = append(out, failure)
			}
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
