// Package linear provides a synchronous, line-based reporter for the build
// event stream.
package linear

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/ui/output"
	"go.trai.ch/rebund/internal/ui/style"
)

var _ ports.Reporter = (*Renderer)(nil)

// Renderer implements ports.Reporter with chronological lines: build
// summaries and diagnostics on stderr, the bundles of a build on stdout.
type Renderer struct {
	stdout  io.Writer
	stderr  io.Writer
	output  *termenv.Output
	verbose bool
	json    bool

	mu       sync.Mutex
	requests map[string]*requestState // spanID -> request state
}

type requestState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer. Nil writers default to the process
// streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:   stdout,
		stderr:   stderr,
		output:   output.New(stderr),
		requests: make(map[string]*requestState),
	}
}

// SetVerbose prints a line for every executed request.
func (r *Renderer) SetVerbose(verbose bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verbose = verbose
}

// SetJSON writes every build event as one JSON object per line on stdout.
func (r *Renderer) SetJSON(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.json = enabled
}

// Start is a no-op for linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop forgets requests that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.requests)
	return nil
}

// Wait is a no-op for linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnBuildEvent prints one element of the build event stream.
func (r *Renderer) OnBuildEvent(ev domain.BuildEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.json {
		r.writeJSONLocked(ev)
		return
	}

	switch ev.Type {
	case domain.EventBuildStart:
		_, _ = fmt.Fprintf(r.stderr, "%s Building #%d\n", r.faint(style.Dot), ev.Sequence)
	case domain.EventBuildSuccess:
		r.printSuccessLocked(ev)
	case domain.EventBuildFailure:
		r.printFailureLocked(ev)
	case domain.EventWatchStart:
		_, _ = fmt.Fprintf(r.stderr, "%s Watching for changes\n", r.faint(style.Circle))
	case domain.EventWatchEnd:
		_, _ = fmt.Fprintf(r.stderr, "%s Stopped watching\n", r.faint(style.Circle))
	}
}

func (r *Renderer) printSuccessLocked(ev domain.BuildEvent) {
	res := ev.Result
	if res == nil {
		return
	}
	symbol := style.Paint(r.output, style.Success, style.Check)
	graph := "recomputed"
	if res.Stats.BundleGraphReused {
		graph = "reused"
	}
	_, _ = fmt.Fprintf(r.stderr, "%s Built #%d in %v: %d bundle(s), %d executed, %d reused, bundle graph %s\n",
		symbol, res.Sequence, res.Stats.Duration.Round(time.Millisecond), len(res.Bundles),
		res.Stats.Executed, res.Stats.Reused, graph)

	for _, b := range res.Bundles {
		_, _ = fmt.Fprintf(r.stdout, "%s\t%s\n", b.Name, humanize.Bytes(uint64(len(b.Contents))))
	}
}

func (r *Renderer) printFailureLocked(ev domain.BuildEvent) {
	symbol := style.Paint(r.output, style.Failure, style.Cross)
	_, _ = fmt.Fprintf(r.stderr, "%s Build #%d failed\n", symbol, ev.Sequence)

	for _, d := range ev.Diagnostics {
		loc := d.File
		if loc != "" && d.Line > 0 {
			loc = fmt.Sprintf("%s:%d", loc, d.Line)
		}
		kind := style.Paint(r.output, style.Failure, d.Kind)
		if loc == "" {
			_, _ = fmt.Fprintf(r.stderr, "  %s %s\n", kind, d.Message)
			continue
		}
		_, _ = fmt.Fprintf(r.stderr, "  %s %s %s\n", kind, r.faint(loc), d.Message)
	}
}

// OnRequestStart records a request start; verbose renderers print it on completion.
func (r *Renderer) OnRequestStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests[spanID] = &requestState{
		name:      name,
		startTime: startTime,
	}
}

// OnRequestComplete prints the outcome of a request in verbose mode.
func (r *Renderer) OnRequestComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[spanID]
	if !ok {
		return
	}
	delete(r.requests, spanID)

	if !r.verbose || r.json {
		return
	}

	duration := endTime.Sub(req.startTime)
	prefix := r.faint(fmt.Sprintf("[%s]", req.name))
	if err != nil {
		symbol := style.Paint(r.output, style.Failure, style.Cross)
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
		return
	}
	symbol := style.Paint(r.output, style.Success, style.Check)
	_, _ = fmt.Fprintf(r.stderr, "%s %s %v\n", prefix, symbol, duration)
}

func (r *Renderer) faint(s string) string {
	return r.output.String(s).Faint().String()
}

// jsonEvent is the wire form of a build event in JSON mode.
type jsonEvent struct {
	Type        string              `json:"type"`
	Sequence    int                 `json:"sequence"`
	Bundles     []jsonBundle        `json:"bundles,omitempty"`
	Stats       *domain.BuildStats  `json:"stats,omitempty"`
	Diagnostics []domain.Diagnostic `json:"diagnostics,omitempty"`
}

type jsonBundle struct {
	Name string             `json:"name"`
	Type string             `json:"type"`
	Size int                `json:"size"`
	Hash domain.Fingerprint `json:"hash"`
}

func (r *Renderer) writeJSONLocked(ev domain.BuildEvent) {
	out := jsonEvent{Type: ev.Type.String(), Sequence: ev.Sequence, Diagnostics: ev.Diagnostics}
	if ev.Result != nil {
		out.Stats = &ev.Result.Stats
		for _, b := range ev.Result.Bundles {
			out.Bundles = append(out.Bundles, jsonBundle{Name: b.Name, Type: b.Type, Size: len(b.Contents), Hash: b.Hash})
		}
	}
	_ = json.NewEncoder(r.stdout).Encode(out)
}
