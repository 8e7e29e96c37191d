package linear_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebund/internal/adapters/linear"
	"go.trai.ch/rebund/internal/core/domain"
)

func newRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	return linear.NewRenderer(&stdout, &stderr), &stdout, &stderr
}

func success() domain.BuildEvent {
	return domain.BuildEvent{
		Type:     domain.EventBuildSuccess,
		Sequence: 2,
		Result: &domain.BuildResult{
			Sequence: 2,
			Bundles: []domain.PackagedBundle{
				{Name: "index.js", Type: "js", Contents: []byte(strings.Repeat("x", 2048)), Hash: "h1"},
				{Name: "index.css", Type: "css", Contents: []byte("body{}"), Hash: "h2"},
			},
			Stats: domain.BuildStats{
				Executed:          3,
				Reused:            5,
				BundleGraphReused: true,
				Duration:          42 * time.Millisecond,
			},
		},
	}
}

func failure() domain.BuildEvent {
	return domain.BuildEvent{
		Type:     domain.EventBuildFailure,
		Sequence: 3,
		Diagnostics: []domain.Diagnostic{
			{Kind: "resolution", Message: `cannot resolve "./missing"`, File: "/p/src/index.js", Line: 4},
			{Kind: "internal", Message: "bundler exploded"},
		},
	}
}

func TestRenderer_BuildEvents(t *testing.T) {
	r, stdout, stderr := newRenderer(t)
	require.NoError(t, r.Start(t.Context()))

	r.OnBuildEvent(domain.BuildEvent{Type: domain.EventWatchStart})
	r.OnBuildEvent(domain.BuildEvent{Type: domain.EventBuildStart, Sequence: 2})
	r.OnBuildEvent(success())
	r.OnBuildEvent(domain.BuildEvent{Type: domain.EventBuildStart, Sequence: 3})
	r.OnBuildEvent(failure())
	r.OnBuildEvent(domain.BuildEvent{Type: domain.EventWatchEnd})

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	g := goldie.New(t)
	g.Assert(t, "events_stderr", stderr.Bytes())
	g.Assert(t, "events_stdout", stdout.Bytes())
}

func TestRenderer_Requests(t *testing.T) {
	r, _, stderr := newRenderer(t)
	start := time.Unix(0, 0)

	r.OnRequestStart("s1", "", "transform:/p/a.js", start)
	r.OnRequestComplete("s1", start.Add(10*time.Millisecond), nil)
	assert.Empty(t, stderr.String(), "requests are quiet unless verbose")

	r.SetVerbose(true)
	r.OnRequestStart("s2", "", "transform:/p/a.js", start)
	r.OnRequestStart("s3", "", "resolve:/p/a.js:./b", start)
	r.OnRequestComplete("s3", start.Add(5*time.Millisecond), errors.New(`cannot resolve "./b"`))
	r.OnRequestComplete("s2", start.Add(10*time.Millisecond), nil)

	// Unknown spans are ignored.
	r.OnRequestComplete("nope", start, nil)

	goldie.New(t).Assert(t, "requests_verbose", stderr.Bytes())
}

func TestRenderer_NoColor(t *testing.T) {
	r, _, stderr := newRenderer(t)

	r.OnBuildEvent(success())
	r.OnBuildEvent(failure())

	assert.NotContains(t, stderr.String(), "\x1b[")
}

func TestRenderer_JSON(t *testing.T) {
	r, stdout, stderr := newRenderer(t)
	r.SetJSON(true)

	r.OnBuildEvent(success())
	r.OnBuildEvent(failure())

	assert.Empty(t, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)

	var ok struct {
		Type    string `json:"type"`
		Bundles []struct {
			Name string `json:"name"`
			Size int    `json:"size"`
		} `json:"bundles"`
		Stats struct {
			Executed          int  `json:"executed"`
			BundleGraphReused bool `json:"bundleGraphReused"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ok))
	assert.Equal(t, "buildSuccess", ok.Type)
	require.Len(t, ok.Bundles, 2)
	assert.Equal(t, "index.js", ok.Bundles[0].Name)
	assert.Equal(t, 2048, ok.Bundles[0].Size)
	assert.Equal(t, 3, ok.Stats.Executed)
	assert.True(t, ok.Stats.BundleGraphReused)

	var failed struct {
		Type        string              `json:"type"`
		Sequence    int                 `json:"sequence"`
		Diagnostics []domain.Diagnostic `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failed))
	assert.Equal(t, "buildFailure", failed.Type)
	assert.Equal(t, 3, failed.Sequence)
	assert.Equal(t, failure().Diagnostics, failed.Diagnostics)
}
