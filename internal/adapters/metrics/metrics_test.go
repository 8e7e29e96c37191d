package metrics_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebund/internal/adapters/metrics"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

func TestMetrics_Requests(t *testing.T) {
	m := metrics.New()

	m.ObserveRequest(domain.KindTransform, ports.OutcomeExecuted, 2*time.Millisecond)
	m.ObserveRequest(domain.KindTransform, ports.OutcomeExecuted, 3*time.Millisecond)
	m.ObserveRequest(domain.KindTransform, ports.OutcomeReused, 0)
	m.ObserveRequest(domain.KindResolve, ports.OutcomeCached, 0)

	expected := `
# HELP rebund_request_total Settled requests by kind and outcome.
# TYPE rebund_request_total counter
rebund_request_total{kind="resolve",outcome="cached"} 1
rebund_request_total{kind="transform",outcome="executed"} 2
rebund_request_total{kind="transform",outcome="reused"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "rebund_request_total"))

	// Only executions are timed.
	n, err := testutil.GatherAndCount(m.Registry(), "rebund_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_Invalidations(t *testing.T) {
	m := metrics.New()

	m.AddInvalidations(domain.TriggerFileUpdated, 2)
	m.AddInvalidations(domain.TriggerFileUpdated, 1)
	m.AddInvalidations(domain.TriggerEnvChanged, 1)
	m.AddInvalidations(domain.TriggerOptionChanged, 0)

	expected := `
# HELP rebund_invalidations_total Nodes invalidated directly by a trigger, by trigger kind.
# TYPE rebund_invalidations_total counter
rebund_invalidations_total{trigger="env_changed"} 1
rebund_invalidations_total{trigger="file_updated"} 3
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "rebund_invalidations_total"))
}

func TestMetrics_BundlerAndBuilds(t *testing.T) {
	m := metrics.New()

	m.IncBundlerInvocations("bundler")
	m.IncBundlerInvocations("bundler")
	m.ObserveBuild(true, time.Second)
	m.ObserveBuild(false, time.Second)

	expected := `
# HELP rebund_bundler_invocations_total Calls of the bundler plugin.
# TYPE rebund_bundler_invocations_total counter
rebund_bundler_invocations_total{bundler="bundler"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "rebund_bundler_invocations_total"))
	n, err := testutil.GatherAndCount(m.Registry(), "rebund_build_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMetrics_Dump(t *testing.T) {
	m := metrics.New()
	m.IncBundlerInvocations("bundler")

	var buf bytes.Buffer
	require.NoError(t, m.Dump(&buf))

	assert.Contains(t, buf.String(), `rebund_bundler_invocations_total{bundler="bundler"} 1`)
	assert.Contains(t, buf.String(), "# TYPE rebund_bundler_invocations_total counter")
}
