package logger_test

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/rebund/internal/adapters/logger"
)

func newHandler(t *testing.T, level slog.Level) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}), buf
}

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{name: "info level", level: slog.LevelInfo, msg: "build 1 succeeded", goldenName: "handler_info"},
		{name: "warn level", level: slog.LevelWarn, msg: "cache entry failed integrity check", goldenName: "handler_warn"},
		{name: "error level", level: slog.LevelError, msg: "build failed", goldenName: "handler_error"},
		{name: "debug level filtered", level: slog.LevelDebug, msg: "invalidated 3 requests", goldenName: "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newHandler(t, slog.LevelInfo)
			slog.New(handler).Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Debug(t *testing.T) {
	handler, buf := newHandler(t, slog.LevelDebug)
	slog.New(handler).Debug("invalidated 3 requests")

	g := goldie.New(t)
	g.Assert(t, "handler_debug", buf.Bytes())
}

func TestPrettyHandler_Attrs(t *testing.T) {
	handler, buf := newHandler(t, slog.LevelInfo)
	lg := slog.New(handler.WithAttrs([]slog.Attr{slog.Int("build", 2)})).WithGroup("request")

	lg.Info("executed", "kind", "transform", "cached", false)

	assert.Equal(t, "executed build=2 request.kind=transform request.cached=false\n", buf.String())
}

func TestPrettyHandler_NestedGroups(t *testing.T) {
	handler, buf := newHandler(t, slog.LevelInfo)
	lg := slog.New(handler).WithGroup("build").WithGroup("stats")

	lg.Info("done", "took", 1234567*time.Microsecond, slog.Group("bundles", "count", 2), slog.Group("empty"))

	assert.Equal(t, "done build.stats.took=1.235s build.stats.bundles.count=2\n", buf.String())
}

func TestPrettyHandler_SharedWriter(t *testing.T) {
	handler, buf := newHandler(t, slog.LevelInfo)
	base := slog.New(handler)
	derived := base.With("request", "transform")

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() { base.Info("a") })
		wg.Go(func() { derived.Info("b") })
	}
	wg.Wait()

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Contains(t, []string{"a", "b request=transform"}, line)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	levels := []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}
	for _, handlerLevel := range levels {
		handler, _ := newHandler(t, handlerLevel)
		for _, recordLevel := range levels {
			assert.Equal(t, recordLevel >= handlerLevel, handler.Enabled(t.Context(), recordLevel),
				"handler %s record %s", handlerLevel, recordLevel)
		}
	}
}

func TestPrettyHandler_FollowsLevelVar(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var level slog.LevelVar
	handler := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: &level})

	assert.False(t, handler.Enabled(t.Context(), slog.LevelDebug))
	level.Set(slog.LevelDebug)
	assert.True(t, handler.Enabled(t.Context(), slog.LevelDebug))
}
