package slogobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/forgekit/forge/providers/observability"
)

func newBufferedObserver() (*Observer, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(WithLogger(logger)), &buf
}

func TestLoggerLevels(t *testing.T) {
	obs, buf := newBufferedObserver()
	ctx := context.Background()

	obs.Debug(ctx, "debug message", observability.String("k", "v"))
	obs.Info(ctx, "info message")
	obs.Warn(ctx, "warn message")
	obs.Error(ctx, "error message", observability.Error(errors.New("boom")))

	out := buf.String()
	for _, want := range []string{"debug message", "info message", "warn message", "error message", "k=v", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestSpanLifecycle(t *testing.T) {
	obs, buf := newBufferedObserver()

	ctx, span := obs.StartSpan(context.Background(), "generate")
	if observability.SpanFromContext(ctx) != span {
		t.Error("expected span to be attached to context")
	}

	span.AddEvent("http.request.prepared", observability.Int("size", 42))
	span.RecordError(errors.New("transport down"))
	span.End()

	out := buf.String()
	for _, want := range []string{"span start: generate", "http.request.prepared", "span end: generate", "transport down"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestCounterAccumulates(t *testing.T) {
	obs, _ := newBufferedObserver()
	ctx := context.Background()

	obs.Counter("forge.retries").Add(ctx, 1)
	obs.Counter("forge.retries").Add(ctx, 2)

	c, ok := obs.Counter("forge.retries").(*counter)
	if !ok {
		t.Fatal("expected *counter")
	}
	if c.Value() != 3 {
		t.Errorf("expected counter total 3, got %d", c.Value())
	}
}

func TestNoopObserverIsSilent(t *testing.T) {
	// The noop provider must not panic anywhere.
	noop := observability.Noop()
	ctx, span := noop.StartSpan(context.Background(), "x")
	span.AddEvent("e")
	span.RecordError(errors.New("ignored"))
	span.End()
	noop.Counter("c").Add(ctx, 1)
	noop.Histogram("h").Record(ctx, 1.0)
	noop.Debug(ctx, "quiet")
}
