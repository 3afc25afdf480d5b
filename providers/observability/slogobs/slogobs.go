// Package slogobs implements the observability seam on top of log/slog.
// Spans become paired start/end debug lines, metrics are kept in an
// in-process store and logged as they change, and log calls map directly to
// slog levels. It is the default observer for applications that want
// visibility without an external telemetry stack.
package slogobs

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/forgekit/forge/providers/observability"
)

// Observer implements observability.Provider using log/slog.
type Observer struct {
	logger  *slog.Logger
	metrics *metricsStore
}

// Option configures an Observer.
type Option func(*config)

type config struct {
	logger *slog.Logger
	level  slog.Level
}

// WithLogger uses an existing slog.Logger instead of constructing one.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithLevel sets the minimum level for the default text handler. Ignored when
// WithLogger is used.
func WithLevel(level slog.Level) Option {
	return func(cfg *config) {
		cfg.level = level
	}
}

// New creates a slog-backed observer. Without options it logs to stderr at
// Info level with a plain text handler.
func New(opts ...Option) *Observer {
	cfg := config{level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.level}))
	}

	return &Observer{
		logger:  logger,
		metrics: &metricsStore{counters: map[string]*counter{}, histograms: map[string]*histogram{}},
	}
}

// StartSpan implements observability.Tracer. The span logs its start
// immediately and its outcome and duration on End.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	o.log(ctx, slog.LevelDebug, "span start: "+name, attrs)
	span := &logSpan{observer: o, name: name, start: time.Now()}
	return observability.ContextWithSpan(ctx, span), span
}

// Counter implements observability.Metrics.
func (o *Observer) Counter(name string) observability.Counter {
	return o.metrics.counter(name, o)
}

// Histogram implements observability.Metrics.
func (o *Observer) Histogram(name string) observability.Histogram {
	return o.metrics.histogram(name, o)
}

// Debug implements observability.Logger.
func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelDebug, msg, attrs)
}

// Info implements observability.Logger.
func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelInfo, msg, attrs)
}

// Warn implements observability.Logger.
func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelWarn, msg, attrs)
}

// Error implements observability.Logger.
func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelError, msg, attrs)
}

func (o *Observer) log(ctx context.Context, level slog.Level, msg string, attrs []observability.Attribute) {
	if ctx == nil {
		ctx = context.Background()
	}
	args := make([]any, 0, len(attrs)*2)
	for _, attr := range attrs {
		args = append(args, attr.Key, attr.Value)
	}
	o.logger.Log(ctx, level, msg, args...)
}

// logSpan is a Span that reports through the observer's logger.
type logSpan struct {
	observer *Observer
	name     string
	start    time.Time

	mu     sync.Mutex
	status observability.StatusCode
	desc   string
	attrs  []observability.Attribute
}

func (s *logSpan) End() {
	s.mu.Lock()
	attrs := append([]observability.Attribute{
		observability.Duration("duration", time.Since(s.start)),
	}, s.attrs...)
	status := s.status
	desc := s.desc
	s.mu.Unlock()

	level := slog.LevelDebug
	msg := "span end: " + s.name
	if status == observability.StatusError {
		level = slog.LevelWarn
		if desc != "" {
			attrs = append(attrs, observability.String("status", desc))
		}
	}
	s.observer.log(context.Background(), level, msg, attrs)
}

func (s *logSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	s.attrs = append(s.attrs, attrs...)
	s.mu.Unlock()
}

func (s *logSpan) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	s.status = code
	s.desc = description
	s.mu.Unlock()
}

func (s *logSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.attrs = append(s.attrs, observability.Error(err))
	s.status = observability.StatusError
	s.mu.Unlock()
}

func (s *logSpan) AddEvent(name string, attrs ...observability.Attribute) {
	eventAttrs := append([]observability.Attribute{observability.String("span", s.name)}, attrs...)
	s.observer.log(context.Background(), slog.LevelDebug, name, eventAttrs)
}

// metricsStore keeps counters and histograms keyed by name.
type metricsStore struct {
	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

func (m *metricsStore) counter(name string, o *Observer) *counter {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counters[name]
	if !ok {
		c = &counter{name: name, observer: o}
		m.counters[name] = c
	}
	return c
}

func (m *metricsStore) histogram(name string, o *Observer) *histogram {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.histograms[name]
	if !ok {
		h = &histogram{name: name, observer: o}
		m.histograms[name] = h
	}
	return h
}

type counter struct {
	name     string
	observer *Observer

	mu    sync.Mutex
	total int64
}

func (c *counter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.total += value
	total := c.total
	c.mu.Unlock()

	attrs = append(attrs, observability.Int64("total", total))
	c.observer.log(ctx, slog.LevelDebug, "counter "+c.name, attrs)
}

// Value returns the current counter total. Exposed for tests.
func (c *counter) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

type histogram struct {
	name     string
	observer *Observer

	mu    sync.Mutex
	count int64
	sum   float64
}

func (h *histogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.mu.Lock()
	h.count++
	h.sum += value
	h.mu.Unlock()

	attrs = append(attrs, observability.Attribute{Key: "value", Value: value})
	h.observer.log(ctx, slog.LevelDebug, "histogram "+h.name, attrs)
}
