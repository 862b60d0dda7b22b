// Package tracing records render cycles as OpenTelemetry spans.
//
// Every cycle becomes one span, started when the cycle starts and ended
// when it commits or is abandoned. Each idle callback that advanced the
// cycle is recorded as a span event.
//
// The tracer comes from the global OpenTelemetry tracer provider unless
// WithTracerProvider is used. Configure it in main():
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//	root := fiber.NewRoot(adapter, loop, fiber.WithObserver(tracing.New()))
package tracing

import (
	"context"
	"errors"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/fiber/pkg/fiber"
)

const defaultTracerName = "fiber"

// Config configures the tracing observer.
type Config struct {
	// TracerName is the name of the tracer (default: "fiber").
	TracerName string

	// TracerProvider supplies the tracer. Defaults to the global provider.
	TracerProvider trace.TracerProvider

	// Context is the parent of every cycle span.
	Context context.Context

	// RecordSlices adds a span event per idle callback. Enabled by default.
	RecordSlices bool
}

// Option configures the tracing observer.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithContext sets the parent context of cycle spans.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

// WithSlices enables or disables slice events.
func WithSlices(enabled bool) Option {
	return func(c *Config) {
		c.RecordSlices = enabled
	}
}

func defaultConfig() Config {
	return Config{
		TracerName:   defaultTracerName,
		Context:      context.Background(),
		RecordSlices: true,
	}
}

// Observer is a fiber.Observer producing one span per render cycle.
// Like the Root it observes, it must only be used from one goroutine.
type Observer struct {
	config Config
	tracer trace.Tracer
	spans  map[uint64]trace.Span
}

var _ fiber.Observer = (*Observer)(nil)

// New creates a tracing Observer.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Observer{
		config: config,
		tracer: tp.Tracer(config.TracerName),
		spans:  make(map[uint64]trace.Span),
	}
}

// InFlight returns the number of open cycle spans.
func (o *Observer) InFlight() int { return len(o.spans) }

// CycleStarted implements fiber.Observer.
func (o *Observer) CycleStarted(info fiber.CycleInfo) {
	_, span := o.tracer.Start(o.config.Context, "fiber.cycle "+info.Base,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("fiber.cycle_id", strconv.FormatUint(info.ID, 10)),
			attribute.String("fiber.base", info.Base),
			attribute.Bool("fiber.full", info.Full),
			attribute.Int("fiber.nested", info.Nested),
		),
	)
	o.spans[info.ID] = span
}

// SliceFinished implements fiber.Observer.
func (o *Observer) SliceFinished(info fiber.CycleInfo, s fiber.SliceStats) {
	span, ok := o.spans[info.ID]
	if !ok || !o.config.RecordSlices {
		return
	}
	span.AddEvent("slice", trace.WithAttributes(
		attribute.Int("fiber.units", s.Units),
		attribute.Int64("fiber.elapsed_us", s.Elapsed.Microseconds()),
		attribute.Bool("fiber.remaining", s.Remaining),
	))
}

// CycleCommitted implements fiber.Observer.
func (o *Observer) CycleCommitted(info fiber.CycleInfo, s fiber.CommitStats) {
	span, ok := o.take(info.ID)
	if !ok {
		return
	}
	span.SetAttributes(
		attribute.Int("fiber.units", s.Units),
		attribute.Int("fiber.placements", s.Placements),
		attribute.Int("fiber.updates", s.Updates),
		attribute.Int("fiber.deletions", s.Deletions),
		attribute.Int("fiber.mutations", s.Mutations()),
	)
	span.SetStatus(codes.Ok, "")
	span.End()
}

// CycleAbandoned implements fiber.Observer. Preempted cycles end without
// an error status.
func (o *Observer) CycleAbandoned(info fiber.CycleInfo, err error) {
	span, ok := o.take(info.ID)
	if !ok {
		return
	}
	if errors.Is(err, fiber.ErrPreempted) {
		span.SetAttributes(attribute.Bool("fiber.preempted", true))
	} else if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (o *Observer) take(id uint64) (trace.Span, bool) {
	span, ok := o.spans[id]
	if ok {
		delete(o.spans, id)
	}
	return span, ok
}
