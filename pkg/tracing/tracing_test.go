package tracing

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/host/memhost"
)

type recordingProvider struct {
	noop.TracerProvider
	spans []*recordingSpan
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{p: p}
}

type recordingTracer struct {
	noop.Tracer
	p *recordingProvider
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordingSpan{name: name, attrs: cfg.Attributes()}
	t.p.spans = append(t.p.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordingSpan struct {
	noop.Span
	name   string
	attrs  []attribute.KeyValue
	events []string
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *recordingSpan) AddEvent(name string, _ ...trace.EventOption) {
	s.events = append(s.events, name)
}
func (s *recordingSpan) SetStatus(c codes.Code, _ string) { s.status = c }
func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) {
	s.errs = append(s.errs, err)
}
func (s *recordingSpan) End(...trace.SpanEndOption) { s.ended = true }

func (s *recordingSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func newRoot(t *testing.T, opts ...Option) (*fiber.Root, *memhost.Host, *recordingProvider, *Observer) {
	t.Helper()
	tp := &recordingProvider{}
	obs := New(append([]Option{WithTracerProvider(tp)}, opts...)...)
	h := memhost.New()
	r := fiber.NewRoot(h, memhost.NewScheduler(),
		fiber.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		fiber.WithObserver(obs),
		fiber.WithErrorHandler(func(error) {}),
	)
	return r, h, tp, obs
}

func TestCommittedCycleSpan(t *testing.T) {
	r, h, tp, obs := newRoot(t)
	if err := r.Mount(element.Div(element.H1("A")), h.Container()); err != nil {
		t.Fatal(err)
	}
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}

	if len(tp.spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(tp.spans))
	}
	s := tp.spans[0]
	if s.name != "fiber.cycle #root" {
		t.Errorf("name = %q", s.name)
	}
	if !s.ended || s.status != codes.Ok {
		t.Errorf("ended = %v status = %v", s.ended, s.status)
	}
	if v, ok := s.attr("fiber.mutations"); !ok || v.AsInt64() != 7 {
		t.Errorf("fiber.mutations = %v", v.Emit())
	}
	if v, ok := s.attr("fiber.full"); !ok || !v.AsBool() {
		t.Error("fiber.full not set")
	}
	if len(s.events) != 1 || s.events[0] != "slice" {
		t.Errorf("events = %v", s.events)
	}
	if obs.InFlight() != 0 {
		t.Errorf("InFlight = %d", obs.InFlight())
	}
}

func TestAbandonedCycleSpans(t *testing.T) {
	bad := fiber.Define("Bad", func(*fiber.Ctx, element.Props) *element.Element {
		panic("boom")
	})

	r, h, tp, _ := newRoot(t, WithSlices(false))
	if err := r.Mount(element.Div(element.P("x")), h.Container()); err != nil {
		t.Fatal(err)
	}
	if err := r.Resume(memhost.Expired()()); err != nil {
		t.Fatal(err)
	}
	if err := r.Mount(element.Div(bad.Element()), h.Container()); err != nil {
		t.Fatal(err)
	}
	if err := r.Flush(); err == nil {
		t.Fatal("Flush succeeded")
	}

	if len(tp.spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(tp.spans))
	}
	preempted, failed := tp.spans[0], tp.spans[1]
	if v, ok := preempted.attr("fiber.preempted"); !ok || !v.AsBool() || preempted.status != codes.Unset {
		t.Errorf("preempted span attrs = %v status = %v", preempted.attrs, preempted.status)
	}
	if failed.status != codes.Error || len(failed.errs) != 1 || !failed.ended {
		t.Errorf("failed span status = %v errs = %v", failed.status, failed.errs)
	}
	for _, s := range tp.spans {
		if len(s.events) != 0 {
			t.Errorf("slice events recorded with WithSlices(false): %v", s.events)
		}
	}
}
