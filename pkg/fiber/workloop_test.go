package fiber

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/host/memhost"
)

// sixUnits expands into root, div, h1, text, p, text.
func sixUnits() *element.Element {
	return element.Div(element.H1("A"), element.P("b"))
}

func TestStarvationGuard(t *testing.T) {
	rec := &recorder{}
	r, h, s := newTestRoot(t, WithObserver(rec))
	if err := r.Mount(sixUnits(), h.Container()); err != nil {
		t.Fatal(err)
	}

	steps := s.RunUntil(func() bool { return !r.Pending() }, memhost.Expired(), 100)

	if steps != 6 {
		t.Errorf("steps = %d, want 6", steps)
	}
	for i, u := range sliceUnits(rec.slices) {
		if u != 1 {
			t.Errorf("slice %d ran %d units, want 1", i, u)
		}
	}
	if len(rec.commits) != 1 {
		t.Fatalf("commits = %d, want 1", len(rec.commits))
	}
	if got := h.Container().InnerHTML(); got != "<div><h1>A</h1><p>b</p></div>" {
		t.Errorf("html = %q", got)
	}
}

func TestSliceBudget(t *testing.T) {
	tests := []struct {
		name     string
		deadline func() host.Deadline
		want     []int
	}{
		{"expired", memhost.Expired(), []int{1, 1, 1, 1, 1, 1}},
		{"two checks", memhost.Budget(2), []int{3, 3}},
		{"unlimited", func() host.Deadline { return host.Unlimited }, []int{6}},
		{"at threshold", fixed(time.Millisecond), []int{1, 1, 1, 1, 1, 1}},
		{"above threshold", fixed(2 * time.Millisecond), []int{6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r, h, s := newTestRoot(t, WithObserver(rec))
			if err := r.Mount(sixUnits(), h.Container()); err != nil {
				t.Fatal(err)
			}
			s.RunUntil(func() bool { return !r.Pending() }, tt.deadline, 100)

			got := sliceUnits(rec.slices)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("slices = %v, want %v", got, tt.want)
			}
		})
	}
}

func fixed(d time.Duration) func() host.Deadline {
	return func() host.Deadline {
		return host.DeadlineFunc(func() time.Duration { return d })
	}
}

func TestIdleCallbackRerequested(t *testing.T) {
	r, h, s := newTestRoot(t)
	if s.Pending() != 0 {
		t.Fatal("idle callback requested before Mount")
	}
	if err := r.Mount(sixUnits(), h.Container()); err != nil {
		t.Fatal(err)
	}
	if s.Pending() != 1 {
		t.Fatalf("pending callbacks = %d, want 1", s.Pending())
	}

	s.Step(host.Unlimited)
	if r.Pending() {
		t.Fatal("cycle not committed with an unlimited deadline")
	}
	// Idle roots keep polling, with one request outstanding.
	for i := 0; i < 3; i++ {
		if s.Pending() != 1 {
			t.Fatalf("pending callbacks = %d, want 1", s.Pending())
		}
		s.Step(host.Unlimited)
	}

	// Direct Resume calls do not stack requests.
	_ = r.Resume(host.Unlimited)
	_ = r.Resume(host.Unlimited)
	if s.Pending() != 1 {
		t.Errorf("pending callbacks = %d, want 1", s.Pending())
	}
}

func TestAbandonedCycleLeavesHostUntouched(t *testing.T) {
	rec := &recorder{}
	r, h, _ := newTestRoot(t, WithObserver(rec))
	mount(t, r, h, element.Div(counter.Element(), counter.Element()))
	buttons := h.Container().FindAll("button")
	h.ResetOps()

	click(t, buttons[0])
	if err := r.Resume(memhost.Expired()()); err != nil {
		t.Fatal(err)
	}
	if !r.Pending() {
		t.Fatal("cycle finished in one unit")
	}
	if len(h.Ops()) != 0 {
		t.Fatalf("in-flight cycle mutated the host:\n%s", h.Log())
	}

	click(t, buttons[1])
	flush(t, r)

	if len(rec.abandoned) != 1 || !errors.Is(rec.abandoned[0], ErrPreempted) {
		t.Errorf("abandoned = %v, want one ErrPreempted", rec.abandoned)
	}
	if got := buttons[0].TextContent() + "," + buttons[1].TextContent(); got != "1,1" {
		t.Errorf("counters = %s, want 1,1", got)
	}
	want := "set text#3 nodeValue=\"1\"\nset text#5 nodeValue=\"1\"\n"
	if got := h.Log(); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
	// The widened cycle re-rendered their common parent.
	if got := rec.events[len(rec.events)-2]; got != "start 4 div" {
		t.Errorf("event = %q, want start 4 div", got)
	}
}

func TestPreemptionKeepsNarrowerCycle(t *testing.T) {
	var setOuter func(func(int) int)
	outer := Define("Outer", func(ctx *Ctx, props element.Props) *element.Element {
		n, set := UseState(ctx, 0)
		setOuter = set
		return element.Div(element.Textf("outer %d", n), counter.Element())
	})

	r, h, _ := newTestRoot(t)
	mount(t, r, h, outer.Element())
	button := h.Container().Find("button")

	setOuter(func(n int) int { return n + 1 })
	if err := r.Resume(memhost.Expired()()); err != nil {
		t.Fatal(err)
	}
	click(t, button)
	flush(t, r)

	if got := h.Container().InnerHTML(); got != "<div>outer 1<button>1</button></div>" {
		t.Errorf("html = %q", got)
	}
}

func TestRemountPreemptsStateUpdate(t *testing.T) {
	r, h, _ := newTestRoot(t)
	mount(t, r, h, element.Div(element.H1("old"), counter.Element()))

	click(t, h.Container().Find("button"))
	if err := r.Resume(memhost.Expired()()); err != nil {
		t.Fatal(err)
	}
	if err := r.Mount(element.Div(element.H1("new"), counter.Element()), h.Container()); err != nil {
		t.Fatal(err)
	}
	flush(t, r)

	if got := h.Container().InnerHTML(); got != "<div><h1>new</h1><button>1</button></div>" {
		t.Errorf("html = %q", got)
	}
}

func TestStateUpdatePreemptsRemount(t *testing.T) {
	r, h, _ := newTestRoot(t)
	mount(t, r, h, element.Div(element.H1("old"), counter.Element()))
	button := h.Container().Find("button")

	if err := r.Mount(element.Div(element.H1("new"), counter.Element()), h.Container()); err != nil {
		t.Fatal(err)
	}
	if err := r.Resume(memhost.Expired()()); err != nil {
		t.Fatal(err)
	}
	click(t, button)
	flush(t, r)

	if got := h.Container().InnerHTML(); got != "<div><h1>new</h1><button>1</button></div>" {
		t.Errorf("html = %q", got)
	}
}

func TestForceRerenderDuringFirstMount(t *testing.T) {
	r, h, _ := newTestRoot(t)
	if err := r.ForceRerender(); !errors.Is(err, ErrNotMounted) {
		t.Fatalf("ForceRerender = %v, want ErrNotMounted", err)
	}
	if err := r.Mount(sixUnits(), h.Container()); err != nil {
		t.Fatal(err)
	}
	if err := r.Resume(memhost.Expired()()); err != nil {
		t.Fatal(err)
	}
	if err := r.ForceRerender(); err != nil {
		t.Fatalf("ForceRerender = %v", err)
	}
	flush(t, r)

	if got := h.Container().InnerHTML(); got != "<div><h1>A</h1><p>b</p></div>" {
		t.Errorf("html = %q", got)
	}
}

func TestMountErrors(t *testing.T) {
	r, h, _ := newTestRoot(t)
	if err := r.Mount(nil, h.Container()); !errors.Is(err, ErrNilElement) {
		t.Errorf("Mount(nil) = %v, want ErrNilElement", err)
	}
	if err := r.Mount(element.Div(), nil); !errors.Is(err, ErrNoHostParent) {
		t.Errorf("Mount(el, nil) = %v, want ErrNoHostParent", err)
	}
	if r.Pending() || len(h.Ops()) != 0 {
		t.Errorf("rejected mount left work behind:\n%s", h.Log())
	}
	mount(t, r, h, element.Div())

	other := memhost.New()
	if err := r.Mount(element.Div(), other.Container()); !errors.Is(err, ErrContainerChanged) {
		t.Errorf("Mount(other) = %v, want ErrContainerChanged", err)
	}
}

func TestRenderPanic(t *testing.T) {
	cause := errors.New("kaboom")
	tests := []struct {
		name  string
		value any
	}{
		{"string", "boom"},
		{"error", cause},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := Define("Bad", func(*Ctx, element.Props) *element.Element {
				panic(tt.value)
			})
			r, h, _ := newTestRoot(t)
			if err := r.Mount(element.Div(bad.Element()), h.Container()); err != nil {
				t.Fatal(err)
			}
			err := r.Flush()
			if !errors.Is(err, ErrRenderPanic) {
				t.Fatalf("Flush = %v, want ErrRenderPanic", err)
			}
			if !strings.Contains(err.Error(), "Bad") {
				t.Errorf("error %q does not name the component", err)
			}
			if cause, ok := tt.value.(error); ok && !errors.Is(err, cause) {
				t.Errorf("error %v does not wrap %v", err, cause)
			}
			if len(h.Ops()) != 0 {
				t.Errorf("host mutated:\n%s", h.Log())
			}
		})
	}
}

func TestErrorsInIdleCallback(t *testing.T) {
	bad := Define("Bad", func(*Ctx, element.Props) *element.Element {
		panic("boom")
	})
	var got []error
	rec := &recorder{}
	r, h, s := newTestRoot(t, WithErrorHandler(func(err error) { got = append(got, err) }), WithObserver(rec))
	if err := r.Mount(element.Div(bad.Element()), h.Container()); err != nil {
		t.Fatal(err)
	}

	s.Step(host.Unlimited)

	if len(got) != 1 || !errors.Is(got[0], ErrRenderPanic) {
		t.Errorf("errors = %v", got)
	}
	if len(rec.abandoned) != 1 || !errors.Is(rec.abandoned[0], ErrRenderPanic) {
		t.Errorf("abandoned = %v", rec.abandoned)
	}
	if r.Pending() {
		t.Error("failed cycle still pending")
	}
	if s.Pending() != 1 {
		t.Error("failed callback did not re-request")
	}
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r, h, _ := newTestRoot(t, WithLogger(logger))
	mount(t, r, h, sixUnits())

	out := buf.String()
	for _, want := range []string{"component=fiber", "msg=mount", "msg=\"render unit\"", "msg=\"cycle committed\"", "mutations=12"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s:\n%s", want, out)
		}
	}
}

func TestIndependentRoots(t *testing.T) {
	r1, h1, _ := newTestRoot(t)
	r2, h2, _ := newTestRoot(t)
	mount(t, r1, h1, element.Div(counter.Element()))
	mount(t, r2, h2, element.Div(counter.Element()))

	click(t, h1.Container().Find("button"))
	if r2.Pending() {
		t.Error("update leaked into another root")
	}
	flush(t, r1)
	if h1.Container().TextContent() != "1" || h2.Container().TextContent() != "0" {
		t.Errorf("texts = %q %q", h1.Container().TextContent(), h2.Container().TextContent())
	}
}
