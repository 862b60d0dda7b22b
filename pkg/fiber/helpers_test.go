package fiber

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/host/memhost"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRoot(t *testing.T, opts ...Option) (*Root, *memhost.Host, *memhost.Scheduler) {
	t.Helper()
	h := memhost.New()
	s := memhost.NewScheduler()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewRoot(h, s, opts...), h, s
}

func mount(t *testing.T, r *Root, h *memhost.Host, el *element.Element) {
	t.Helper()
	if err := r.Mount(el, h.Container()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	flush(t, r)
}

func flush(t *testing.T, r *Root) {
	t.Helper()
	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}

func click(t *testing.T, n *memhost.Node) {
	t.Helper()
	if n == nil {
		t.Fatal("click on missing node")
	}
	if !n.Dispatch(element.Event{Type: element.EventClick}) {
		t.Fatalf("%s has no click listener", n.Label())
	}
}

// appendOnly hides the host's InsertBefore.
type appendOnly struct {
	host.Adapter
}

var counter = Define("Counter", func(ctx *Ctx, props element.Props) *element.Element {
	count, setCount := UseState(ctx, element.Value(props, "start", 0))
	return element.Button(
		element.OnClick(func() { setCount(func(n int) int { return n + 1 }) }),
		element.Textf("%d", count),
	)
})

// recorder is an Observer keeping a readable event log.
type recorder struct {
	events    []string
	slices    []SliceStats
	commits   []CommitStats
	abandoned []error
}

func (r *recorder) CycleStarted(info CycleInfo) {
	r.events = append(r.events, fmt.Sprintf("start %d %s", info.ID, info.Base))
}

func (r *recorder) SliceFinished(info CycleInfo, s SliceStats) {
	r.slices = append(r.slices, s)
}

func (r *recorder) CycleCommitted(info CycleInfo, s CommitStats) {
	r.events = append(r.events, fmt.Sprintf("commit %d", info.ID))
	r.commits = append(r.commits, s)
}

func (r *recorder) CycleAbandoned(info CycleInfo, err error) {
	r.events = append(r.events, fmt.Sprintf("abandon %d", info.ID))
	r.abandoned = append(r.abandoned, err)
}

func sliceUnits(s []SliceStats) []int {
	out := make([]int, len(s))
	for i, st := range s {
		out[i] = st.Units
	}
	return out
}
