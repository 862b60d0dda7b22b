package fiber

import (
	"log/slog"
	"time"

	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/host"
)

// cycle is one render pass over a subtree.
type cycle struct {
	id        uint64
	base      *Node // committed node being re-rendered, nil on first mount
	root      *Node // work-in-progress replacement of base
	next      *Node
	deletions []*Node
	units     int
	nested    int
	started   time.Time
}

func (c *cycle) info() CycleInfo {
	info := CycleInfo{ID: c.id, Base: c.root.kind.String(), Nested: c.nested}
	info.Full = c.root.kind == rootKind
	return info
}

// Root renders one element tree into a host container.
type Root struct {
	cfg     Config
	logger  *slog.Logger
	adapter host.Adapter
	idle    host.IdleScheduler

	container host.Handle
	current   *Node
	wip       *cycle
	seq       uint64

	idleRequested bool
	unmounted     bool

	rendering bool
	deferred  []*cell
}

// NewRoot creates a Root mutating the host through adapter and doing its
// work in callbacks from idle.
func NewRoot(adapter host.Adapter, idle host.IdleScheduler, opts ...Option) *Root {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	logger := cfg.Logger.With("component", "fiber")
	if cfg.OnError == nil {
		cfg.OnError = func(err error) {
			logger.Error("render cycle failed", "error", err)
		}
	}
	return &Root{
		cfg:     cfg,
		logger:  logger,
		adapter: adapter,
		idle:    idle,
	}
}

// Config returns the Root configuration.
func (r *Root) Config() Config { return r.cfg }

// Mount renders el as the sole child of container. Mounting again into the
// same container re-renders the whole tree against the committed one.
// Work starts on the next idle callback.
func (r *Root) Mount(el *element.Element, container host.Handle) error {
	if el == nil {
		return ErrNilElement
	}
	if container == nil {
		return ErrNoHostParent.WithDetail("nil container")
	}
	if r.unmounted {
		return ErrUnmounted
	}
	if r.container != nil && r.container != container {
		return ErrContainerChanged.WithDetailf("mounted into %v, got %v", r.container, container)
	}
	r.container = container

	r.logger.Info("mount", "element", el.Kind().String(), "remount", r.current != nil)
	r.begin(r.newCycle(r.current, element.PropsWithChildren(el)))
	return nil
}

// ForceRerender re-renders the whole tree with the props it was mounted
// with.
func (r *Root) ForceRerender() error {
	switch {
	case r.unmounted:
		return ErrUnmounted
	case r.current != nil:
		r.begin(r.newCycle(r.current, r.current.props))
	case r.wip != nil:
		// First mount still in flight: start it over.
		r.begin(r.newCycle(nil, r.wip.root.props))
	default:
		return ErrNotMounted
	}
	return nil
}

// Unmount removes the committed tree from the container and stops all
// scheduling. Pending work is discarded.
func (r *Root) Unmount() error {
	if r.unmounted {
		return nil
	}
	if r.wip != nil {
		r.abandon(r.wip, ErrUnmounted)
	}
	removed := 0
	if r.current != nil {
		for c := r.current.child; c != nil; c = c.sibling {
			for _, h := range hostRoots(c) {
				r.adapter.RemoveChild(r.container, h)
				removed++
			}
		}
		markUnmounted(r.current)
	}
	r.current = nil
	r.unmounted = true
	r.logger.Info("unmount", "removed", removed)
	return nil
}

// Pending reports whether a render cycle is in flight.
func (r *Root) Pending() bool { return r.wip != nil }

// Current returns the committed synthetic root, or nil before the first
// commit. Its only child is the node of the mounted element.
func (r *Root) Current() *Node { return r.current }

// Flush runs the pending work to completion, including re-renders
// scheduled by the commits it performs.
func (r *Root) Flush() error {
	for r.wip != nil && !r.unmounted {
		if err := r.Resume(host.Unlimited); err != nil {
			return err
		}
	}
	return nil
}

// schedule starts a cycle re-rendering the committed node n.
func (r *Root) schedule(n *Node) {
	if r.unmounted {
		return
	}
	r.begin(r.newCycle(n, n.props))
}

func (r *Root) newCycle(base *Node, props element.Props) *cycle {
	r.seq++
	c := &cycle{id: r.seq, base: base, started: time.Now()}
	if base == nil {
		c.root = &Node{kind: rootKind, props: props, handle: r.container, gen: c.id}
	} else {
		c.root = &Node{
			parent:      base.parent,
			kind:        base.kind,
			props:       props,
			handle:      base.handle,
			predecessor: base,
			effect:      Update,
			index:       base.index,
			listeners:   base.listeners,
			gen:         c.id,
		}
	}
	c.next = c.root
	return c
}

// begin makes c the in-flight cycle. A cycle already in flight is
// abandoned and c is widened to cover its subtree too.
func (r *Root) begin(c *cycle) {
	if a := r.wip; a != nil {
		c = r.widen(a, c)
		r.abandon(a, ErrPreempted)
	}
	r.wip = c
	r.logger.Debug("cycle started", "cycle", c.id, "base", c.root.kind.String())
	info := c.info()
	r.observe(func(o Observer) { o.CycleStarted(info) })
	r.requestIdle()
}

// widen returns a cycle covering both the abandoned cycle a and c.
func (r *Root) widen(a, c *cycle) *cycle {
	var w *cycle
	switch {
	case c.base == nil:
		return c
	case a.base == nil:
		w = r.newCycle(nil, a.root.props)
	default:
		base := commonAncestor(a.base, c.base)
		switch base {
		case c.base:
			return c
		case a.base:
			w = r.newCycle(base, a.root.props)
		default:
			w = r.newCycle(base, base.props)
		}
	}
	w.nested = max(a.nested, c.nested)
	return w
}

func (r *Root) abandon(c *cycle, reason error) {
	if r.wip == c {
		r.wip = nil
	}
	r.logger.Debug("cycle abandoned", "cycle", c.id, "reason", reason)
	info := c.info()
	r.observe(func(o Observer) { o.CycleAbandoned(info, reason) })
}

func (r *Root) requestIdle() {
	if r.unmounted || r.idleRequested {
		return
	}
	r.idleRequested = true
	r.idle.RequestIdleCallback(r.onIdle)
}

func (r *Root) onIdle(d host.Deadline) {
	r.idleRequested = false
	if err := r.Resume(d); err != nil {
		r.cfg.OnError(err)
	}
}
