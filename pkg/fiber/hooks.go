package fiber

import (
	"github.com/vango-dev/fiber/pkg/element"
)

// cell is one state slot. The same cell object is carried from generation
// to generation, so a setter captured by an old render still writes to the
// live state.
type cell struct {
	value any

	// owner is the committed node holding the cell, nil before the first
	// commit.
	owner *Node

	// pending is the node of cycle pendingCycle that adopted the cell and
	// has not been committed yet.
	pending      *Node
	pendingCycle uint64
}

// Ctx is the render context of one component render. It is valid only
// while the render function runs.
type Ctx struct {
	root  *Root
	node  *Node
	cycle *cycle
	index int
	err   error
	done  bool
}

// Props returns the props of the rendering component.
func (c *Ctx) Props() element.Props { return c.node.props }

// Root returns the Root the component renders in.
func (c *Ctx) Root() *Root { return c.root }

// Name returns the rendering component's name.
func (c *Ctx) Name() string { return c.node.kind.String() }

func (c *Ctx) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// UseState returns the value of the component's next state cell and a
// setter for it. On the first render the cell holds initial. The setter
// stores fn(current) and re-renders the component owning the cell.
//
// Cells are matched by call order, so UseState must be called the same
// number of times in the same order on every render.
func UseState[T any](ctx *Ctx, initial T) (T, func(func(T) T)) {
	if ctx == nil || ctx.done {
		panic(ErrHookOrder.WithDetail("UseState called outside a component render"))
	}

	n := ctx.node
	i := ctx.index
	ctx.index++

	var cl *cell
	if p := n.predecessor; p != nil && i < len(p.hooks) {
		cl = p.hooks[i]
	} else {
		if ctx.root.cfg.Debug && p != nil {
			ctx.fail(ErrHookOrder.WithDetailf("%s: hook %d was not called on the previous render (%d hooks)",
				ctx.Name(), i, len(p.hooks)))
		}
		cl = &cell{value: initial}
	}

	v, ok := cl.value.(T)
	if !ok && cl.value != nil {
		ctx.fail(ErrHookOrder.WithDetailf("%s: hook %d holds %T, read as %T", ctx.Name(), i, cl.value, initial))
		v = initial
	}

	cl.pending = n
	cl.pendingCycle = ctx.cycle.id
	n.hooks = append(n.hooks, cl)

	root := ctx.root
	set := func(fn func(T) T) {
		cur, _ := cl.value.(T)
		cl.value = fn(cur)
		root.cellUpdated(cl)
	}
	return v, set
}

// Invalidate returns a function that re-renders the component. It takes a
// hook slot like UseState.
func (c *Ctx) Invalidate() func() {
	_, set := UseState(c, struct{}{})
	return func() {
		set(func(s struct{}) struct{} { return s })
	}
}

// cellUpdated schedules the re-render a cell write asks for.
func (r *Root) cellUpdated(cl *cell) {
	if r.rendering {
		r.deferred = append(r.deferred, cl)
		return
	}
	switch {
	case r.unmounted:
	case cl.owner != nil && cl.owner.state == stateMounted:
		r.schedule(cl.owner)
	case cl.pending != nil && r.wip != nil && cl.pendingCycle == r.wip.id:
		cl.pending.dirty = true
	default:
		r.logger.Debug("state update for unmounted component dropped")
	}
}

// flushDeferred handles the cell writes made while rendering. Writes to
// cells adopted by c mark their node dirty; others schedule normally.
func (r *Root) flushDeferred(c *cycle) {
	cells := r.deferred
	r.deferred = nil
	for _, cl := range cells {
		if cl.pending != nil && cl.pendingCycle == c.id {
			cl.pending.dirty = true
			continue
		}
		r.cellUpdated(cl)
	}
}
