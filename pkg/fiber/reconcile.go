package fiber

import (
	"fmt"

	"github.com/vango-dev/fiber/pkg/element"
)

// render runs the render function of component node n.
func (r *Root) render(c *cycle, n *Node) (out *element.Element, err error) {
	comp, ok := n.kind.Component().(*Component)
	if !ok {
		return nil, ErrUnknownComponent.WithDetailf("%T", n.kind.Component())
	}

	ctx := &Ctx{root: r, node: n, cycle: c}
	n.hooks = nil
	r.rendering = true
	defer func() {
		r.rendering = false
		ctx.done = true
		if rec := recover(); rec != nil {
			out = nil
			if e, ok := rec.(error); ok {
				err = ErrRenderPanic.WithDetail(comp.name).Wrap(e)
				return
			}
			err = ErrRenderPanic.WithDetail(fmt.Sprintf("%s: %v", comp.name, rec))
		}
	}()

	out = comp.render(ctx, n.props)
	if ctx.err != nil {
		return nil, ctx.err
	}
	if r.cfg.Debug && n.predecessor != nil && len(n.hooks) < len(n.predecessor.hooks) {
		return nil, ErrHookOrder.WithDetailf("%s: rendered %d hooks, previous render had %d",
			comp.name, len(n.hooks), len(n.predecessor.hooks))
	}
	return out, nil
}

// reconcile diffs children against the predecessor's child list position
// by position and links the resulting nodes under n. Empty positions make
// no node but keep their index, so a predecessor only matches the child at
// the index it was created for.
func (r *Root) reconcile(c *cycle, n *Node, children []*element.Element) {
	var old *Node
	if n.predecessor != nil {
		old = n.predecessor.child
	}

	n.child = nil
	var prev *Node
	for i := 0; i < len(children) || old != nil; i++ {
		var el *element.Element
		if i < len(children) {
			el = children[i]
		}
		var at *Node
		if old != nil && old.index == i {
			at, old = old, old.sibling
		}

		var next *Node
		switch {
		case el != nil && at != nil && at.kind == el.Kind():
			next = &Node{
				parent:      n,
				kind:        at.kind,
				props:       el.Props(),
				handle:      at.handle,
				predecessor: at,
				effect:      Update,
				index:       i,
				listeners:   at.listeners,
				gen:         c.id,
			}
		case el != nil:
			next = &Node{parent: n, kind: el.Kind(), props: el.Props(), effect: Placement, index: i, gen: c.id}
			if at != nil {
				c.deletions = append(c.deletions, at)
			}
		case at != nil:
			c.deletions = append(c.deletions, at)
		}

		if next == nil {
			continue
		}
		if prev == nil {
			n.child = next
		} else {
			prev.sibling = next
		}
		prev = next
	}
}
