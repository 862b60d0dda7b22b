package fiber

import (
	"time"

	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/host"
)

// Resume advances the in-flight cycle while d reports more slack than the
// configured threshold, and commits it when no unit is left. At least one
// unit is processed per call. Another idle callback is requested before
// returning unless the Root was unmounted.
//
// Resume is called by the idle scheduler; calling it directly is useful to
// drive a Root with custom deadlines.
func (r *Root) Resume(d host.Deadline) error {
	if r.unmounted {
		return nil
	}
	defer r.requestIdle()

	c := r.wip
	if c == nil {
		return nil
	}

	start := time.Now()
	units := 0
	for c.next != nil {
		if units > 0 && d.TimeRemaining() <= r.cfg.Threshold {
			break
		}
		n := c.next
		err := r.perform(c, n)
		r.flushDeferred(c)
		if err != nil {
			r.abandon(c, err)
			return err
		}
		units++
		if r.wip != c {
			// A render scheduled a wider cycle.
			break
		}
		c.next = r.advance(c, n)
	}

	info := c.info()
	stats := SliceStats{Units: units, Elapsed: time.Since(start), Remaining: c.next != nil}
	r.observe(func(o Observer) { o.SliceFinished(info, stats) })

	if r.wip == c && c.next == nil {
		return r.commit(c)
	}
	return nil
}

// advance returns the unit after n: its first child, else the nearest
// sibling walking up towards the cycle root.
func (r *Root) advance(c *cycle, n *Node) *Node {
	if n.child != nil {
		return n.child
	}
	for cur := n; cur != nil && cur != c.root; cur = cur.parent {
		if cur.sibling != nil {
			return cur.sibling
		}
	}
	return nil
}

// perform expands n and reconciles its children.
func (r *Root) perform(c *cycle, n *Node) error {
	r.logger.Debug("render unit", "cycle", c.id, "kind", n.kind.String())
	children := n.props.Children()
	if n.kind.IsComponent() {
		out, err := r.render(c, n)
		if err != nil {
			return err
		}
		children = []*element.Element{out}
	}
	r.reconcile(c, n, children)
	c.units++
	return nil
}
