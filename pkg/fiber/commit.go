package fiber

import (
	"time"

	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/host"
)

// binding is the host listener of one (node, event type). The host holds
// dispatch for the node's lifetime; handler is swapped on updates.
type binding struct {
	handler  element.HandlerFunc
	dispatch element.HandlerFunc
}

func newBinding(fn element.HandlerFunc) *binding {
	b := &binding{handler: fn}
	b.dispatch = func(e element.Event) {
		if b.handler != nil {
			b.handler(e)
		}
	}
	return b
}

type committer struct {
	adapter  host.Adapter
	inserter host.Inserter
	cycle    *cycle
	stats    CommitStats
	dirty    []*Node
}

// commit applies the effects of c to the host and makes its tree current.
func (r *Root) commit(c *cycle) error {
	start := time.Now()
	cm := &committer{adapter: r.adapter, cycle: c}
	cm.inserter, _ = r.adapter.(host.Inserter)
	cm.stats.Units = c.units

	r.wip = nil
	if c.base != nil {
		c.root.sibling = c.base.sibling
	}

	for _, d := range c.deletions {
		if err := cm.delete(d); err != nil {
			return r.failCommit(c, err)
		}
	}
	if err := cm.work(c.root); err != nil {
		return r.failCommit(c, err)
	}
	r.splice(c)

	cm.stats.Duration = time.Since(start)
	r.logger.Debug("cycle committed",
		"cycle", c.id,
		"units", c.units,
		"mutations", cm.stats.Mutations(),
		"duration", cm.stats.Duration,
	)
	info := c.info()
	stats := cm.stats
	r.observe(func(o Observer) { o.CycleCommitted(info, stats) })

	if len(cm.dirty) == 0 {
		return nil
	}
	if c.nested >= r.cfg.MaxNestedUpdates {
		return ErrTooManyRerenders.WithDetailf("%d consecutive render-phase updates", c.nested+1)
	}
	base := cm.dirty[0]
	for _, n := range cm.dirty[1:] {
		base = commonAncestor(base, n)
	}
	next := r.newCycle(base, base.props)
	next.nested = c.nested + 1
	r.begin(next)
	return nil
}

func (r *Root) failCommit(c *cycle, err error) error {
	info := c.info()
	r.observe(func(o Observer) { o.CycleAbandoned(info, err) })
	return err
}

// splice replaces the cycle's base with its new root in the committed
// tree.
func (r *Root) splice(c *cycle) {
	b := c.base
	if b == nil || b.parent == nil {
		r.current = c.root
		return
	}
	p := b.parent
	if p.child == b {
		p.child = c.root
		return
	}
	for s := p.child; s != nil; s = s.sibling {
		if s.sibling == b {
			s.sibling = c.root
			return
		}
	}
}

func (cm *committer) delete(d *Node) error {
	parent := nearestHost(d.parent)
	if parent == nil {
		return ErrNoHostParent.WithDetail(d.kind.String())
	}
	for _, h := range hostRoots(d) {
		cm.adapter.RemoveChild(parent.handle, h)
		cm.stats.Removed++
	}
	d.effect = Deletion
	markUnmounted(d)
	cm.stats.Deletions++
	return nil
}

// work commits n's subtree: host nodes are created and updated in
// pre-order and attached in post-order, so a new subtree reaches the
// host tree complete.
func (cm *committer) work(n *Node) error {
	switch n.effect {
	case Placement:
		cm.stats.Placements++
		if !n.kind.IsComponent() {
			n.handle = cm.adapter.CreateNode(n.kind.Tag())
			cm.stats.Created++
			cm.updateProps(n, element.Props{}, n.props)
		}
	case Update:
		cm.stats.Updates++
		if n.hostBearing() {
			cm.updateProps(n, n.predecessor.props, n.props)
		}
	}

	for ch := n.child; ch != nil; ch = ch.sibling {
		if err := cm.work(ch); err != nil {
			return err
		}
	}

	if n.effect == Placement && n.hostBearing() {
		if err := cm.attach(n); err != nil {
			return err
		}
	}
	cm.finish(n)
	return nil
}

func (cm *committer) attach(n *Node) error {
	parent := nearestHost(n.parent)
	if parent == nil {
		return ErrNoHostParent.WithDetail(n.kind.String())
	}
	if cm.inserter != nil {
		if before := cm.hostAfter(n); before != nil {
			cm.inserter.InsertBefore(parent.handle, n.handle, before)
			cm.stats.Inserted++
			return nil
		}
	}
	cm.adapter.AppendChild(parent.handle, n.handle)
	cm.stats.Appended++
	return nil
}

// hostAfter returns the first host node following n under its host
// parent that is already attached.
func (cm *committer) hostAfter(n *Node) host.Handle {
	for cur := n; cur != nil; cur = cur.parent {
		for s := cur.sibling; s != nil; s = s.sibling {
			if h := cm.attached(s); h != nil {
				return h
			}
		}
		if p := cur.parent; p == nil || p.hostBearing() {
			return nil
		}
	}
	return nil
}

// attached returns the first attached host node of n's subtree.
func (cm *committer) attached(n *Node) host.Handle {
	if n.effect == Placement && n.gen == cm.cycle.id {
		return nil
	}
	if !n.kind.IsComponent() {
		return n.handle
	}
	for c := n.child; c != nil; c = c.sibling {
		if h := cm.attached(c); h != nil {
			return h
		}
	}
	return nil
}

// updateProps applies the attribute and listener differences between
// prev and next to n's host node.
func (cm *committer) updateProps(n *Node, prev, next element.Props) {
	for _, a := range prev.Attrs() {
		if !next.Has(a.Key) {
			cm.adapter.RemoveProperty(n.handle, a.Key)
			cm.stats.PropsRemoved++
		}
	}
	for _, a := range next.Attrs() {
		if old, ok := prev.Get(a.Key); ok && element.ValuesEqual(old, a.Value) {
			continue
		}
		cm.adapter.SetProperty(n.handle, a.Key, element.PropString(a.Value))
		cm.stats.PropsSet++
	}

	for _, t := range prev.EventTypes() {
		if _, ok := next.Listener(t); ok {
			continue
		}
		if b, ok := n.listeners[t]; ok {
			cm.adapter.RemoveEventListener(n.handle, t, b.dispatch)
			delete(n.listeners, t)
			cm.stats.ListenersRemoved++
		}
	}
	for _, t := range next.EventTypes() {
		fn, _ := next.Listener(t)
		if b, ok := n.listeners[t]; ok {
			b.handler = fn
			continue
		}
		if n.listeners == nil {
			n.listeners = make(map[element.EventType]*binding)
		}
		b := newBinding(fn)
		n.listeners[t] = b
		cm.adapter.AddEventListener(n.handle, t, b.dispatch)
		cm.stats.ListenersAdded++
	}
}

// finish makes n part of the committed tree.
func (cm *committer) finish(n *Node) {
	if p := n.predecessor; p != nil {
		p.state = stateStale
		n.predecessor = nil
	}
	n.state = stateMounted
	for _, cl := range n.hooks {
		cl.owner = n
		if cl.pending == n {
			cl.pending = nil
		}
	}
	if n.dirty {
		n.dirty = false
		cm.dirty = append(cm.dirty, n)
	}
}
