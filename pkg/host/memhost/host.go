package memhost

import (
	"fmt"
	"strings"

	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/host"
)

// OpKind is the type of a recorded host operation.
type OpKind uint8

const (
	OpCreate OpKind = iota + 1
	OpSetProperty
	OpRemoveProperty
	OpAddListener
	OpRemoveListener
	OpAppend
	OpInsert
	OpRemove
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpSetProperty:
		return "set"
	case OpRemoveProperty:
		return "remove-prop"
	case OpAddListener:
		return "listen"
	case OpRemoveListener:
		return "unlisten"
	case OpAppend:
		return "append"
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Op is a recorded adapter call.
type Op struct {
	Kind   OpKind
	Node   *Node // target or child
	Parent *Node // for append, insert, remove
	Before *Node // for insert
	Key    string
	Value  string
	Event  element.EventType
}

// String formats the operation for logs and golden files.
func (o Op) String() string {
	switch o.Kind {
	case OpCreate:
		return fmt.Sprintf("create %s", o.Node.Label())
	case OpSetProperty:
		return fmt.Sprintf("set %s %s=%q", o.Node.Label(), o.Key, o.Value)
	case OpRemoveProperty:
		return fmt.Sprintf("remove-prop %s %s", o.Node.Label(), o.Key)
	case OpAddListener:
		return fmt.Sprintf("listen %s %s", o.Node.Label(), o.Event)
	case OpRemoveListener:
		return fmt.Sprintf("unlisten %s %s", o.Node.Label(), o.Event)
	case OpAppend:
		return fmt.Sprintf("append %s -> %s", o.Node.Label(), o.Parent.Label())
	case OpInsert:
		return fmt.Sprintf("insert %s -> %s before %s", o.Node.Label(), o.Parent.Label(), o.Before.Label())
	case OpRemove:
		return fmt.Sprintf("remove %s <- %s", o.Node.Label(), o.Parent.Label())
	default:
		return "unknown"
	}
}

// Touches reports whether the operation targets n.
func (o Op) Touches(n *Node) bool {
	return o.Node == n || o.Parent == n
}

// Host is an in-memory host.Adapter that records every call.
type Host struct {
	container *Node
	nextID    int
	ops       []Op
}

var (
	_ host.Adapter  = (*Host)(nil)
	_ host.Inserter = (*Host)(nil)
)

// New creates a Host with an empty container.
func New() *Host {
	return &Host{container: newNode(0, ContainerTag)}
}

// Container returns the root container node.
func (h *Host) Container() *Node {
	return h.container
}

// Ops returns a copy of the operation log.
func (h *Host) Ops() []Op {
	out := make([]Op, len(h.ops))
	copy(out, h.ops)
	return out
}

// Log returns the operation log as one line per operation.
func (h *Host) Log() string {
	var b strings.Builder
	for _, op := range h.ops {
		b.WriteString(op.String())
		b.WriteString("\n")
	}
	return b.String()
}

// ResetOps clears the operation log.
func (h *Host) ResetOps() {
	h.ops = nil
}

func (h *Host) record(op Op) {
	h.ops = append(h.ops, op)
}

func (h *Host) node(handle host.Handle) *Node {
	n, ok := handle.(*Node)
	if !ok || n == nil {
		panic(fmt.Sprintf("memhost: foreign handle %T", handle))
	}
	return n
}

// CreateNode implements host.Adapter.
func (h *Host) CreateNode(tag string) host.Handle {
	h.nextID++
	n := newNode(h.nextID, tag)
	h.record(Op{Kind: OpCreate, Node: n})
	return n
}

// SetProperty implements host.Adapter.
func (h *Host) SetProperty(handle host.Handle, key, value string) {
	n := h.node(handle)
	n.props[key] = value
	h.record(Op{Kind: OpSetProperty, Node: n, Key: key, Value: value})
}

// RemoveProperty implements host.Adapter.
func (h *Host) RemoveProperty(handle host.Handle, key string) {
	n := h.node(handle)
	delete(n.props, key)
	h.record(Op{Kind: OpRemoveProperty, Node: n, Key: key})
}

// AddEventListener implements host.Adapter.
func (h *Host) AddEventListener(handle host.Handle, t element.EventType, fn element.HandlerFunc) {
	n := h.node(handle)
	n.listeners[t] = fn
	h.record(Op{Kind: OpAddListener, Node: n, Event: t})
}

// RemoveEventListener implements host.Adapter.
func (h *Host) RemoveEventListener(handle host.Handle, t element.EventType, _ element.HandlerFunc) {
	n := h.node(handle)
	delete(n.listeners, t)
	h.record(Op{Kind: OpRemoveListener, Node: n, Event: t})
}

// AppendChild implements host.Adapter.
func (h *Host) AppendChild(parent, child host.Handle) {
	p, c := h.node(parent), h.node(child)
	if c.parent != nil {
		c.parent.detach(c)
	}
	p.children = append(p.children, c)
	c.parent = p
	h.record(Op{Kind: OpAppend, Node: c, Parent: p})
}

// InsertBefore implements host.Inserter.
func (h *Host) InsertBefore(parent, child, before host.Handle) {
	p, c, b := h.node(parent), h.node(child), h.node(before)
	if c.parent != nil {
		c.parent.detach(c)
	}
	i := p.indexOf(b)
	if i < 0 {
		panic(fmt.Sprintf("memhost: %s is not a child of %s", b.Label(), p.Label()))
	}
	p.children = append(p.children, nil)
	copy(p.children[i+1:], p.children[i:])
	p.children[i] = c
	c.parent = p
	h.record(Op{Kind: OpInsert, Node: c, Parent: p, Before: b})
}

// RemoveChild implements host.Adapter.
func (h *Host) RemoveChild(parent, child host.Handle) {
	p, c := h.node(parent), h.node(child)
	p.detach(c)
	h.record(Op{Kind: OpRemove, Node: c, Parent: p})
}
