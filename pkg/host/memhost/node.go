package memhost

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vango-dev/fiber/pkg/element"
)

// ContainerTag is the tag of nodes created by Host.Container.
const ContainerTag = "#container"

// Node is an in-memory host node.
type Node struct {
	id        int
	tag       string
	parent    *Node
	children  []*Node
	props     map[string]string
	listeners map[element.EventType]element.HandlerFunc
}

func newNode(id int, tag string) *Node {
	return &Node{
		id:        id,
		tag:       tag,
		props:     make(map[string]string),
		listeners: make(map[element.EventType]element.HandlerFunc),
	}
}

// ID returns the creation sequence number of the node.
func (n *Node) ID() int { return n.id }

// Tag returns the tag name, element.TextMarker or ContainerTag.
func (n *Node) Tag() string { return n.tag }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.tag == element.TextMarker }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Prop returns a property value.
func (n *Node) Prop(key string) (string, bool) {
	v, ok := n.props[key]
	return v, ok
}

// PropCount returns the number of properties set on n.
func (n *Node) PropCount() int { return len(n.props) }

// HasListener reports whether a listener is registered for t.
func (n *Node) HasListener(t element.EventType) bool {
	_, ok := n.listeners[t]
	return ok
}

// Dispatch delivers e to the listener registered for e.Type.
// It reports whether a listener ran.
func (n *Node) Dispatch(e element.Event) bool {
	fn, ok := n.listeners[e.Type]
	if !ok {
		return false
	}
	fn(e)
	return true
}

// Label identifies the node in operation logs (e.g., div#1, text#3).
func (n *Node) Label() string {
	switch n.tag {
	case ContainerTag:
		return "container"
	case element.TextMarker:
		return fmt.Sprintf("text#%d", n.id)
	default:
		return fmt.Sprintf("%s#%d", n.tag, n.id)
	}
}

// String returns the node label.
func (n *Node) String() string { return n.Label() }

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.props[element.NodeValue]
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Find returns the first descendant (pre-order, excluding n) with the tag.
func (n *Node) Find(tag string) *Node {
	for _, c := range n.children {
		if c.tag == tag {
			return c
		}
		if found := c.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns all descendants with the tag in pre-order.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	n.walk(func(d *Node) {
		if d != n && d.tag == tag {
			out = append(out, d)
		}
	})
	return out
}

// ByID returns the node with the given ID in n's subtree, or nil.
func (n *Node) ByID(id int) *Node {
	var found *Node
	n.walk(func(d *Node) {
		if found == nil && d.id == id {
			found = d
		}
	})
	return found
}

// Contains reports whether d is n or one of its descendants.
func (n *Node) Contains(d *Node) bool {
	for cur := d; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

func (n *Node) indexOf(child *Node) int {
	return slices.Index(n.children, child)
}

func (n *Node) detach(child *Node) {
	i := n.indexOf(child)
	if i < 0 {
		panic(fmt.Sprintf("memhost: %s is not a child of %s", child.Label(), n.Label()))
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
}
