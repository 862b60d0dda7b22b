package fiber

import (
	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/host"
)

// Effect is the commit action a node was produced with.
type Effect uint8

const (
	NoEffect  Effect = iota // synthetic root of a first mount
	Placement               // new host footprint
	Update                  // reused predecessor, props diffed
	Deletion                // predecessor removed at commit
)

// String returns the string representation of the Effect.
func (e Effect) String() string {
	switch e {
	case NoEffect:
		return "None"
	case Placement:
		return "Placement"
	case Update:
		return "Update"
	case Deletion:
		return "Deletion"
	default:
		return "Unknown"
	}
}

type nodeState uint8

const (
	stateWIP       nodeState = iota // built by a cycle, not committed
	stateMounted                    // part of the committed tree
	stateStale                      // superseded by a newer generation
	stateUnmounted                  // removed by a deletion
)

// rootKind is the kind of the synthetic node wrapping a mounted element.
var rootKind = element.Tag("#root")

// Node is the reconciliation unit for one tree position.
type Node struct {
	parent      *Node
	child       *Node
	sibling     *Node
	predecessor *Node

	kind   element.Kind
	props  element.Props
	handle host.Handle
	effect Effect
	index  int // position in the parent's children, counting empty slots

	hooks     []*cell
	listeners map[element.EventType]*binding

	gen   uint64 // id of the cycle that built the node
	state nodeState
	dirty bool // state updated while rendering; re-render after commit
}

// Parent returns the parent node.
func (n *Node) Parent() *Node { return n.parent }

// FirstChild returns the first child node.
func (n *Node) FirstChild() *Node { return n.child }

// NextSibling returns the next sibling node.
func (n *Node) NextSibling() *Node { return n.sibling }

// Predecessor returns the node that held this position in the committed
// tree. It is nil once the node is committed.
func (n *Node) Predecessor() *Node { return n.predecessor }

// Kind returns the node kind.
func (n *Node) Kind() element.Kind { return n.kind }

// Props returns the node's current props.
func (n *Node) Props() element.Props { return n.props }

// Handle returns the host node, or nil for components and uncommitted
// placements.
func (n *Node) Handle() host.Handle { return n.handle }

// Index returns the node's position among its parent's children. Empty
// positions count, so indexes may skip.
func (n *Node) Index() int { return n.index }

// Effect returns the effect the node was produced with.
func (n *Node) Effect() Effect { return n.effect }

// HookCount returns the number of state cells owned by the node.
func (n *Node) HookCount() int { return len(n.hooks) }

// Mounted reports whether the node is part of the committed tree.
func (n *Node) Mounted() bool { return n.state == stateMounted }

// Children returns the child list.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.child; c != nil; c = c.sibling {
		out = append(out, c)
	}
	return out
}

// hostBearing reports whether n owns its host node directly.
func (n *Node) hostBearing() bool {
	return n.handle != nil && !n.kind.IsComponent()
}

// nearestHost returns the closest host-bearing node starting at n.
func nearestHost(n *Node) *Node {
	for p := n; p != nil; p = p.parent {
		if p.hostBearing() {
			return p
		}
	}
	return nil
}

// hostRoots returns the top-most host nodes of n's subtree: n's own host
// node, or for components the host roots of its descendants.
func hostRoots(n *Node) []host.Handle {
	if n.hostBearing() {
		return []host.Handle{n.handle}
	}
	var out []host.Handle
	for c := n.child; c != nil; c = c.sibling {
		out = append(out, hostRoots(c)...)
	}
	return out
}

func depth(n *Node) int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// commonAncestor returns the lowest node that is a or b or an ancestor of
// both.
func commonAncestor(a, b *Node) *Node {
	da, db := depth(a), depth(b)
	for da > db {
		a = a.parent
		da--
	}
	for db > da {
		b = b.parent
		db--
	}
	for a != b {
		a, b = a.parent, b.parent
	}
	return a
}

func markUnmounted(n *Node) {
	n.state = stateUnmounted
	for c := n.child; c != nil; c = c.sibling {
		markUnmounted(c)
	}
}
