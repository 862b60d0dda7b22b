// Package host defines the capability set the fiber engine consumes to
// mutate a concrete host tree and to obtain idle time.
//
// The engine never touches a host tree directly. Every mutation goes through
// an Adapter during commit, and every unit of render work runs inside an
// idle callback obtained from an IdleScheduler.
package host

import (
	"time"

	"github.com/vango-dev/fiber/pkg/element"
)

// Handle is an opaque reference to a host node. Adapters define the
// concrete type; the engine only stores and passes handles back.
type Handle any

// Adapter creates and mutates host nodes.
type Adapter interface {
	// CreateNode creates a detached host node for a tag name or for
	// element.TextMarker.
	CreateNode(tag string) Handle

	// SetProperty sets a property. Text nodes receive their content as the
	// element.NodeValue property.
	SetProperty(h Handle, key, value string)

	// RemoveProperty removes a property.
	RemoveProperty(h Handle, key string)

	// AddEventListener registers fn for events of type t on h.
	AddEventListener(h Handle, t element.EventType, fn element.HandlerFunc)

	// RemoveEventListener unregisters the listener previously registered for
	// t on h. fn is the function passed to AddEventListener.
	RemoveEventListener(h Handle, t element.EventType, fn element.HandlerFunc)

	// AppendChild appends child as the last child of parent.
	AppendChild(parent, child Handle)

	// RemoveChild detaches child from parent.
	RemoveChild(parent, child Handle)
}

// Inserter is implemented by adapters that can insert a child before an
// existing sibling. When available the engine uses it to keep host order
// equal to tree order for nodes placed between existing siblings.
type Inserter interface {
	InsertBefore(parent, child, before Handle)
}

// Deadline reports how much of the current idle period is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// DeadlineFunc adapts a function to Deadline.
type DeadlineFunc func() time.Duration

// TimeRemaining implements Deadline.
func (f DeadlineFunc) TimeRemaining() time.Duration { return f() }

// Until returns a Deadline expiring at t.
func Until(t time.Time) Deadline {
	return DeadlineFunc(func() time.Duration { return time.Until(t) })
}

// Unlimited is a Deadline that never expires.
var Unlimited Deadline = DeadlineFunc(func() time.Duration { return time.Duration(1<<63 - 1) })

// IdleScheduler runs callbacks when the host is idle.
type IdleScheduler interface {
	RequestIdleCallback(cb func(Deadline))
}
