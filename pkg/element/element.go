package element

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

const (
	// TextMarker is the reserved kind tag of text elements.
	TextMarker = "TEXT_ELEMENT"

	// NodeValue is the attribute holding a text element's content.
	NodeValue = "nodeValue"

	// ChildrenKey is reserved for the children sequence and cannot be used
	// as an attribute key.
	ChildrenKey = "children"
)

// Component is a kind whose elements are expanded by calling a render
// function rather than by creating a host node. Implementations must be
// pointer types: kinds compare by component identity.
type Component interface {
	Name() string
}

// Kind discriminates elements: a host tag, the text marker or a component.
// Kinds are comparable with ==.
type Kind struct {
	tag  string
	comp Component
}

// TextKind is the kind of text elements.
var TextKind = Kind{tag: TextMarker}

// Tag returns the kind of a host element with the given tag name.
func Tag(name string) Kind {
	return Kind{tag: name}
}

// ComponentKind returns the kind of elements rendered by c.
func ComponentKind(c Component) Kind {
	return Kind{comp: c}
}

// IsZero reports whether k is the zero Kind.
func (k Kind) IsZero() bool {
	return k.tag == "" && k.comp == nil
}

// IsComponent reports whether k is a component kind.
func (k Kind) IsComponent() bool {
	return k.comp != nil
}

// IsText reports whether k is the text marker.
func (k Kind) IsText() bool {
	return k.comp == nil && k.tag == TextMarker
}

// Tag returns the host tag name, or "" for components.
func (k Kind) Tag() string {
	return k.tag
}

// Component returns the component, or nil for host kinds.
func (k Kind) Component() Component {
	return k.comp
}

// String returns the tag name or the component name.
func (k Kind) String() string {
	if k.comp != nil {
		return k.comp.Name()
	}
	if k.tag == "" {
		return "<invalid>"
	}
	return k.tag
}

// validate checks that k can be used as an element kind.
func (k Kind) validate() error {
	if k.IsZero() {
		return ErrMalformed.WithDetail("element kind is empty")
	}
	if k.comp != nil && !reflect.TypeOf(k.comp).Comparable() {
		return ErrMalformed.WithDetailf("component %s has a non-comparable type %T", k.comp.Name(), k.comp)
	}
	return nil
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Props holds the attributes, listeners and children of an element.
// The zero Props is empty and ready to use.
type Props struct {
	attrs     []Attr
	listeners []listener
	children  []*Element
}

type listener struct {
	typ EventType
	fn  HandlerFunc
}

// PropsWithChildren returns Props holding only the given children.
func PropsWithChildren(children ...*Element) Props {
	return Props{children: slices.Clone(children)}
}

// Get returns the value of the attribute key.
func (p Props) Get(key string) (any, bool) {
	for _, a := range p.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// Has reports whether the attribute key is set.
func (p Props) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Attrs returns the attributes in declaration order.
func (p Props) Attrs() []Attr {
	return slices.Clone(p.attrs)
}

// Listeners returns the listeners in declaration order. Handlers are
// normalized to HandlerFunc.
func (p Props) Listeners() []Listener {
	out := make([]Listener, len(p.listeners))
	for i, l := range p.listeners {
		out[i] = Listener{Type: l.typ, Handler: l.fn}
	}
	return out
}

// EventTypes returns the event types with a listener, in declaration order.
func (p Props) EventTypes() []EventType {
	out := make([]EventType, len(p.listeners))
	for i, l := range p.listeners {
		out[i] = l.typ
	}
	return out
}

// Listener returns the handler registered for t.
func (p Props) Listener(t EventType) (HandlerFunc, bool) {
	for _, l := range p.listeners {
		if l.typ == t {
			return l.fn, true
		}
	}
	return nil, false
}

// Children returns the children sequence. Nil entries are positions that
// render nothing.
func (p Props) Children() []*Element {
	return slices.Clone(p.children)
}

// Len returns the number of attributes and listeners.
func (p Props) Len() int {
	return len(p.attrs) + len(p.listeners)
}

// Value returns the attribute key of p as a T, or fallback when it is
// missing or has another type.
func Value[T any](p Props, key string, fallback T) T {
	v, ok := p.Get(key)
	if !ok {
		return fallback
	}
	t, ok := v.(T)
	if !ok {
		return fallback
	}
	return t
}

// Element is an immutable tree node description.
type Element struct {
	kind  Kind
	props Props
}

// Kind returns the element kind.
func (e *Element) Kind() Kind {
	return e.kind
}

// Props returns the element props.
func (e *Element) Props() Props {
	return e.props
}

// Children is shorthand for e.Props().Children().
func (e *Element) Children() []*Element {
	return e.props.Children()
}

// String renders a compact debug form, e.g. div(h1("A")).
func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	if e.kind.IsText() {
		return fmt.Sprintf("%q", PropString(mustGet(e.props, NodeValue)))
	}
	var b strings.Builder
	b.WriteString(e.kind.String())
	b.WriteString("(")
	for i, c := range e.props.children {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	b.WriteString(")")
	return b.String()
}

func mustGet(p Props, key string) any {
	v, _ := p.Get(key)
	return v
}
