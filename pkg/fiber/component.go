package fiber

import "github.com/vango-dev/fiber/pkg/element"

// RenderFunc renders a component. It returns the component's single child,
// or nil to render nothing.
type RenderFunc func(ctx *Ctx, props element.Props) *element.Element

// Component is a named render function. Its pointer is its identity: two
// elements have the same kind only if they were built from the same
// *Component.
type Component struct {
	name   string
	render RenderFunc
}

var _ element.Component = (*Component)(nil)

// Define creates a component.
func Define(name string, render RenderFunc) *Component {
	if render == nil {
		panic("fiber: Define " + name + " with nil render func")
	}
	return &Component{name: name, render: render}
}

// Name returns the component name.
func (c *Component) Name() string { return c.name }

// Kind returns the element kind of the component.
func (c *Component) Kind() element.Kind { return element.ComponentKind(c) }

// Element builds an element of the component. Arguments follow
// element.Build; attributes become the props passed to the render func.
func (c *Component) Element(args ...any) *element.Element {
	return element.H(c.Kind(), args...)
}
