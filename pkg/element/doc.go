// Package element provides the immutable tree descriptions diffed by the
// fiber engine.
//
// An Element is a pure value built fresh on every render and discarded once
// the reconciler has diffed it. It carries a Kind (host tag, text marker or
// component) and Props: an ordered set of attributes, event listeners and
// the positional children sequence.
//
// # Element API
//
// Elements are created with variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    If(showBody, P("Content")),
//	    OnClick(func() { ... }),
//	)
//
// Strings and numbers become text elements. A nil element, nil, true or
// false argument keeps its child position but renders nothing, so
// conditional rendering through If/When does not shift its siblings.
//
// Malformed input fails at construction: Build returns an error wrapping
// ErrMalformed, and H (used by the factories) panics with it.
package element
