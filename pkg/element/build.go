package element

import (
	"fmt"
	"strconv"
)

// Build creates an element of the given kind.
// Arguments can be: nil, bool, Attr, []Attr, Listener, []Listener, *Element,
// []*Element, string or a number. nil, bool and nil *Element arguments keep
// their child position but render nothing; strings and numbers become text
// elements. Any other argument fails with ErrMalformed.
func Build(kind Kind, args ...any) (*Element, error) {
	if err := kind.validate(); err != nil {
		return nil, err
	}

	el := &Element{kind: kind}
	for i, arg := range args {
		if err := el.apply(arg); err != nil {
			return nil, ErrMalformed.WithDetailf("%s argument %d: %s", kind, i, err)
		}
	}

	if kind.IsText() && len(el.props.children) > 0 {
		return nil, ErrMalformed.WithDetail("text elements cannot have children")
	}
	return el, nil
}

// H is Build for element factories: it panics on malformed input.
func H(kind Kind, args ...any) *Element {
	el, err := Build(kind, args...)
	if err != nil {
		panic(err)
	}
	return el
}

func (el *Element) apply(arg any) error {
	switch v := arg.(type) {
	case nil:
		el.props.children = append(el.props.children, nil)

	case bool:
		// false && <X/> style short-circuits.
		el.props.children = append(el.props.children, nil)

	case Attr:
		return el.setAttr(v)

	case []Attr:
		for _, a := range v {
			if err := el.setAttr(a); err != nil {
				return err
			}
		}

	case Listener:
		return el.setListener(v)

	case []Listener:
		for _, l := range v {
			if err := el.setListener(l); err != nil {
				return err
			}
		}

	case *Element:
		el.props.children = append(el.props.children, v)

	case []*Element:
		el.props.children = append(el.props.children, v...)

	case string:
		el.props.children = append(el.props.children, Text(v))

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		el.props.children = append(el.props.children, Text(PropString(v)))

	default:
		return fmt.Errorf("unsupported argument type %T", arg)
	}
	return nil
}

func (el *Element) setAttr(a Attr) error {
	if a.IsEmpty() {
		if a.Value != nil {
			return fmt.Errorf("attribute with empty key and value %v", a.Value)
		}
		// Ignore nil (allows conditional attributes)
		return nil
	}
	if a.Key == ChildrenKey {
		return fmt.Errorf("attribute key %q is reserved", ChildrenKey)
	}
	for i := range el.props.attrs {
		if el.props.attrs[i].Key == a.Key {
			el.props.attrs[i].Value = a.Value
			return nil
		}
	}
	el.props.attrs = append(el.props.attrs, a)
	return nil
}

func (el *Element) setListener(l Listener) error {
	if l.Handler == nil {
		return nil
	}
	if !l.Type.Valid() {
		return fmt.Errorf("unknown event type %d", l.Type)
	}
	fn, ok := normalizeHandler(l.Handler)
	if !ok {
		return fmt.Errorf("unsupported %s handler type %T", l.Type, l.Handler)
	}
	for i := range el.props.listeners {
		if el.props.listeners[i].typ == l.Type {
			el.props.listeners[i].fn = fn
			return nil
		}
	}
	el.props.listeners = append(el.props.listeners, listener{typ: l.Type, fn: fn})
	return nil
}

// Text creates a text element.
func Text(content string) *Element {
	return &Element{
		kind:  TextKind,
		props: Props{attrs: []Attr{{Key: NodeValue, Value: content}}},
	}
}

// Textf creates a formatted text element.
func Textf(format string, args ...any) *Element {
	return Text(fmt.Sprintf(format, args...))
}

// PropString converts an attribute value to the string handed to the host.
func PropString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
