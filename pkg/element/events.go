package element

// EventType is the closed set of events a host can deliver.
type EventType uint8

const (
	EventClick EventType = iota + 1
	EventDblClick
	EventMouseDown
	EventMouseUp
	EventMouseEnter
	EventMouseLeave
	EventKeyDown
	EventKeyUp
	EventInput
	EventChange
	EventSubmit
	EventFocus
	EventBlur
)

var eventNames = [...]string{
	EventClick:      "click",
	EventDblClick:   "dblclick",
	EventMouseDown:  "mousedown",
	EventMouseUp:    "mouseup",
	EventMouseEnter: "mouseenter",
	EventMouseLeave: "mouseleave",
	EventKeyDown:    "keydown",
	EventKeyUp:      "keyup",
	EventInput:      "input",
	EventChange:     "change",
	EventSubmit:     "submit",
	EventFocus:      "focus",
	EventBlur:       "blur",
}

// String returns the host event name (e.g., "click").
func (t EventType) String() string {
	if t == 0 || int(t) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[t]
}

// Valid reports whether t is a member of the enumeration.
func (t EventType) Valid() bool {
	return t != 0 && int(t) < len(eventNames)
}

// ParseEventType maps a host event name to its EventType.
func ParseEventType(name string) (EventType, bool) {
	for i, n := range eventNames {
		if i > 0 && n == name {
			return EventType(i), true
		}
	}
	return 0, false
}

// Event is the payload delivered to handlers.
type Event struct {
	Type EventType

	// Value is the current value of input-like targets.
	Value string

	// Key is the key name for keyboard events.
	Key string
}

// HandlerFunc handles a host event.
type HandlerFunc func(Event)

// Listener binds a handler to an event type. Handler is one of func(),
// func(Event), func(string) (receives Event.Value) or HandlerFunc; Build
// normalizes it.
type Listener struct {
	Type    EventType
	Handler any
}

// normalizeHandler converts the supported handler shapes to HandlerFunc.
func normalizeHandler(h any) (HandlerFunc, bool) {
	switch fn := h.(type) {
	case HandlerFunc:
		return fn, fn != nil
	case func(Event):
		return fn, fn != nil
	case func():
		if fn == nil {
			return nil, false
		}
		return func(Event) { fn() }, true
	case func(string):
		if fn == nil {
			return nil, false
		}
		return func(e Event) { fn(e.Value) }, true
	default:
		return nil, false
	}
}

// On creates a Listener for t.
func On(t EventType, handler any) Listener { return Listener{Type: t, Handler: handler} }

// Mouse events

// OnClick handles click events.
func OnClick(handler any) Listener { return On(EventClick, handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler any) Listener { return On(EventDblClick, handler) }

// OnMouseDown handles mousedown events.
func OnMouseDown(handler any) Listener { return On(EventMouseDown, handler) }

// OnMouseUp handles mouseup events.
func OnMouseUp(handler any) Listener { return On(EventMouseUp, handler) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(handler any) Listener { return On(EventMouseEnter, handler) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(handler any) Listener { return On(EventMouseLeave, handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) Listener { return On(EventKeyDown, handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler any) Listener { return On(EventKeyUp, handler) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput(handler any) Listener { return On(EventInput, handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler any) Listener { return On(EventChange, handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) Listener { return On(EventSubmit, handler) }

// OnFocus handles focus events.
func OnFocus(handler any) Listener { return On(EventFocus, handler) }

// OnBlur handles blur events.
func OnBlur(handler any) Listener { return On(EventBlur, handler) }
