package element

import (
	stderrors "errors"
	"testing"
)

type testComponent struct{ name string }

func (c *testComponent) Name() string { return c.name }

type funcComponent func()

func (funcComponent) Name() string { return "func" }

func TestBuildHostElement(t *testing.T) {
	el, err := Build(Tag("div"), Class("card"), ID("main"), H1("Title"), "tail")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if el.Kind() != Tag("div") {
		t.Errorf("Kind = %v, want div", el.Kind())
	}
	if got, _ := el.Props().Get("class"); got != "card" {
		t.Errorf("class = %v, want card", got)
	}
	children := el.Children()
	if len(children) != 2 {
		t.Fatalf("len(children) = %d, want 2", len(children))
	}
	if children[0].Kind() != Tag("h1") {
		t.Errorf("children[0] = %v, want h1", children[0].Kind())
	}
	if !children[1].Kind().IsText() {
		t.Errorf("children[1] should be text, got %v", children[1].Kind())
	}
	if got, _ := children[1].Props().Get(NodeValue); got != "tail" {
		t.Errorf("nodeValue = %v, want tail", got)
	}
}

func TestBuildKeepsAbsentPositions(t *testing.T) {
	el := Div(H1("A"), false, nil, If(false, P("x")), true, Span())

	children := el.Children()
	if len(children) != 6 {
		t.Fatalf("len(children) = %d, want 6", len(children))
	}
	for i := 1; i <= 4; i++ {
		if children[i] != nil {
			t.Errorf("children[%d] = %v, want nil", i, children[i])
		}
	}
	if children[5].Kind() != Tag("span") {
		t.Errorf("children[5] = %v, want span", children[5].Kind())
	}
}

func TestBuildNumbersBecomeText(t *testing.T) {
	el := P(42, 1.5)
	children := el.Children()
	if got, _ := children[0].Props().Get(NodeValue); got != "42" {
		t.Errorf("children[0] = %v, want 42", got)
	}
	if got, _ := children[1].Props().Get(NodeValue); got != "1.5" {
		t.Errorf("children[1] = %v, want 1.5", got)
	}
}

func TestBuildDuplicateAttrKeepsPosition(t *testing.T) {
	el := Div(ID("a"), Class("x"), ID("b"))
	attrs := el.Props().Attrs()
	if len(attrs) != 2 {
		t.Fatalf("len(attrs) = %d, want 2", len(attrs))
	}
	if attrs[0].Key != "id" || attrs[0].Value != "b" {
		t.Errorf("attrs[0] = %+v, want id=b", attrs[0])
	}
}

func TestBuildIgnoresEmptyAttrAndNilHandler(t *testing.T) {
	el := Button(Disabled(false), OnClick(nil))
	if el.Props().Len() != 0 {
		t.Errorf("Len() = %d, want 0", el.Props().Len())
	}
}

func TestBuildNormalizesHandlers(t *testing.T) {
	var clicks int
	var typed string

	el := Input(
		OnClick(func() { clicks++ }),
		OnInput(func(v string) { typed = v }),
		OnChange(func(e Event) { typed += "!" }),
	)

	click, ok := el.Props().Listener(EventClick)
	if !ok {
		t.Fatal("missing click listener")
	}
	click(Event{Type: EventClick})

	input, _ := el.Props().Listener(EventInput)
	input(Event{Type: EventInput, Value: "hello"})

	change, _ := el.Props().Listener(EventChange)
	change(Event{Type: EventChange})

	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if typed != "hello!" {
		t.Errorf("typed = %q, want hello!", typed)
	}

	types := el.Props().EventTypes()
	if len(types) != 3 || types[0] != EventClick || types[2] != EventChange {
		t.Errorf("EventTypes() = %v", types)
	}
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		args []any
	}{
		{"zero kind", Kind{}, nil},
		{"unsupported argument", Tag("div"), []any{struct{}{}}},
		{"reserved key", Tag("div"), []any{Attr{Key: ChildrenKey, Value: "x"}}},
		{"empty key with value", Tag("div"), []any{Attr{Value: "x"}}},
		{"unsupported handler", Tag("div"), []any{OnClick(func(int) {})}},
		{"unknown event", Tag("div"), []any{On(EventType(200), func() {})}},
		{"text with children", TextKind, []any{Span()}},
		{"non-comparable component", ComponentKind(funcComponent(func() {})), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.kind, tt.args...)
			if !stderrors.Is(err, ErrMalformed) {
				t.Errorf("Build() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestHPanicsOnMalformed(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !stderrors.Is(err, ErrMalformed) {
			t.Errorf("recover() = %v, want ErrMalformed", r)
		}
	}()
	Div(map[string]int{})
}

func TestComponentKindIdentity(t *testing.T) {
	a := &testComponent{name: "Counter"}
	b := &testComponent{name: "Counter"}

	if ComponentKind(a) != ComponentKind(a) {
		t.Error("same component should produce equal kinds")
	}
	if ComponentKind(a) == ComponentKind(b) {
		t.Error("distinct components with the same name must not be equal")
	}
	if !ComponentKind(a).IsComponent() {
		t.Error("IsComponent() = false")
	}
	if ComponentKind(a).String() != "Counter" {
		t.Errorf("String() = %q", ComponentKind(a).String())
	}
}

func TestBuildComponentElement(t *testing.T) {
	c := &testComponent{name: "Card"}
	el, err := Build(ComponentKind(c), Prop("title", "Hello"), Prop("count", 3))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := Value(el.Props(), "title", ""); got != "Hello" {
		t.Errorf("title = %q", got)
	}
	if got := Value(el.Props(), "count", 0); got != 3 {
		t.Errorf("count = %d", got)
	}
	if got := Value(el.Props(), "missing", "dflt"); got != "dflt" {
		t.Errorf("missing = %q", got)
	}
	if got := Value(el.Props(), "title", 0); got != 0 {
		t.Errorf("mistyped = %d, want fallback", got)
	}
}

func TestElementString(t *testing.T) {
	el := Div(H1("A"), nil)
	if got, want := el.String(), `div(h1("A"), <nil>)`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
