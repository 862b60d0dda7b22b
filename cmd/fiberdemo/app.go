package main

import (
	"slices"
	"strings"

	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/fiber"
)

var todoApp = fiber.Define("TodoApp", func(ctx *fiber.Ctx, props element.Props) *element.Element {
	items, setItems := fiber.UseState(ctx, []string(nil))
	draft, setDraft := fiber.UseState(ctx, "")

	add := func() {
		text := strings.TrimSpace(draft)
		if text == "" {
			return
		}
		setItems(func(xs []string) []string { return append(slices.Clone(xs), text) })
		setDraft(func(string) string { return "" })
	}

	return element.Div(element.Class("todo"),
		element.H1(element.Value(props, "title", "Todos")),
		element.Form(
			element.OnSubmit(add),
			element.Input(
				element.Type("text"),
				element.Placeholder("What needs doing?"),
				element.InputValue(draft),
				element.OnInput(func(v string) { setDraft(func(string) string { return v }) }),
			),
			element.Button(element.ID("add"), element.Disabled(draft == ""), element.OnClick(add), "Add"),
		),
		element.If(len(items) == 0, element.P(element.Class("empty"), "Nothing to do")),
		element.Ul(element.Range(items, func(i int, s string) *element.Element {
			return todoItem.Element(element.Prop("label", s))
		})),
		summary.Element(element.Prop("total", len(items))),
	)
})

var todoItem = fiber.Define("TodoItem", func(ctx *fiber.Ctx, props element.Props) *element.Element {
	done, setDone := fiber.UseState(ctx, false)
	class := "item"
	if done {
		class = "item done"
	}
	return element.Li(element.Class(class),
		element.Span(element.Value(props, "label", "")),
		element.Button(
			element.Class("toggle"),
			element.OnClick(func() { setDone(func(d bool) bool { return !d }) }),
			element.IfElse(done, element.Text("undo"), element.Text("done")),
		),
	)
})

var summary = fiber.Define("Summary", func(ctx *fiber.Ctx, props element.Props) *element.Element {
	total := element.Value(props, "total", 0)
	return element.Footer(element.When(total > 0, func() *element.Element {
		return element.Textf("%d item(s)", total)
	}))
})
