package element

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// AttrOf creates an arbitrary attribute.
func AttrOf(key string, value any) Attr { return attr(key, value) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Style sets the style attribute.
func Style(style string) Attr { return attr("style", style) }

// Title sets the title attribute.
func Title(title string) Attr { return attr("title", title) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Form attributes

// InputValue sets the value attribute.
func InputValue(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Disabled sets the disabled attribute when true.
func Disabled(disabled bool) Attr {
	if !disabled {
		return Attr{}
	}
	return attr("disabled", true)
}

// Checked sets the checked attribute when true.
func Checked(checked bool) Attr {
	if !checked {
		return Attr{}
	}
	return attr("checked", true)
}

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }

// Component props

// Prop passes an arbitrary value to a component. Values reaching a host
// element are converted with PropString.
func Prop(key string, value any) Attr { return attr(key, value) }
