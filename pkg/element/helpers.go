package element

// If returns the element if condition is true, nil otherwise.
// The nil result still occupies its child position.
func If(condition bool, el *Element) *Element {
	if condition {
		return el
	}
	return nil
}

// IfElse returns the first element if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *Element) *Element {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *Element) *Element {
	if condition {
		return fn()
	}
	return nil
}

// Unless is the inverse of If.
func Unless(condition bool, el *Element) *Element {
	if !condition {
		return el
	}
	return nil
}

// Range maps items to elements, one position per item.
func Range[T any](items []T, fn func(int, T) *Element) []*Element {
	out := make([]*Element, len(items))
	for i, item := range items {
		out[i] = fn(i, item)
	}
	return out
}
