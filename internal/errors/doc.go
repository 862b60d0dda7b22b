// Package errors provides structured error values for the fiber engine.
//
// Every engine failure carries a stable code (e.g., "F003") that maps to:
//   - A category (element, render, commit, scheduler)
//   - A short message describing the error
//   - A detailed explanation
//
// Two errors with the same code match under errors.Is, so callers can test
// against the sentinels exported by the engine packages while the engine
// attaches detail and wrapped causes to the concrete value it returns.
//
// # Usage
//
//	err := errors.New("F003").
//	    WithDetail("component Counter called UseState 3 times, previously 2").
//	    WithSuggestion("Call hooks unconditionally and in the same order")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR F003: Hook order changed between renders
//	//
//	//   component Counter called UseState 3 times, previously 2
//	//
//	//   Hint: Call hooks unconditionally and in the same order
package errors
