package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New("F003")
	if err.Code != "F003" {
		t.Errorf("Code = %q, want F003", err.Code)
	}
	if err.Category != CategoryRender {
		t.Errorf("Category = %q, want %q", err.Category, CategoryRender)
	}
	if err.Message != "Hook order changed between renders" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("F999")
	if err.Message != "Unknown error" {
		t.Errorf("Message = %q, want Unknown error", err.Message)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New("F005")
	err := fmt.Errorf("force rerender: %w", New("F005").WithDetail("no tree"))

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should match errors sharing a code")
	}
	if stderrors.Is(err, New("F006")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestWithDetailCopies(t *testing.T) {
	base := New("F001")
	detailed := base.WithDetail("zero kind")

	if base.Detail != "" {
		t.Error("WithDetail must not mutate the receiver")
	}
	if detailed.Detail != "zero kind" {
		t.Errorf("Detail = %q", detailed.Detail)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("F004").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q, want cause text", err.Error())
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "F004") != nil {
		t.Error("FromError(nil) should be nil")
	}

	existing := New("F003")
	if got := FromError(fmt.Errorf("ctx: %w", existing), "F004"); got != existing {
		t.Error("FromError should return the *Error already in the chain")
	}

	plain := stderrors.New("plain")
	if got := FromError(plain, "F004"); got.Code != "F004" || got.Wrapped != plain {
		t.Errorf("FromError(plain) = %+v", got)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("x: %w", New("F010"))); got != "F010" {
		t.Errorf("CodeOf = %q, want F010", got)
	}
	if got := CodeOf(stderrors.New("x")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("F003").WithDetail("Counter called UseState 3 times, previously 2").Format()

	for _, want := range []string{
		"ERROR F003: Hook order changed between renders",
		"Counter called UseState 3 times, previously 2",
		"Hint: Call hooks unconditionally",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	got := New("F006").WithDetail("container B").FormatCompact()
	want := "F006: Root is already mounted into another container (container B)"
	if got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q longer than 20", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
}

func TestRegistryComplete(t *testing.T) {
	for _, code := range Codes() {
		tmpl, ok := Lookup(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("code %s has incomplete template %+v", code, tmpl)
		}
	}
}
