package fiber

import "github.com/vango-dev/fiber/internal/errors"

// Sentinel errors. Returned errors carry detail and match these under
// errors.Is.
var (
	// ErrNilElement is returned by Mount for a nil element.
	ErrNilElement = errors.New("F002")

	// ErrHookOrder reports a hook read from a cell of another type or, with
	// Config.Debug, a changed number of hook calls between renders.
	ErrHookOrder = errors.New("F003")

	// ErrRenderPanic wraps a panic recovered from a component render.
	ErrRenderPanic = errors.New("F004")

	// ErrNotMounted is returned by ForceRerender before anything was mounted.
	ErrNotMounted = errors.New("F005")

	// ErrContainerChanged is returned when a mounted Root is mounted into a
	// different container.
	ErrContainerChanged = errors.New("F006")

	// ErrNoHostParent reports a node without a host-bearing ancestor, or a
	// Mount without a container.
	ErrNoHostParent = errors.New("F007")

	// ErrTooManyRerenders stops state updates issued on every render.
	ErrTooManyRerenders = errors.New("F008")

	// ErrUnknownComponent reports a component kind not created by Define.
	ErrUnknownComponent = errors.New("F009")

	// ErrPreempted is the abandon reason of a cycle replaced by a newer one.
	ErrPreempted = errors.New("F010")

	// ErrUnmounted is returned by operations on an unmounted Root.
	ErrUnmounted = errors.New("F011")
)
