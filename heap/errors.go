package heap

import "errors"

// Sentinel errors returned by the heap's public API. Every recoverable
// failure is one of these, wrapped with context via fmt.Errorf("heap: ...:
// %w", Err...) so callers can errors.Is against the sentinel while still
// getting a human-readable message.
var (
	// ErrOutOfMemory is returned when the cell pool has no free cells left
	// and is not (or can no longer be) grown.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrLockSaturated is returned by Lock when a cell is already holding
	// cellfmt.LockMax locks. Saturation is reported, never silently
	// clamped.
	ErrLockSaturated = errors.New("lock count saturated")

	// ErrTypeMismatch is returned when an operation is invoked against a
	// cell of an incompatible variant (e.g. ArrayLength on an integer).
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrIndexOutOfRange is returned by array-buffer accessors past the end
	// of the view, and by Set-style array operations where growth is not
	// permitted.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInterrupted names a cooperative interruption. No function in this
	// package returns it; raster's FillPoly and FillVectorChar stop early
	// without an error when their Interrupter reports true.
	ErrInterrupted = errors.New("interrupted")

	// ErrNullRef is returned when an operation that requires a non-null
	// handle receives the null ref.
	ErrNullRef = errors.New("null reference")
)
