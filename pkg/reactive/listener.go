package reactive

import "sync/atomic"

// Listener is anything that can be notified when a dependency changes.
// Effects, memos and Subscribe callbacks implement it.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	MarkDirty()

	// ID returns a unique identifier used for deduplication.
	ID() uint64
}

// Cleanup is returned by effects. It runs before the effect re-runs and when
// the effect is disposed.
type Cleanup func()

// Reader is a type-erased reactive value. ReadAny subscribes the current
// listener exactly as the typed getter would.
type Reader interface {
	ReadAny() any
}

// Thunk is a derived value recomputed on every read.
type Thunk func() any

// ReadAny implements Reader.
func (t Thunk) ReadAny() any {
	if t == nil {
		return nil
	}
	return t()
}

// Unwrap reads v if it is a Reader or a func() any and returns the result.
// Any other value is returned unchanged.
func Unwrap(v any) any {
	switch r := v.(type) {
	case Reader:
		return r.ReadAny()
	case func() any:
		return r()
	default:
		return v
	}
}

// IsReactive reports whether Unwrap would read v.
func IsReactive(v any) bool {
	switch v.(type) {
	case Reader, func() any:
		return true
	default:
		return false
	}
}

var globalIDCounter uint64

func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// funcListener adapts a plain callback to Listener for Subscribe.
type funcListener struct {
	id uint64
	fn func()
}

func (f *funcListener) MarkDirty() { f.fn() }
func (f *funcListener) ID() uint64 { return f.id }
