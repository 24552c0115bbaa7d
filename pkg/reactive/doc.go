// Package reactive provides the reactive cell collaborator used by the
// ripple renderers.
//
// The system is fine-grained in the SolidJS sense: dependencies are tracked
// at runtime. Reading a Cell inside a tracked scope (an Effect or a Memo
// computation) subscribes that scope to the cell, and writing the cell
// notifies every subscriber synchronously, before Set returns.
//
// # Core Types
//
// Cell[T] is a reactive value container:
//
//	count := NewCell(0)
//	value := count.Get() // Read (subscribes current listener)
//	count.Set(5)         // Write (notifies subscribers)
//
// Memo[T] is a cached derived computation:
//
//	doubled := NewMemo(func() int { return count.Get() * 2 })
//
// Effect runs side effects when dependencies change:
//
//	NewEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// Owner is a disposal scope. Effects created while an Owner is current are
// disposed together with it; every effect run gets its own child Owner, so
// anything created during the previous run is torn down before the next one.
//
// # Type-erased reads
//
// Renderers do not know the element type of a cell. Anything implementing
// Reader (Cell, Memo, Thunk) can be read through ReadAny, and Unwrap reads a
// value if it is reactive and returns it unchanged otherwise.
//
// # Batching
//
// Batch defers notifications until the outermost batch completes; each
// listener is notified at most once per batch.
//
// # Thread Safety
//
// Cells are safe to read and write from multiple goroutines. The tracking
// context is per goroutine. Effects run on the goroutine that performed the
// write, so callers that mutate a shared DOM must serialize their writes.
package reactive
