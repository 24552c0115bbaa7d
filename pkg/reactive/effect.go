package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect. It runs once when created and again,
// synchronously, every time a cell or memo read during its last run changes.
//
// Each run executes under a fresh child Owner; the Owner of the previous run
// is disposed before the next run starts, so effects created while building
// content are torn down together with that content.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*signalBase
	sourcesMu sync.Mutex

	// owner is the scope the effect was created in; scope is the owner of
	// the current run.
	owner *Owner
	scope *Owner

	running  bool
	pending  atomic.Bool
	disposed atomic.Bool
	runs     int
}

// NewEffect creates an effect owned by the current owner and runs it.
func NewEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: getCurrentOwner(),
	}
	if e.owner != nil && !e.owner.registerEffect(e) {
		e.disposed.Store(true)
		return e
	}
	e.run()
	return e
}

// MarkDirty implements Listener. A dirty effect re-runs immediately; if it
// is already running (it wrote to one of its own sources) it runs once more
// after the current run finishes.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.running {
		e.pending.Store(true)
		return
	}
	e.run()
}

// ID implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

// Scope returns the owner of the current run.
func (e *Effect) Scope() *Owner {
	return e.scope
}

// Runs returns how many times the effect body has executed.
func (e *Effect) Runs() int {
	return e.runs
}

// SourceCount returns how many cells or memos the last run read.
func (e *Effect) SourceCount() int {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	return len(e.sources)
}

// Disposed reports whether the effect has been disposed.
func (e *Effect) Disposed() bool {
	return e.disposed.Load()
}

// Dispose stops the effect and unregisters it from its owner.
func (e *Effect) Dispose() {
	e.dispose()
	if e.owner != nil {
		e.owner.removeEffect(e)
	}
}

func (e *Effect) run() {
	for {
		if e.disposed.Load() {
			return
		}
		e.pending.Store(false)
		e.teardown()
		e.scope = NewOwner(e.owner)

		e.execute()
		e.runs++

		if e.disposed.Load() {
			// Disposed from inside its own run: undo what the run set up.
			e.teardown()
			return
		}
		if !e.pending.Load() {
			return
		}
	}
}

func (e *Effect) execute() {
	e.running = true
	oldListener := setCurrentListener(e)
	oldOwner := setCurrentOwner(e.scope)
	defer func() {
		setCurrentOwner(oldOwner)
		setCurrentListener(oldListener)
		e.running = false
	}()

	e.cleanup = e.fn()
}

// teardown undoes the previous run: cleanup, subscriptions, child scope.
func (e *Effect) teardown() {
	if e.cleanup != nil {
		c := e.cleanup
		e.cleanup = nil
		c()
	}

	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()
	for _, source := range sources {
		source.unsubscribe(e)
	}

	if e.scope != nil {
		e.scope.Dispose()
		e.scope = nil
	}
}

func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}
	e.teardown()
}
