package reactive

import (
	"sync"
	"sync/atomic"
)

// Owner is a disposal scope. Disposing an Owner disposes its child owners,
// then its effects, then runs its cleanups in reverse registration order.
//
// Owners form a tree that mirrors the rendered tree: the renderer creates
// one root Owner per mount and every effect run creates a child Owner for
// whatever it builds.
type Owner struct {
	id     uint64
	parent *Owner

	mu       sync.Mutex
	children []*Owner
	effects  []*Effect
	cleanups []func()

	disposed atomic.Bool
}

// NewOwner creates an Owner registered as a child of parent. A nil parent
// creates a root.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{id: nextID(), parent: parent}
	if parent != nil {
		if !parent.addChild(o) {
			// Parent already gone: the child is born disposed.
			o.disposed.Store(true)
		}
	}
	return o
}

// ID returns the owner's unique identifier.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent owner, or nil for a root.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed reports whether Dispose has run.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// Run executes fn with o as the current owner.
func (o *Owner) Run(fn func()) {
	old := setCurrentOwner(o)
	defer setCurrentOwner(old)
	fn()
}

// OnCleanup registers fn to run when o is disposed. On an already disposed
// owner fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	o.mu.Lock()
	if o.disposed.Load() {
		o.mu.Unlock()
		fn()
		return
	}
	o.cleanups = append(o.cleanups, fn)
	o.mu.Unlock()
}

// OnCleanup registers fn with the current owner. Without a current owner fn
// is never called.
func OnCleanup(fn func()) {
	if o := getCurrentOwner(); o != nil {
		o.OnCleanup(fn)
	}
}

// Dispose tears down the scope. It is idempotent.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	o.mu.Lock()
	children := o.children
	effects := o.effects
	cleanups := o.cleanups
	o.children, o.effects, o.cleanups = nil, nil, nil
	o.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	for _, e := range effects {
		e.dispose()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}
}

func (o *Owner) addChild(child *Owner) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disposed.Load() {
		return false
	}
	o.children = append(o.children, child)
	return true
}

func (o *Owner) removeChild(child *Owner) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) registerEffect(e *Effect) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disposed.Load() {
		return false
	}
	o.effects = append(o.effects, e)
	return true
}

func (o *Owner) removeEffect(e *Effect) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, c := range o.effects {
		if c == e {
			o.effects = append(o.effects[:i], o.effects[i+1:]...)
			return
		}
	}
}

// ChildCount returns the number of live child owners.
func (o *Owner) ChildCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.children)
}

// EffectCount returns the number of live effects registered directly on o.
func (o *Owner) EffectCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.effects)
}
