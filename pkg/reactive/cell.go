package reactive

import (
	"reflect"
	"sync"
)

// signalBase provides type-erased subscriber management shared by Cell and
// Memo.
type signalBase struct {
	id    uint64
	subs  []Listener
	subMu sync.RWMutex
}

// sourceTracker is implemented by listeners that unsubscribe from their
// sources before re-running (effects and memos).
type sourceTracker interface {
	Listener
	addSource(source *signalBase)
}

func (s *signalBase) subscribe(l Listener) {
	if l == nil {
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}
	s.subs = append(s.subs, l)
}

func (s *signalBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			// Keep subscription order: notification order is observable.
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// track subscribes the current listener, if any.
func (s *signalBase) track() {
	listener := getCurrentListener()
	if listener == nil {
		return
	}
	s.subscribe(listener)
	if st, ok := listener.(sourceTracker); ok {
		st.addSource(s)
	}
}

// notifySubscribers notifies a snapshot of the subscribers so listeners may
// unsubscribe (or be disposed) while the notification is in flight.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	if getBatchDepth() > 0 {
		for _, sub := range subs {
			queuePendingUpdate(sub)
		}
		return
	}
	for _, sub := range subs {
		sub.MarkDirty()
	}
}

func (s *signalBase) subscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// Cell is a reactive value container. Reading it with Get inside a tracked
// scope subscribes that scope; Set notifies subscribers synchronously.
type Cell[T any] struct {
	base  signalBase
	value T
	mu    sync.RWMutex
	equal func(T, T) bool
}

// NewCell creates a cell holding initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		base:  signalBase{id: nextID()},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	value := c.value
	c.mu.RUnlock()

	c.base.track()
	return value
}

// ReadAny implements Reader.
func (c *Cell[T]) ReadAny() any {
	return c.Get()
}

// Peek returns the current value without subscribing.
func (c *Cell[T]) Peek() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set stores value and notifies subscribers if it changed.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	changed := !c.equals(c.value, value)
	if changed {
		c.value = value
	}
	c.mu.Unlock()

	if changed {
		c.base.notifySubscribers()
	}
}

// Update atomically replaces the value with fn(current).
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	old := c.value
	next := fn(old)
	changed := !c.equals(old, next)
	if changed {
		c.value = next
	}
	c.mu.Unlock()

	if changed {
		c.base.notifySubscribers()
	}
}

// Subscribe registers fn to run after every change. The returned function
// removes the subscription; calling it more than once is harmless.
func (c *Cell[T]) Subscribe(fn func()) (unsubscribe func()) {
	l := &funcListener{id: nextID(), fn: fn}
	c.base.subscribe(l)
	return func() { c.base.unsubscribe(l) }
}

// WithEquals replaces the equality used to suppress redundant notifications.
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.equal = fn
	return c
}

// ID returns the cell's unique identifier.
func (c *Cell[T]) ID() uint64 {
	return c.base.id
}

// Subscribers returns the number of live subscriptions.
func (c *Cell[T]) Subscribers() int {
	return c.base.subscriberCount()
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for the common comparable kinds and falls back to
// reflect.DeepEqual.
func defaultEquals[T any](a, b T) bool {
	// b is asserted with comma-ok: T may be an interface type holding
	// values of different dynamic types.
	switch av := any(a).(type) {
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case int64:
		bv, ok := any(b).(int64)
		return ok && av == bv
	case uint64:
		bv, ok := any(b).(uint64)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		// NaN != NaN would notify forever on repeated writes.
		return ok && (av == bv || (av != av && bv != bv))
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	default:
		return reflect.DeepEqual(a, b)
	}
}
