package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a lazily computed, cached derived value. It is itself a Reader:
// effects that read a memo are notified when any of its sources change.
type Memo[T any] struct {
	base signalBase

	compute func() T
	value   T
	valueMu sync.RWMutex
	valid   atomic.Bool

	sources   []*signalBase
	sourcesMu sync.Mutex

	computing atomic.Bool
}

// NewMemo creates a memo. compute runs on the first read.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base:    signalBase{id: nextID()},
		compute: compute,
	}
}

// Get returns the cached value, recomputing it if a source changed, and
// subscribes the current listener.
func (m *Memo[T]) Get() T {
	m.base.track()
	return m.Peek()
}

// ReadAny implements Reader.
func (m *Memo[T]) ReadAny() any {
	return m.Get()
}

// Peek returns the value without subscribing.
func (m *Memo[T]) Peek() T {
	if !m.valid.Load() {
		m.recompute()
	}
	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// MarkDirty implements Listener: the cache is invalidated and subscribers
// are notified so they pull the new value.
func (m *Memo[T]) MarkDirty() {
	if !m.valid.Swap(false) {
		return
	}
	m.base.notifySubscribers()
}

// ID implements Listener.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

func (m *Memo[T]) addSource(source *signalBase) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()
	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

func (m *Memo[T]) recompute() {
	if !m.computing.CompareAndSwap(false, true) {
		panic("reactive: circular memo dependency")
	}
	defer m.computing.Store(false)

	m.sourcesMu.Lock()
	old := m.sources
	m.sources = nil
	m.sourcesMu.Unlock()
	for _, s := range old {
		s.unsubscribe(m)
	}

	var value T
	WithListener(m, func() {
		value = m.compute()
	})

	m.valueMu.Lock()
	m.value = value
	m.valueMu.Unlock()
	m.valid.Store(true)
}
