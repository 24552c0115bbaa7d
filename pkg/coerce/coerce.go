// Package coerce converts attribute values into HTML attribute text.
//
// Each value domain has a Coercer: it renders a value, reports whether the
// attribute should be present at all, and compares two values so renderers
// can skip redundant DOM writes. A Registry picks the coercer for an
// attribute/value pair.
package coerce

import (
	"fmt"
	"image/color"
	"math/big"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/vdom"
)

// Coercer converts one value domain to attribute text.
type Coercer interface {
	// ToHTML returns the attribute text. ok is false when the attribute
	// must be omitted.
	ToHTML(v any) (s string, ok bool, err error)
	// Equal reports whether a and b produce the same attribute.
	Equal(a, b any) bool
}

// Registry selects coercers by attribute name first and by value type
// second. The zero value is not usable; call NewRegistry.
type Registry struct {
	mu     sync.RWMutex
	byAttr map[string]Coercer
}

// NewRegistry returns a registry with the style and class coercers bound to
// their attribute names.
func NewRegistry() *Registry {
	return &Registry{
		byAttr: map[string]Coercer{
			"style": Style,
			"class": Class,
		},
	}
}

var defaultRegistry = NewRegistry()

// Default returns the shared registry used when no registry is configured.
func Default() *Registry {
	return defaultRegistry
}

// Register binds c to an attribute name, replacing any previous binding.
func (r *Registry) Register(attr string, c Coercer) {
	r.mu.Lock()
	r.byAttr[attr] = c
	r.mu.Unlock()
}

// Lookup returns the coercer for attr holding v.
func (r *Registry) Lookup(attr string, v any) Coercer {
	if r != nil {
		r.mu.RLock()
		c, ok := r.byAttr[attr]
		r.mu.RUnlock()
		if ok {
			return c
		}
	}
	return ForValue(attr, v)
}

// ForValue picks a coercer from the value's Go type.
func ForValue(attr string, v any) Coercer {
	switch v.(type) {
	case nil:
		return String
	case bool:
		if strings.HasPrefix(attr, "aria-") || strings.HasPrefix(attr, "data-") {
			return EnumBool
		}
		return Bool
	case string:
		return String
	case *big.Int:
		return BigInt
	case time.Time, *time.Time:
		return Date
	case color.Color:
		return Color
	case fmt.Stringer:
		return String
	}
	if _, ok := asFloat(v); ok {
		return Number
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Chan:
		return Func
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array, reflect.Pointer:
		return JSON
	case reflect.String:
		return String
	}
	return String
}

// Read unwraps a reactive attribute value. A panic while reading is
// returned as *vdom.CoercionError so the caller can omit the attribute.
func Read(attr string, v any) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			val, err = nil, &vdom.CoercionError{Attr: attr, Value: v, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return reactive.Unwrap(v), nil
}

// Coerce unwraps a reactive value and converts it with the coercer chosen
// by reg. Failures, including panics inside the coercer, are returned as
// *vdom.CoercionError.
func Coerce(reg *Registry, attr string, v any) (s string, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &vdom.CoercionError{Attr: attr, Value: v, Err: fmt.Errorf("panic: %v", r)}
			s, ok = "", false
		}
	}()

	v = reactive.Unwrap(v)
	if reg == nil {
		reg = defaultRegistry
	}
	s, ok, err = reg.Lookup(attr, v).ToHTML(v)
	if err != nil {
		return "", false, &vdom.CoercionError{Attr: attr, Value: v, Err: err}
	}
	return s, ok, nil
}
