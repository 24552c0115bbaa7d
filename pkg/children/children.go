// Package children flattens a descriptor's children slot into an ordered
// list of render units.
//
// The walk is depth-first and order-preserving. nil and booleans render
// nothing; strings and numbers become text (0, NaN and "" included);
// descriptors are kept whole; readers and thunks become dynamic units that
// the caller evaluates. Any other value is an UnrenderableTypeError.
package children

import (
	"math"
	"math/big"
	"reflect"
	"strconv"

	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/vdom"
)

// UnitKind classifies a resolved unit.
type UnitKind uint8

const (
	UnitText    UnitKind = iota // static text
	UnitElement                 // a descriptor, rendered as a subtree
	UnitDynamic                 // a reader or thunk, rendered in a region
)

func (k UnitKind) String() string {
	switch k {
	case UnitText:
		return "Text"
	case UnitElement:
		return "Element"
	case UnitDynamic:
		return "Dynamic"
	default:
		return "Unknown"
	}
}

// Unit is one flattened child.
type Unit struct {
	Kind   UnitKind
	Text   string     // UnitText
	Node   *vdom.Node // UnitElement
	Source any        // UnitDynamic: a reactive.Reader or a func() any
}

// Eval reads a dynamic unit's current value. Reads are tracked by whatever
// listener is active on the calling goroutine.
func (u Unit) Eval() any {
	if u.Kind != UnitDynamic {
		return nil
	}
	return reactive.Unwrap(u.Source)
}

// Resolve flattens v into units.
func Resolve(v any) ([]Unit, error) {
	return Append(nil, v)
}

// Append flattens v and appends the units to dst. On error dst is returned
// with whatever was appended before the failing value.
func Append(dst []Unit, v any) ([]Unit, error) {
	switch x := v.(type) {
	case nil, bool:
		return dst, nil
	case string:
		return append(dst, Unit{Kind: UnitText, Text: x}), nil
	case *vdom.Node:
		if x == nil {
			return dst, nil
		}
		return append(dst, Unit{Kind: UnitElement, Node: x}), nil
	case []any:
		var err error
		for _, item := range x {
			if dst, err = Append(dst, item); err != nil {
				return dst, err
			}
		}
		return dst, nil
	case []*vdom.Node:
		for _, n := range x {
			if n != nil {
				dst = append(dst, Unit{Kind: UnitElement, Node: n})
			}
		}
		return dst, nil
	case []string:
		for _, s := range x {
			dst = append(dst, Unit{Kind: UnitText, Text: s})
		}
		return dst, nil
	case reactive.Reader:
		return append(dst, Unit{Kind: UnitDynamic, Source: x}), nil
	case func() any:
		if x == nil {
			return dst, nil
		}
		return append(dst, Unit{Kind: UnitDynamic, Source: reactive.Thunk(x)}), nil
	case *big.Int:
		if x == nil {
			return dst, nil
		}
		return append(dst, Unit{Kind: UnitText, Text: x.String()}), nil
	}

	if s, ok := FormatNumber(v); ok {
		return append(dst, Unit{Kind: UnitText, Text: s}), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		var err error
		for i := 0; i < rv.Len(); i++ {
			if dst, err = Append(dst, rv.Index(i).Interface()); err != nil {
				return dst, err
			}
		}
		return dst, nil
	case reflect.String:
		return append(dst, Unit{Kind: UnitText, Text: rv.String()}), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return append(dst, Unit{Kind: UnitText, Text: strconv.FormatInt(rv.Int(), 10)}), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return append(dst, Unit{Kind: UnitText, Text: strconv.FormatUint(rv.Uint(), 10)}), nil
	case reflect.Float32, reflect.Float64:
		return append(dst, Unit{Kind: UnitText, Text: formatFloat(rv.Float(), rv.Type().Bits())}), nil
	}

	return dst, &vdom.UnrenderableTypeError{Type: v}
}

// FormatNumber renders Go numeric kinds the way a JavaScript engine prints
// numbers. It reports false for non-numeric values.
func FormatNumber(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case uintptr:
		return strconv.FormatUint(uint64(n), 10), true
	case float32:
		return formatFloat(float64(n), 32), true
	case float64:
		return formatFloat(n, 64), true
	}
	return "", false
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		// Covers -0.
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, bits)
		// Go writes e+07, JavaScript writes e+7.
		return trimExponent(s)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

func trimExponent(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != 'e' || i+2 >= len(s) {
			continue
		}
		j := i + 2
		for j < len(s)-1 && s[j] == '0' {
			j++
		}
		return s[:i+2] + s[j:]
	}
	return s
}
