package coerce

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vango-dev/ripple/pkg/children"
	"github.com/vango-dev/ripple/pkg/reactive"
)

// Predefined coercers.
var (
	Bool     Coercer = boolCoercer{}
	EnumBool Coercer = enumBoolCoercer{}
	Number   Coercer = numberCoercer{}
	BigInt   Coercer = bigIntCoercer{}
	Date     Coercer = dateCoercer{}
	JSON     Coercer = jsonCoercer{}
	Color    Coercer = colorCoercer{}
	Style    Coercer = styleCoercer{}
	Class    Coercer = classCoercer{}
	String   Coercer = stringCoercer{}
	Func     Coercer = funcCoercer{}
)

// ErrDateRange is returned for times that have no RFC 3339 representation.
var ErrDateRange = errors.New("year outside [0,9999]")

type boolCoercer struct{}

func (boolCoercer) ToHTML(v any) (string, bool, error) {
	b, _ := v.(bool)
	return "", b, nil
}

func (boolCoercer) Equal(a, b any) bool { return a == b }

// enumBoolCoercer serializes booleans as "true"/"false" for aria-* and
// data-* attributes, where false is a meaningful value.
type enumBoolCoercer struct{}

func (enumBoolCoercer) ToHTML(v any) (string, bool, error) {
	b, _ := v.(bool)
	if b {
		return "true", true, nil
	}
	return "false", true, nil
}

func (enumBoolCoercer) Equal(a, b any) bool { return a == b }

type numberCoercer struct{}

func (numberCoercer) ToHTML(v any) (string, bool, error) {
	if s, ok := children.FormatNumber(v); ok {
		return s, true, nil
	}
	if f, ok := asFloat(v); ok {
		s, _ := children.FormatNumber(f)
		return s, true, nil
	}
	return "", false, fmt.Errorf("not a number: %T", v)
}

func (numberCoercer) Equal(a, b any) bool {
	fa, okA := asFloat(a)
	fb, okB := asFloat(b)
	if !okA || !okB {
		return false
	}
	if math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	return fa == fb && reflect.TypeOf(a) == reflect.TypeOf(b)
}

func asFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

type bigIntCoercer struct{}

func (bigIntCoercer) ToHTML(v any) (string, bool, error) {
	n, _ := v.(*big.Int)
	if n == nil {
		return "", false, nil
	}
	return n.String(), true, nil
}

func (bigIntCoercer) Equal(a, b any) bool {
	x, _ := a.(*big.Int)
	y, _ := b.(*big.Int)
	if x == nil || y == nil {
		return x == y
	}
	return x.Cmp(y) == 0
}

type dateCoercer struct{}

func (dateCoercer) ToHTML(v any) (string, bool, error) {
	t, ok := asTime(v)
	if !ok {
		return "", false, nil
	}
	if y := t.Year(); y < 0 || y > 9999 {
		return "", false, fmt.Errorf("%w: %d", ErrDateRange, y)
	}
	return t.Format(time.RFC3339Nano), true, nil
}

func (dateCoercer) Equal(a, b any) bool {
	x, okA := asTime(a)
	y, okB := asTime(b)
	return okA && okB && x.Equal(y)
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

type jsonCoercer struct{}

func (jsonCoercer) ToHTML(v any) (string, bool, error) {
	if isNil(v) {
		return "", false, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (jsonCoercer) Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

type colorCoercer struct{}

func (colorCoercer) ToHTML(v any) (string, bool, error) {
	c, ok := v.(color.Color)
	if !ok || isNil(v) {
		return "", false, nil
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), true, nil
	}
	alpha, _ := children.FormatNumber(math.Round(float64(n.A)/255*1000) / 1000)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", n.R, n.G, n.B, alpha), true, nil
}

func (colorCoercer) Equal(a, b any) bool {
	x, okA := a.(color.Color)
	y, okB := b.(color.Color)
	if !okA || !okB {
		return false
	}
	return color.NRGBAModel.Convert(x) == color.NRGBAModel.Convert(y)
}

// styleCoercer accepts a CSS string or a property mapping. Mapping keys in
// camelCase are written in kebab-case, entries are sorted and nil or false
// values are dropped. Nested readers are read through, so a style binding
// tracks every cell it touches.
type styleCoercer struct{}

func (styleCoercer) ToHTML(v any) (string, bool, error) {
	switch s := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return s, s != "", nil
	case map[string]any:
		return styleText(s)
	case map[string]string:
		m := make(map[string]any, len(s))
		for k, val := range s {
			m[k] = val
		}
		return styleText(m)
	}
	return "", false, fmt.Errorf("unsupported style value %T", v)
}

func styleText(m map[string]any) (string, bool, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		val := reactive.Unwrap(m[k])
		if val == nil || val == false {
			continue
		}
		var text string
		if s, ok := val.(string); ok {
			text = s
		} else if s, ok := children.FormatNumber(val); ok {
			text = s
		} else {
			text = fmt.Sprint(val)
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(camelToKebab(k))
		b.WriteString(": ")
		b.WriteString(text)
		b.WriteByte(';')
	}
	if b.Len() == 0 {
		return "", false, nil
	}
	return b.String(), true, nil
}

func (c styleCoercer) Equal(a, b any) bool { return textEqual(c, a, b) }

func camelToKebab(s string) string {
	if strings.HasPrefix(s, "--") {
		// Custom properties are case sensitive.
		return s
	}
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// classCoercer accepts a string, a list of names, or a mapping from class
// name to condition. Conditions may be readers.
type classCoercer struct{}

func (classCoercer) ToHTML(v any) (string, bool, error) {
	var names []string
	switch c := v.(type) {
	case nil:
		return "", false, nil
	case string:
		names = strings.Fields(c)
	case []string:
		for _, s := range c {
			names = append(names, strings.Fields(s)...)
		}
	case []any:
		for _, item := range c {
			item = reactive.Unwrap(item)
			if s, ok := item.(string); ok {
				names = append(names, strings.Fields(s)...)
			}
		}
	case map[string]any:
		for name, cond := range c {
			if truthy(reactive.Unwrap(cond)) {
				names = append(names, strings.Fields(name)...)
			}
		}
	case map[string]bool:
		for name, on := range c {
			if on {
				names = append(names, strings.Fields(name)...)
			}
		}
	default:
		return "", false, fmt.Errorf("unsupported class value %T", v)
	}

	if len(names) == 0 {
		return "", false, nil
	}
	sort.Strings(names)
	out := names[:1]
	for _, n := range names[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return strings.Join(out, " "), true, nil
}

func (c classCoercer) Equal(a, b any) bool { return textEqual(c, a, b) }

type stringCoercer struct{}

func (stringCoercer) ToHTML(v any) (string, bool, error) {
	switch s := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return s, true, nil
	case fmt.Stringer:
		return s.String(), true, nil
	}
	return fmt.Sprint(v), true, nil
}

func (c stringCoercer) Equal(a, b any) bool {
	if x, ok := a.(string); ok {
		y, ok := b.(string)
		return ok && x == y
	}
	return textEqual(c, a, b)
}

// funcCoercer drops event handlers and other callables.
type funcCoercer struct{}

func (funcCoercer) ToHTML(any) (string, bool, error) { return "", false, nil }

func (funcCoercer) Equal(a, b any) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b) && reflect.TypeOf(a) != nil &&
		reflect.TypeOf(a).Kind() == reflect.Func
}

// textEqual compares two values by their serialized form.
func textEqual(c Coercer, a, b any) bool {
	sa, okA, errA := c.ToHTML(a)
	sb, okB, errB := c.ToHTML(b)
	if errA != nil || errB != nil {
		return false
	}
	return okA == okB && sa == sb
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, ok := asFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
