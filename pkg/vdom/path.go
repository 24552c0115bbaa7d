package vdom

import (
	"sort"
	"strings"
)

// NormalizePath splits a prop name on '$' and '.' into a property path.
// Segments after the first are converted from kebab-case to camelCase:
//
//	NormalizePath("style$font-size") // ["style", "fontSize"]
//	NormalizePath("class.active")    // ["class", "active"]
//	NormalizePath("aria-label")      // ["aria-label"]
//
// Empty segments are dropped.
func NormalizePath(name string) []string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '$' || r == '.'
	})
	for i := 1; i < len(parts); i++ {
		parts[i] = kebabToCamel(parts[i])
	}
	return parts
}

// IsPath reports whether name addresses a nested property.
func IsPath(name string) bool {
	return strings.ContainsAny(name, "$.")
}

func kebabToCamel(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	upper := false
	for _, r := range s {
		if r == '-' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		b.WriteRune(r)
	}
	return b.String()
}

// SetPath stores v at path inside m. Intermediate mappings are copied before
// being written so that maps shared with the caller are never modified. A
// string "style" or "class" is split into entries first, so
// {"style": "color: red", "style$margin": 0} keeps the color. Any other
// missing or non-mapping intermediate value is replaced by a new mapping.
func SetPath(m map[string]any, path []string, v any) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		m[path[0]] = v
		return
	}

	next := make(map[string]any)
	switch existing := m[path[0]].(type) {
	case map[string]any:
		for k, val := range existing {
			next[k] = val
		}
	case Props:
		for k, val := range existing {
			next[k] = val
		}
	case string:
		for k, val := range inlineEntries(path[0], existing) {
			next[k] = val
		}
	}
	SetPath(next, path[1:], v)
	m[path[0]] = next
}

// inlineEntries splits a string style into camelCase properties and a
// string class into enabled names. Other keys yield nothing.
func inlineEntries(key, s string) map[string]any {
	out := make(map[string]any)
	switch key {
	case "style":
		for _, decl := range strings.Split(s, ";") {
			prop, val, ok := strings.Cut(decl, ":")
			prop = strings.TrimSpace(prop)
			if !ok || prop == "" {
				continue
			}
			if !strings.HasPrefix(prop, "--") {
				prop = kebabToCamel(strings.ToLower(prop))
			}
			out[prop] = strings.TrimSpace(val)
		}
	case "class", "className":
		for _, name := range strings.Fields(s) {
			out[name] = true
		}
	}
	return out
}

// ExpandProps folds path-shaped keys ("style$color", "class.active") into
// nested mappings. Keys are applied in sorted order so "style" is applied
// before "style.color" and the more specific key wins. When props has no
// path-shaped keys it is returned unchanged.
func ExpandProps(props Props) Props {
	hasPath := false
	for k := range props {
		if IsPath(k) {
			hasPath = true
			break
		}
	}
	if !hasPath {
		return props
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Props, len(props))
	for _, k := range keys {
		SetPath(out, NormalizePath(k), props[k])
	}
	return out
}

// reservedProps are never rendered as attributes.
var reservedProps = map[string]bool{
	"children":                true,
	"key":                     true,
	"ref":                     true,
	"dangerouslySetInnerHTML": true,
}

// IsAttribute reports whether the prop name is emitted as an HTML attribute.
func IsAttribute(name string) bool {
	return name != "" && !reservedProps[name]
}

// AttrName maps JSX-style prop names to their HTML attribute names.
// Attribute names are case-insensitive in HTML and are lower-cased, the way
// a browser's setAttribute stores them.
func AttrName(name string) string {
	switch name {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	default:
		return strings.ToLower(name)
	}
}

// Attributes returns the element's attribute props, with paths expanded and
// names mapped, sorted by attribute name. Both renderers walk attributes in
// this order.
func Attributes(props Props) []Attr {
	expanded := ExpandProps(props)
	attrs := make([]Attr, 0, len(expanded))
	for k, v := range expanded {
		if !IsAttribute(k) {
			continue
		}
		name := AttrName(k)
		if name != k {
			if _, explicit := expanded[name]; explicit {
				// "class" beats "className" when both are present.
				continue
			}
		}
		attrs = append(attrs, Attr{Key: name, Value: v})
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })
	return attrs
}
