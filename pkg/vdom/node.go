package vdom

import (
	"strings"

	"github.com/vango-dev/ripple/pkg/reactive"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindComponent             // Component function
	KindRaw                   // Raw HTML (dangerous)
	KindInvalid               // Unrecognized type; fails at render time
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	case KindInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// ChildrenSource records where a node's children slot was filled from.
type ChildrenSource uint8

const (
	ChildrenNone      ChildrenSource = iota // no children given
	ChildrenFromArgs                        // variadic arguments to Build
	ChildrenFromProps                       // the "children" prop
)

// String returns the string representation of the ChildrenSource.
func (s ChildrenSource) String() string {
	switch s {
	case ChildrenFromArgs:
		return "args"
	case ChildrenFromProps:
		return "props"
	default:
		return "none"
	}
}

// Props maps attribute or prop names to values. A value may be a literal, a
// reactive.Reader or a Thunk.
type Props map[string]any

// Component renders props to a child value.
type Component func(props Props) any

// Thunk is a derived value recomputed on each read. Renderers treat it as a
// reactive source.
type Thunk = reactive.Thunk

type fragmentType struct{}

// FragmentMarker is the type passed to Build to create a fragment.
var FragmentMarker any = fragmentType{}

// Node is an immutable element descriptor.
type Node struct {
	Kind   Kind      // Node type
	Tag    string    // Element tag name, lower-cased (KindElement)
	Render Component // Component function (KindComponent)
	Props  Props     // Props exactly as given to Build
	Text   string    // Content for KindText and KindRaw
	Type   any       // Original type argument (KindInvalid)

	children any
	source   ChildrenSource
}

// Build creates a descriptor from a type, props and optional children.
//
// typeOrTag is a tag name, a Component (or func(Props) any) or
// FragmentMarker. Any other type yields a KindInvalid node that fails with
// an UnrenderableTypeError when rendered.
//
// When children are passed, the slot holds the single child or a []any of
// all of them and props["children"] is ignored. Otherwise the slot holds
// props["children"] if present. props is never modified.
func Build(typeOrTag any, props Props, children ...any) *Node {
	n := &Node{Props: props}

	switch t := typeOrTag.(type) {
	case string:
		if t == "" {
			n.Kind = KindInvalid
			n.Type = typeOrTag
			break
		}
		n.Kind = KindElement
		n.Tag = strings.ToLower(t)
	case Component:
		if t == nil {
			n.Kind = KindInvalid
			n.Type = typeOrTag
			break
		}
		n.Kind = KindComponent
		n.Render = t
	case func(Props) any:
		if t == nil {
			n.Kind = KindInvalid
			n.Type = typeOrTag
			break
		}
		n.Kind = KindComponent
		n.Render = t
	case fragmentType:
		n.Kind = KindFragment
	default:
		n.Kind = KindInvalid
		n.Type = typeOrTag
	}

	switch {
	case len(children) == 1:
		n.children = children[0]
		n.source = ChildrenFromArgs
	case len(children) > 1:
		n.children = append([]any(nil), children...)
		n.source = ChildrenFromArgs
	default:
		if v, ok := props["children"]; ok {
			n.children = v
			n.source = ChildrenFromProps
		}
	}

	return n
}

// Children returns the canonical children slot.
func (n *Node) Children() any {
	if n == nil {
		return nil
	}
	return n.children
}

// ChildrenSource reports which source filled the children slot.
func (n *Node) ChildrenSource() ChildrenSource {
	if n == nil {
		return ChildrenNone
	}
	return n.source
}

// ComponentProps returns the props handed to a component's render function:
// a shallow copy of Props whose "children" key holds the canonical slot, or
// is absent when the slot is empty. A component reading props["children"]
// therefore sees exactly what the descriptor renders.
func (n *Node) ComponentProps() Props {
	out := make(Props, len(n.Props)+1)
	for k, v := range n.Props {
		if k == "children" {
			continue
		}
		out[k] = v
	}
	if n.source != ChildrenNone {
		out["children"] = n.children
	}
	return out
}

// Key returns the reconciliation key, if any.
func (n *Node) Key() string {
	if n == nil {
		return ""
	}
	if k, ok := n.Props["key"].(string); ok {
		return k
	}
	return ""
}
