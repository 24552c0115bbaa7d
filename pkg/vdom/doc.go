// Package vdom provides the element descriptors rendered by ripple.
//
// A Node describes one node of the virtual tree: an intrinsic element, a
// component, a fragment, text or raw HTML. Nodes are immutable values built
// by Build (or the JSX entry points in package jsx, or the H hyperscript
// helpers in this package) and consumed by the live DOM renderer (package
// dom) and the string renderer (package render).
//
// # Children
//
// A Node holds its children in exactly one slot, filled from exactly one
// source:
//
//	Build("div", nil, a, b)                              // variadic arguments
//	Build("div", Props{"children": []any{a, b}})         // the children prop
//	Build("div", Props{"children": x}, a, b)             // arguments win; x is ignored
//
// Renderers read the slot through Children and never look at
// Props["children"], so a child can never be rendered twice.
//
// # Values
//
// A child value is one of a closed set of cases: nil, bool, string, a number,
// *big.Int, *Node, a slice of child values, a reactive.Reader (cells and
// memos), or a Thunk. Prop values are literals, readers or thunks.
//
// # Element API
//
// The hyperscript helpers mix attributes and children the way a template
// reads:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    P(count), // count is a *reactive.Cell[int]
//	)
package vdom
