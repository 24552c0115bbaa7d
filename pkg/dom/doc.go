// Package dom mounts descriptor trees into a live DOM and keeps it in sync
// with the reactive cells the tree reads.
//
// The DOM is an in-memory golang.org/x/net/html tree. Mount builds the
// nodes for a value, appends them to a container and returns a Disposer.
//
// Every dynamic child (a reader or thunk) and every component instance
// renders inside its own effect and owns a region: the ordered run of nodes
// it produced. When the effect read at least one cell, an empty comment
// node is placed after the region as its anchor. On change the new content
// is inserted before the anchor and then the old nodes are removed, so
// siblings outside the region are never touched. Static content gets no
// anchors and matches the string renderer's output node for node.
//
// Attributes bind individually: each runs in its own effect and is only
// rewritten when its coerced value changes.
//
// Components are re-rendered as a whole when a cell read in their body
// changes. Finer updates come from passing readers down as children or
// attribute values.
package dom
