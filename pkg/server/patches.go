package server

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/ripple/pkg/dom"
	"github.com/vango-dev/ripple/pkg/protocol"
)

// patchFor translates a DOM write into a patch addressed in the client's
// tree, which matches the server tree just before the write. It reports
// false for nodes outside root.
func patchFor(root *html.Node, m dom.Mutation) (protocol.Patch, bool) {
	switch m.Op {
	case dom.OpInsert:
		parent, ok := nodePath(root, m.Parent)
		if !ok {
			return protocol.Patch{}, false
		}
		// The node is attached already; its index is where it goes in
		// the tree without it.
		return protocol.NewInsertHTMLPatch(parent, childIndex(m.Node), dom.OuterHTML(m.Node)), true
	case dom.OpRemove:
		path, ok := nodePath(root, m.Node)
		if !ok || len(path) == 0 {
			return protocol.Patch{}, false
		}
		return protocol.NewRemovePatch(path), true
	case dom.OpSetAttr:
		path, ok := nodePath(root, m.Node)
		if !ok {
			return protocol.Patch{}, false
		}
		return protocol.NewSetAttrPatch(path, m.Key, m.Value), true
	case dom.OpRemoveAttr:
		path, ok := nodePath(root, m.Node)
		if !ok {
			return protocol.Patch{}, false
		}
		return protocol.NewRemoveAttrPatch(path, m.Key), true
	}
	return protocol.Patch{}, false
}

// nodePath returns the child indexes leading from root to n.
func nodePath(root, n *html.Node) ([]int, bool) {
	var rev []int
	for cur := n; cur != root; cur = cur.Parent {
		if cur == nil {
			return nil, false
		}
		rev = append(rev, childIndex(cur))
	}
	path := make([]int, len(rev))
	for i, idx := range rev {
		path[len(rev)-1-i] = idx
	}
	return path, true
}

func childIndex(n *html.Node) int {
	i := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		i++
	}
	return i
}
