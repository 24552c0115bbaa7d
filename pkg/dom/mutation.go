package dom

import "golang.org/x/net/html"

// Op is a live DOM write.
type Op uint8

const (
	OpInsert     Op = iota // Node inserted into Parent before Before (nil appends)
	OpRemove               // Node about to be removed from Parent
	OpSetAttr              // Key set to Value on Node
	OpRemoveAttr           // Key removed from Node
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpSetAttr:
		return "set_attr"
	case OpRemoveAttr:
		return "remove_attr"
	default:
		return "unknown"
	}
}

// Mutation describes one DOM write.
//
// Inserts are reported after the node is attached. Removals are reported
// while the node is still attached, so an observer can locate it.
type Mutation struct {
	Op     Op
	Parent *html.Node
	Node   *html.Node
	Before *html.Node
	Key    string
	Value  string
}

// Observer receives the mutations made to a mounted tree after Mount
// returns. Writes into nodes that are not yet attached to the container are
// not reported; they are part of the subtree of a later OpInsert.
type Observer interface {
	Mutated(m Mutation)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(m Mutation)

// Mutated calls f(m).
func (f ObserverFunc) Mutated(m Mutation) { f(m) }
