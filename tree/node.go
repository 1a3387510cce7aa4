package tree

import (
	"github.com/pmoros/arbol/feature"
)

/*
Node is a node of the tree
*/
type Node struct {
	// An ID to identify the node
	ID string
	// The ID for the parent of the node in the tree
	ParentID string
	// The IDs of the left and right children of the node.
	// They are both empty on leaves and both set on internal
	// nodes: rows satisfying the node's criterion continue
	// through the left child, the rest through the right one.
	LeftID  string
	RightID string
	// The depth at which the node was created: 0 for the root,
	// one more than the parent for every other node.
	Depth int
	// The test an internal node applies on one column of the
	// rows routed through it. Nil on leaves.
	Criterion feature.Criterion
	// The prediction for rows that reach this node. It is
	// computed for every node during growth, internal ones
	// included, as a fallback and for diagnostics.
	Prediction *Prediction
}

/*
Leaf returns whether the node is a leaf: a node without a
splitting criterion and without children.
*/
func (n *Node) Leaf() bool {
	return n.Criterion == nil
}
