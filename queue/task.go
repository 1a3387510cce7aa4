package queue

import (
	"fmt"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/tree"
)

// Task represents a tree.Node to be developed
// on a tree.Tree.
type Task struct {
	// The node to be developed
	Node *tree.Node
	// The indices of the training rows satisfying the
	// criteria on the node and its ancestors. The rows
	// themselves live on the training table shared by
	// all workers and are never copied.
	Subset dataset.Subset
}

// ID returns a string that identifies the
// task, the ID of its Node.
func (t *Task) ID() string {
	return t.Node.ID
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s}", t.Node.ID)
}
