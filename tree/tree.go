package tree

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
)

// Tree represents a decision tree. It is composed of a
// NodeStore where all its nodes are stored, the id for the
// root node of the tree and the index of the target column
// it is able to predict.
type Tree struct {
	NodeStore
	RootID string
	Target int
}

/*
Result is the outcome of evaluating one row: either a prediction
or the error that prevented it. Per-row errors do not abort the
evaluation of the other rows in a batch.
*/
type Result struct {
	Prediction *Prediction
	Err        error
}

// New takes the ID for the root Node, a NodeStore and the index of
// the target column and returns a tree composed of the nodes in the
// NodeStore connected to the node with the given root ID.
func New(rootID string, nodeStore NodeStore, target int) *Tree {
	return &Tree{nodeStore, rootID, target}
}

// Predict takes a row and walks the tree from the root to a leaf
// evaluating every traversed node's criterion against the row's
// value for the criterion's column. It returns the reached leaf's
// prediction, or an error if the row cannot be routed: a missing
// value or a value whose kind does not match the tested column.
func (t *Tree) Predict(ctx context.Context, r dataset.Row) (*Prediction, error) {
	if t == nil {
		return nil, fmt.Errorf("nil tree cannot predict rows")
	}
	n, err := t.Get(ctx, t.RootID)
	if err != nil {
		return nil, fmt.Errorf("predicting row: retrieving node %v: %v", t.RootID, err)
	}
	if n == nil {
		return nil, fmt.Errorf("predicting row: root node %v not found", t.RootID)
	}
	for !n.Leaf() {
		v, err := r.Value(n.Criterion.Column())
		if err != nil {
			return nil, err
		}
		ok, err := n.Criterion.SatisfiedBy(v)
		if err != nil {
			return nil, err
		}
		childID := n.RightID
		if ok {
			childID = n.LeftID
		}
		child, err := t.Get(ctx, childID)
		if err != nil {
			return nil, fmt.Errorf("predicting row: retrieving node %v: %v", childID, err)
		}
		if child == nil {
			return nil, fmt.Errorf("predicting row: node %v not found", childID)
		}
		n = child
	}
	if n.Prediction == nil {
		return nil, ErrCannotPredictFromRow
	}
	return n.Prediction, nil
}

/*
Evaluate takes a slice of rows and returns one Result per row, in
the same order. Rows that cannot be routed because of a schema
mismatch get their error recorded on their Result without affecting
the other rows. A non-nil error is returned only when the tree's
node store fails, in which case the whole evaluation is aborted.
*/
func (t *Tree) Evaluate(ctx context.Context, rows []dataset.Row) ([]Result, error) {
	results := make([]Result, len(rows))
	for i, r := range rows {
		p, err := t.Predict(ctx, r)
		if err != nil && !rowError(err) {
			return nil, fmt.Errorf("evaluating row %d: %v", i, err)
		}
		results[i] = Result{Prediction: p, Err: err}
	}
	return results, nil
}

// rowError reports whether an error concerns only the row being
// predicted, so that a batch evaluation can record it and move on.
// Rows fail alone on a kind-mismatched value, a missing value or a
// node without a recorded prediction.
func rowError(err error) bool {
	var ke *feature.ValueKindError
	if errors.As(err, &ke) {
		return true
	}
	var re *dataset.ColumnRangeError
	if errors.As(err, &re) {
		return true
	}
	var pe PredictionError
	return errors.As(err, &pe)
}

/*
Test takes a context.Context and a table and returns three values:
  - the aggregate metric of the tree over the table: the prediction
    success rate when the tree's target column is categorical, or the
    mean absolute percentage deviation of the predicted means when it
    is numeric
  - the number of rows that failed to produce a prediction
  - an error if a prediction could not be obtained for reasons other
    than per-row failures. If this is not nil, the other values will
    be 0.0 and 0 respectively
*/
func (t *Tree) Test(ctx context.Context, tbl *dataset.Table) (float64, int, error) {
	if t == nil || tbl.Count() == 0 {
		return 0.0, 0, nil
	}
	target := tbl.Schema().Column(t.Target)
	if target == nil {
		return 0.0, 0, fmt.Errorf("testing tree: target column %d out of schema range", t.Target)
	}
	rows := make([]dataset.Row, tbl.Count())
	for i := range rows {
		rows[i] = tbl.Row(i)
	}
	results, err := t.Evaluate(ctx, rows)
	if err != nil {
		return 0.0, 0, err
	}
	targetKind := target.Kind()
	var metric float64
	var errCount int
	for i, res := range results {
		if res.Err != nil {
			errCount++
			continue
		}
		actual, err := rows[i].Value(t.Target)
		if err != nil {
			return 0.0, 0, err
		}
		if targetKind == feature.Categorical {
			code, _ := res.Prediction.PredictedClass()
			if code == actual.Category() {
				metric += 1.0
			}
		} else {
			deviation := math.Abs(res.Prediction.Mean() - float64(actual.Number()))
			metric += deviation / math.Max(1e-5, float64(actual.Number()))
		}
	}
	metric = metric / float64(tbl.Count())
	return metric, errCount, nil
}

// Traverse takes a context, a bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true. The left
// child is always visited before the right one.
// If the given context times out or is cancelled, the context
// error is returned. If a node cannot be retrieved from the
// tree's node store, the obtained error is returned. If the
// call to the function returns an error, the traversing is
// aborted and the error is returned. Otherwise, when the
// traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	n, err := t.NodeStore.Get(ctx, t.RootID)
	if err != nil {
		return err
	}
	return t.traverse(ctx, n, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	if !n.Leaf() {
		for _, childID := range []string{n.LeftID, n.RightID} {
			child, err := t.NodeStore.Get(ctx, childID)
			if err != nil {
				return err
			}
			err = t.traverse(ctx, child, bottomup, f)
			if err != nil {
				return err
			}
		}
	}
	if bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) String() string {
	return t.subtreeString(t.RootID)
}

func (t *Tree) subtreeString(nodeID string) string {
	n, err := t.NodeStore.Get(context.TODO(), nodeID)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	result := fmt.Sprintf("[%s]\n", nodeID)
	if n.Criterion != nil {
		result = fmt.Sprintf("%s{ %v }\n", result, n.Criterion)
	}
	if n.Prediction != nil {
		result = fmt.Sprintf("%s{ %v }\n", result, n.Prediction)
	}
	if n.Leaf() {
		result = fmt.Sprintf("%s \n", result)
		return result
	}
	result = fmt.Sprintf("%s|\n", result)
	subtreeIDs := []string{n.LeftID, n.RightID}
	for i, subtreeID := range subtreeIDs {
		for j, line := range strings.Split(t.subtreeString(subtreeID), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else {
					if i == len(subtreeIDs)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
