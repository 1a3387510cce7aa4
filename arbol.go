package arbol

import (
	"context"
	"time"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/queue"
	"github.com/pmoros/arbol/tree"
)

// Seed takes a context, a training table, a training config, a queue
// and a node store and sets everything up so that workers that
// consume from the queue afterwards grow a tree predicting the
// config's target column from the training data on the table.
// Specifically it will create the root node of the tree on the node
// store, covering every row of the table at depth 0, and push a task
// to branch it out on the queue.
// The function returns the tree that can be grown, or an error if
// the config is invalid for the table's schema, the table is empty,
// or the node cannot be created on the store or the task pushed to
// the queue (in the amount of time allowed by the given context).
func Seed(ctx context.Context, tbl *dataset.Table, config *TrainConfig, q queue.Queue, ns tree.NodeStore) (*tree.Tree, error) {
	if err := config.Validate(tbl.Schema()); err != nil {
		return nil, err
	}
	if tbl.Count() == 0 {
		return nil, ErrEmptyDataset
	}
	n := &tree.Node{}
	err := ns.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	task := &queue.Task{Node: n, Subset: tbl.All()}
	t := tree.New(n.ID, ns, config.Target)
	err = q.Push(ctx, task)
	if err != nil {
		ns.Delete(ctx, n)
		return nil, err
	}
	return t, nil
}

// BranchOut takes a context, a task, a tree, the training table and
// the training config, develops the node in the task using the
// task's row subset and returns the tasks to develop the resulting
// children nodes, or none when the node terminates as a leaf.
//
// The node's prediction is always computed from its subset, for
// internal nodes too. The node becomes a leaf when its depth reaches
// the maximum, its subset is too small to split, the dispersion of
// the target over its subset is already at or below the configured
// minimum, or no viable split exists. Finding no viable split is a
// normal termination signal, not an error.
func BranchOut(ctx context.Context, task *queue.Task, t *tree.Tree, tbl *dataset.Table, config *TrainConfig) (tasks []*queue.Task, e error) {
	prediction, err := tree.NewPredictionFromSubset(tbl, task.Subset, config.Target)
	if err != nil {
		if err != tree.ErrCannotPredictFromEmptySubset {
			return nil, err
		}
	}
	defer func() {
		err = t.NodeStore.Store(ctx, task.Node)
		if e == nil {
			e = err
		}
	}()
	task.Node.Prediction = prediction
	if task.Node.Depth >= config.MaxDepth || len(task.Subset) < 2 {
		return nil, nil
	}
	dispersion, err := tbl.Dispersion(task.Subset, config.Target)
	if err != nil {
		return nil, err
	}
	if dispersion <= config.MinDispersion {
		return nil, nil
	}
	partition, err := BestPartition(ctx, tbl, task.Subset, config)
	if err != nil {
		return nil, err
	}
	if partition == nil {
		return nil, nil
	}
	subsets := []dataset.Subset{partition.Left, partition.Right}
	childIDs := make([]string, 0, len(subsets))
	for _, sub := range subsets {
		child := &tree.Node{ParentID: task.Node.ID, Depth: task.Node.Depth + 1}
		err = t.NodeStore.Create(ctx, child)
		if err != nil {
			return nil, err
		}
		childIDs = append(childIDs, child.ID)
		tasks = append(tasks, &queue.Task{Node: child, Subset: sub})
	}
	task.Node.Criterion = partition.Criterion
	task.Node.LeftID = childIDs[0]
	task.Node.RightID = childIDs[1]
	return tasks, nil
}

// Work takes a context, a tree, the training table, the training
// config, a queue and an emptyQueueSleep duration and enters a loop
// in which it:
//   - pulls a task from the queue,
//   - branches its node out into new subnodes using BranchOut
//   - pushes the tasks for the new subnodes into the queue
//   - marks the task as completed on the queue
//
// If at some point no task can be pulled from the queue and the sum
// of tasks running and pending on the queue is 0, the worker ends
// returning nil. If no task can be pulled but the sum is not 0, then
// the worker will sleep for the given emptyQueueSleep duration and
// then retry.
//
// Work will return a non-nil error if the given context times out or
// is cancelled, if BranchOut returns a non-nil error or if an
// operation with the given queue returns a non-nil error.
//
// A single worker grows the tree depth-first on one goroutine.
// Several workers may process the same queue concurrently: their
// tasks cover disjoint row subsets and the split search only reads
// the immutable table, so the resulting tree does not depend on how
// tasks interleave.
func Work(ctx context.Context, t *tree.Tree, tbl *dataset.Table, config *TrainConfig, q queue.Queue, emptyQueueSleep time.Duration) error {
	for {
		task, tctx, tcf, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			r, p, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if r+p == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, t, tbl, config, q)
		cancel()
		tcf()
		if err != nil {
			return err
		}
		err = ctx.Err()
		if err != nil {
			return err
		}
	}
	return nil
}

// Grow takes a context, a training table and a training config and
// grows a tree synchronously on the calling goroutine, using an
// in-memory queue and node store. It is the convenience entry point
// for callers that do not need distributed growth.
func Grow(ctx context.Context, tbl *dataset.Table, config *TrainConfig) (*tree.Tree, error) {
	q := queue.New()
	defer q.Stop(ctx)
	t, err := Seed(ctx, tbl, config, q, tree.NewMemoryNodeStore())
	if err != nil {
		return nil, err
	}
	err = Work(ctx, t, tbl, config, q, time.Millisecond)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func workTask(ctx context.Context, task *queue.Task, t *tree.Tree, tbl *dataset.Table, config *TrainConfig, q queue.Queue) error {
	defer func() {
		q.Drop(ctx, task.ID())
	}()
	tasks, err := BranchOut(ctx, task, t, tbl, config)
	if err != nil {
		return err
	}
	for _, st := range tasks {
		err = q.Push(ctx, st)
		if err != nil {
			return err
		}
	}
	return q.Complete(ctx, task.ID())
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}
