package queue

import (
	"context"
	"testing"
	"time"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(id string, sub dataset.Subset) *Task {
	return &Task{Node: &tree.Node{ID: id}, Subset: sub}
}

func TestMemQueuePushPullFIFO(t *testing.T) {
	ctx := context.Background()
	q := New()
	defer q.Stop(ctx)

	require.NoError(t, q.Push(ctx, newTask("1", dataset.Subset{0, 1})))
	require.NoError(t, q.Push(ctx, newTask("2", dataset.Subset{2})))

	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pending)
	assert.Equal(t, 0, running)

	task, tctx, tcf, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, task)
	require.NotNil(t, tctx)
	defer tcf()
	assert.Equal(t, "1", task.ID())
	assert.Equal(t, dataset.Subset{0, 1}, task.Subset)

	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
	assert.Equal(t, 1, running)
}

func TestMemQueuePullFromEmptyQueue(t *testing.T) {
	ctx := context.Background()
	q := New()
	defer q.Stop(ctx)

	task, tctx, tcf, err := q.Pull(ctx)
	require.NoError(t, err)
	assert.Nil(t, task)
	assert.Nil(t, tctx)
	assert.Nil(t, tcf)
}

func TestMemQueueDropReturnsTaskToPending(t *testing.T) {
	ctx := context.Background()
	q := New()
	defer q.Stop(ctx)

	require.NoError(t, q.Push(ctx, newTask("1", nil)))
	task, _, tcf, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, task)
	tcf()

	require.NoError(t, q.Drop(ctx, task.ID()))
	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
	assert.Equal(t, 0, running)

	again, _, tcf, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, again)
	tcf()
	assert.Equal(t, task.ID(), again.ID())

	// dropping an unknown task is a no-op
	require.NoError(t, q.Drop(ctx, "unknown"))
}

func TestMemQueueComplete(t *testing.T) {
	ctx := context.Background()
	q := New()
	defer q.Stop(ctx)

	require.NoError(t, q.Push(ctx, newTask("1", nil)))
	task, _, tcf, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, task)
	tcf()

	require.NoError(t, q.Complete(ctx, task.ID()))
	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
	assert.Equal(t, 0, running)

	// completed tasks cannot be dropped back in
	require.NoError(t, q.Drop(ctx, task.ID()))
	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
	assert.Equal(t, 0, running)
}

func TestWaitFor(t *testing.T) {
	ctx := context.Background()
	q := New()
	defer q.Stop(ctx)

	require.NoError(t, WaitFor(ctx, q))

	require.NoError(t, q.Push(ctx, newTask("1", nil)))
	tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	err := WaitFor(tctx, q)
	assert.Equal(t, context.DeadlineExceeded, err)
}
