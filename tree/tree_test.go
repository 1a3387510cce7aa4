package tree

import (
	"context"
	"testing"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildClassificationTree stores a depth-1 tree on a memory node store:
// rows with x < 6 predict "no", the rest predict "yes".
func buildClassificationTree(t *testing.T, tbl *dataset.Table) *Tree {
	t.Helper()
	ctx := context.Background()
	ns := NewMemoryNodeStore()
	x := tbl.Schema().Column(1).(*feature.ContinuousFeature)

	root := &Node{}
	require.NoError(t, ns.Create(ctx, root))
	left := &Node{ParentID: root.ID, Depth: 1}
	require.NoError(t, ns.Create(ctx, left))
	right := &Node{ParentID: root.ID, Depth: 1}
	require.NoError(t, ns.Create(ctx, right))

	var err error
	left.Prediction, err = NewPredictionFromSubset(tbl, dataset.Subset{0, 1}, 0)
	require.NoError(t, err)
	right.Prediction, err = NewPredictionFromSubset(tbl, dataset.Subset{2, 3}, 0)
	require.NoError(t, err)
	root.Prediction, err = NewPredictionFromSubset(tbl, tbl.All(), 0)
	require.NoError(t, err)
	root.Criterion = feature.NewContinuousCriterion(x, 1, 6.0)
	root.LeftID = left.ID
	root.RightID = right.ID
	require.NoError(t, ns.Store(ctx, root))
	require.NoError(t, ns.Store(ctx, left))
	require.NoError(t, ns.Store(ctx, right))

	return New(root.ID, ns, 0)
}

func TestPredict(t *testing.T) {
	tbl := classificationTable(t)
	tr := buildClassificationTree(t, tbl)
	ctx := context.Background()

	p, err := tr.Predict(ctx, dataset.Row{feature.NewCategoricalValue(0), feature.NewNumericValue(3.0)})
	require.NoError(t, err)
	code, prob := p.PredictedClass()
	assert.Equal(t, 0, code)
	assert.InDelta(t, 1.0, prob, 1e-9)

	p, err = tr.Predict(ctx, dataset.Row{feature.NewCategoricalValue(0), feature.NewNumericValue(10.5)})
	require.NoError(t, err)
	code, _ = p.PredictedClass()
	assert.Equal(t, 1, code)

	_, err = tr.Predict(ctx, dataset.Row{feature.NewCategoricalValue(0), feature.NewCategoricalValue(1)})
	require.Error(t, err)
	_, isKindError := err.(*feature.ValueKindError)
	assert.True(t, isKindError)
}

func TestEvaluateRecordsPerRowErrors(t *testing.T) {
	tbl := classificationTable(t)
	tr := buildClassificationTree(t, tbl)

	rows := []dataset.Row{
		{feature.NewCategoricalValue(0), feature.NewNumericValue(1.0)},
		{feature.NewCategoricalValue(0), feature.NewCategoricalValue(1)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(20.0)},
	}
	results, err := tr.Evaluate(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	code, _ := results[0].Prediction.PredictedClass()
	assert.Equal(t, 0, code)

	// the bad row fails alone, its neighbors are still predicted
	require.Error(t, results[1].Err)
	assert.Nil(t, results[1].Prediction)

	require.NoError(t, results[2].Err)
	code, _ = results[2].Prediction.PredictedClass()
	assert.Equal(t, 1, code)
}

func TestEvaluateMissingValueFailsRowAlone(t *testing.T) {
	tbl := classificationTable(t)
	tr := buildClassificationTree(t, tbl)

	rows := []dataset.Row{
		{feature.NewCategoricalValue(0), feature.NewNumericValue(1.0)},
		{feature.NewCategoricalValue(0)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(20.0)},
	}
	results, err := tr.Evaluate(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	code, _ := results[0].Prediction.PredictedClass()
	assert.Equal(t, 0, code)

	// the short row cannot be routed, but only costs itself
	require.Error(t, results[1].Err)
	assert.Nil(t, results[1].Prediction)
	var re *dataset.ColumnRangeError
	require.ErrorAs(t, results[1].Err, &re)
	assert.Equal(t, 1, re.Column)
	assert.Equal(t, 1, re.Values)

	require.NoError(t, results[2].Err)
	code, _ = results[2].Prediction.PredictedClass()
	assert.Equal(t, 1, code)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	tbl := classificationTable(t)
	tr := buildClassificationTree(t, tbl)
	ctx := context.Background()

	rows := []dataset.Row{
		{feature.NewCategoricalValue(0), feature.NewNumericValue(1.0)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(20.0)},
	}
	first, err := tr.Evaluate(ctx, rows)
	require.NoError(t, err)
	second, err := tr.Evaluate(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTestClassificationAccuracy(t *testing.T) {
	tbl := classificationTable(t)
	tr := buildClassificationTree(t, tbl)

	accuracy, errCount, err := tr.Test(context.Background(), tbl)
	require.NoError(t, err)
	assert.Equal(t, 0, errCount)
	assert.InDelta(t, 1.0, accuracy, 1e-9)
}

func TestTestRegressionDeviation(t *testing.T) {
	schema, err := feature.NewSchema([]feature.Feature{
		feature.NewContinuousFeature("x"),
		feature.NewContinuousFeature("y"),
	}, 1)
	require.NoError(t, err)
	tbl, err := dataset.New(schema, []dataset.Row{
		{feature.NewNumericValue(1.0), feature.NewNumericValue(4.0)},
		{feature.NewNumericValue(2.0), feature.NewNumericValue(5.0)},
	})
	require.NoError(t, err)

	ctx := context.Background()
	ns := NewMemoryNodeStore()
	root := &Node{}
	require.NoError(t, ns.Create(ctx, root))
	root.Prediction, err = NewPredictionFromSubset(tbl, tbl.All(), 1)
	require.NoError(t, err)
	require.NoError(t, ns.Store(ctx, root))
	tr := New(root.ID, ns, 1)

	// the single leaf predicts 4.5: deviations 0.5/4 and 0.5/5
	mapd, errCount, err := tr.Test(ctx, tbl)
	require.NoError(t, err)
	assert.Equal(t, 0, errCount)
	assert.InDelta(t, (0.5/4.0+0.5/5.0)/2.0, mapd, 1e-6)
}

func TestTestUsesTreeTargetColumnKind(t *testing.T) {
	// the schema declares the categorical column as its target, but
	// this tree predicts the numeric one: the metric must follow the
	// tree's target, not the schema's
	schema, err := feature.NewSchema([]feature.Feature{
		feature.NewCategoricalFeature("label", []string{"no", "yes"}),
		feature.NewContinuousFeature("y"),
	}, 0)
	require.NoError(t, err)
	tbl, err := dataset.New(schema, []dataset.Row{
		{feature.NewCategoricalValue(0), feature.NewNumericValue(4.0)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(5.0)},
	})
	require.NoError(t, err)

	ctx := context.Background()
	ns := NewMemoryNodeStore()
	root := &Node{}
	require.NoError(t, ns.Create(ctx, root))
	root.Prediction, err = NewPredictionFromSubset(tbl, tbl.All(), 1)
	require.NoError(t, err)
	require.NoError(t, ns.Store(ctx, root))
	tr := New(root.ID, ns, 1)

	mapd, errCount, err := tr.Test(ctx, tbl)
	require.NoError(t, err)
	assert.Equal(t, 0, errCount)
	assert.InDelta(t, (0.5/4.0+0.5/5.0)/2.0, mapd, 1e-6)
}

func TestTestEmptyTable(t *testing.T) {
	schema := classificationTable(t).Schema()
	tbl, err := dataset.New(schema, nil)
	require.NoError(t, err)

	ns := NewMemoryNodeStore()
	tr := New("", ns, 0)
	metric, errCount, err := tr.Test(context.Background(), tbl)
	require.NoError(t, err)
	assert.Equal(t, 0, errCount)
	assert.Equal(t, 0.0, metric)
}

func TestTraverseVisitsLeftBeforeRight(t *testing.T) {
	tbl := classificationTable(t)
	tr := buildClassificationTree(t, tbl)
	ctx := context.Background()

	var preorder []string
	err := tr.Traverse(ctx, false, func(_ context.Context, n *Node) error {
		preorder = append(preorder, n.ID)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, preorder, 3)
	assert.Equal(t, tr.RootID, preorder[0])

	var bottomup []string
	err = tr.Traverse(ctx, true, func(_ context.Context, n *Node) error {
		bottomup = append(bottomup, n.ID)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, bottomup, 3)
	assert.Equal(t, tr.RootID, bottomup[2])
	assert.Equal(t, preorder[1], bottomup[0])
}

func TestMemoryNodeStore(t *testing.T) {
	ctx := context.Background()
	ns := NewMemoryNodeStore()

	n := &Node{Depth: 3}
	require.NoError(t, ns.Create(ctx, n))
	assert.NotEmpty(t, n.ID)

	got, err := ns.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got)

	got, err = ns.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, ns.Delete(ctx, n))
	got, err = ns.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
