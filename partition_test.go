package arbol

import (
	"context"
	"testing"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classificationTable(t *testing.T) *dataset.Table {
	t.Helper()
	schema, err := feature.NewSchema([]feature.Feature{
		feature.NewCategoricalFeature("label", []string{"no", "yes"}),
		feature.NewContinuousFeature("x"),
	}, 0)
	require.NoError(t, err)
	tbl, err := dataset.New(schema, []dataset.Row{
		{feature.NewCategoricalValue(0), feature.NewNumericValue(1.0)},
		{feature.NewCategoricalValue(0), feature.NewNumericValue(2.0)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(10.0)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(11.0)},
	})
	require.NoError(t, err)
	return tbl
}

func TestBestPartitionPicksMidpointThreshold(t *testing.T) {
	tbl := classificationTable(t)
	config := &TrainConfig{Criterion: Gini, MaxDepth: 5}

	p, err := BestPartition(context.Background(), tbl, tbl.All(), config)
	require.NoError(t, err)
	require.NotNil(t, p)

	cc, ok := p.Criterion.(feature.ContinuousCriterion)
	require.True(t, ok)
	assert.Equal(t, 1, cc.Column())
	assert.InDelta(t, 6.0, cc.Threshold(), 1e-9)
	assert.Equal(t, dataset.Subset{0, 1}, p.Left)
	assert.Equal(t, dataset.Subset{2, 3}, p.Right)
	assert.InDelta(t, 0.5, p.Gain, 1e-9)
}

func TestBestPartitionBreaksTiesByColumnOrder(t *testing.T) {
	schema, err := feature.NewSchema([]feature.Feature{
		feature.NewContinuousFeature("x"),
		feature.NewCategoricalFeature("color", []string{"blue", "green"}),
		feature.NewCategoricalFeature("label", []string{"no", "yes"}),
	}, 2)
	require.NoError(t, err)
	// both columns split the target perfectly: the earliest column wins
	tbl, err := dataset.New(schema, []dataset.Row{
		{feature.NewNumericValue(1.0), feature.NewCategoricalValue(0), feature.NewCategoricalValue(0)},
		{feature.NewNumericValue(2.0), feature.NewCategoricalValue(1), feature.NewCategoricalValue(1)},
	})
	require.NoError(t, err)
	config := &TrainConfig{Criterion: Gini, MaxDepth: 5, Target: 2}

	p, err := BestPartition(context.Background(), tbl, tbl.All(), config)
	require.NoError(t, err)
	require.NotNil(t, p)
	cc, ok := p.Criterion.(feature.ContinuousCriterion)
	require.True(t, ok)
	assert.Equal(t, 0, cc.Column())
	assert.InDelta(t, 1.5, cc.Threshold(), 1e-9)
}

func TestBestPartitionOneVsRestCategorical(t *testing.T) {
	schema, err := feature.NewSchema([]feature.Feature{
		feature.NewCategoricalFeature("color", []string{"blue", "green", "red"}),
		feature.NewCategoricalFeature("label", []string{"no", "yes"}),
	}, 1)
	require.NoError(t, err)
	tbl, err := dataset.New(schema, []dataset.Row{
		{feature.NewCategoricalValue(0), feature.NewCategoricalValue(0)},
		{feature.NewCategoricalValue(1), feature.NewCategoricalValue(1)},
		{feature.NewCategoricalValue(2), feature.NewCategoricalValue(1)},
	})
	require.NoError(t, err)
	config := &TrainConfig{Criterion: Gini, MaxDepth: 5, Target: 1}

	p, err := BestPartition(context.Background(), tbl, tbl.All(), config)
	require.NoError(t, err)
	require.NotNil(t, p)
	dc, ok := p.Criterion.(feature.CategoricalCriterion)
	require.True(t, ok)
	assert.Equal(t, 0, dc.Column())
	// routing "blue" against the rest separates the target perfectly
	assert.Equal(t, []int{0}, dc.Categories())
	assert.Equal(t, dataset.Subset{0}, p.Left)
	assert.Equal(t, dataset.Subset{1, 2}, p.Right)
}

func TestBestPartitionNoViableSplit(t *testing.T) {
	schema, err := feature.NewSchema([]feature.Feature{
		feature.NewCategoricalFeature("label", []string{"no", "yes"}),
		feature.NewContinuousFeature("x"),
	}, 0)
	require.NoError(t, err)
	// indistinguishable rows with different labels: nothing separates them
	tbl, err := dataset.New(schema, []dataset.Row{
		{feature.NewCategoricalValue(0), feature.NewNumericValue(1.0)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(1.0)},
	})
	require.NoError(t, err)
	config := &TrainConfig{Criterion: Gini, MaxDepth: 5}

	p, err := BestPartition(context.Background(), tbl, tbl.All(), config)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestBestPartitionIsDeterministic(t *testing.T) {
	tbl := classificationTable(t)
	config := &TrainConfig{Criterion: Gini, MaxDepth: 5}
	ctx := context.Background()

	first, err := BestPartition(ctx, tbl, tbl.All(), config)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		p, err := BestPartition(ctx, tbl, tbl.All(), config)
		require.NoError(t, err)
		assert.Equal(t, first, p)
	}
}
