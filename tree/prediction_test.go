package tree

import (
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

func regressionTable(t *testing.T) *dataset.Table {
	t.Helper()
	schema, err := feature.NewSchema([]feature.Feature{
		feature.NewContinuousFeature("x"),
		feature.NewContinuousFeature("y"),
	}, 1)
	require.NoError(t, err)
	tbl, err := dataset.New(schema, []dataset.Row{
		{feature.NewNumericValue(1.0), feature.NewNumericValue(4.0)},
		{feature.NewNumericValue(2.0), feature.NewNumericValue(6.0)},
	})
	require.NoError(t, err)
	return tbl
}

func TestNewPredictionFromSubsetClassification(t *testing.T) {
	tbl := classificationTable(t)

	p, err := NewPredictionFromSubset(tbl, tbl.All(), 0)
	require.NoError(t, err)
	assert.Equal(t, feature.Categorical, p.Kind())
	assert.Equal(t, 4, p.Weight())
	assert.InDelta(t, 0.5, p.ProbabilityOf(0), 1e-9)
	assert.InDelta(t, 0.5, p.ProbabilityOf(1), 1e-9)

	p, err = NewPredictionFromSubset(tbl, dataset.Subset{0, 1, 2}, 0)
	require.NoError(t, err)
	code, prob := p.PredictedClass()
	assert.Equal(t, 0, code)
	assert.InDelta(t, 2.0/3.0, prob, 1e-9)
}

func TestPredictedClassBreaksTiesWithLowestCode(t *testing.T) {
	p := NewClassificationPrediction(map[int]float64{1: 0.5, 0: 0.5}, 4)
	code, prob := p.PredictedClass()
	assert.Equal(t, 0, code)
	assert.InDelta(t, 0.5, prob, 1e-9)
}

func TestNewPredictionFromSubsetRegression(t *testing.T) {
	tbl := regressionTable(t)

	p, err := NewPredictionFromSubset(tbl, tbl.All(), 1)
	require.NoError(t, err)
	assert.Equal(t, feature.Numeric, p.Kind())
	assert.InDelta(t, 5.0, p.Mean(), 1e-9)
	assert.InDelta(t, 1.0, p.Variance(), 1e-9)
	assert.Equal(t, 2, p.Weight())
	assert.Nil(t, p.Probabilities())
}

func TestNewPredictionFromSubsetEmptySubset(t *testing.T) {
	tbl := classificationTable(t)
	_, err := NewPredictionFromSubset(tbl, nil, 0)
	assert.Equal(t, ErrCannotPredictFromEmptySubset, err)
}
