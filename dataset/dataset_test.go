package dataset

import (
	"math"
	"testing"

	"github.com/pmoros/arbol/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *feature.Schema {
	t.Helper()
	s, err := feature.NewSchema([]feature.Feature{
		feature.NewCategoricalFeature("label", []string{"no", "yes"}),
		feature.NewContinuousFeature("x"),
	}, 0)
	require.NoError(t, err)
	return s
}

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(testSchema(t), []Row{
		{feature.NewCategoricalValue(0), feature.NewNumericValue(1.0)},
		{feature.NewCategoricalValue(0), feature.NewNumericValue(2.0)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(10.0)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(11.0)},
	})
	require.NoError(t, err)
	return tbl
}

func TestRowValueOutOfRange(t *testing.T) {
	r := Row{feature.NewCategoricalValue(0)}

	v, err := r.Value(0)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Category())

	_, err = r.Value(1)
	require.Error(t, err)
	var re *ColumnRangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Column)
	assert.Equal(t, 1, re.Values)

	_, err = r.Value(-1)
	assert.Error(t, err)
}

func TestNewValidatesRows(t *testing.T) {
	schema := testSchema(t)

	_, err := New(schema, []Row{{feature.NewCategoricalValue(0)}})
	assert.Error(t, err)

	_, err = New(schema, []Row{
		{feature.NewNumericValue(1.0), feature.NewNumericValue(1.0)},
	})
	assert.Error(t, err)

	_, err = New(schema, []Row{
		{feature.NewCategoricalValue(5), feature.NewNumericValue(1.0)},
	})
	assert.Error(t, err)

	tbl, err := New(schema, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Count())
	assert.Empty(t, tbl.All())
}

func TestPartition(t *testing.T) {
	tbl := testTable(t)
	x := tbl.Schema().Column(1).(*feature.ContinuousFeature)

	left, right, err := tbl.Partition(tbl.All(), feature.NewContinuousCriterion(x, 1, 6.0))
	require.NoError(t, err)
	assert.Equal(t, Subset{0, 1}, left)
	assert.Equal(t, Subset{2, 3}, right)

	// order of the incoming subset is preserved on both sides
	left, right, err = tbl.Partition(Subset{3, 0, 2, 1}, feature.NewContinuousCriterion(x, 1, 6.0))
	require.NoError(t, err)
	assert.Equal(t, Subset{0, 1}, left)
	assert.Equal(t, Subset{3, 2}, right)

	label := tbl.Schema().Column(0).(*feature.CategoricalFeature)
	_, _, err = tbl.Partition(tbl.All(), feature.NewCategoricalCriterion(label, 1, []int{0}))
	assert.Error(t, err)
}

func TestClassCountsAndGini(t *testing.T) {
	tbl := testTable(t)

	counts, err := tbl.ClassCounts(tbl.All(), 0)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 2, 1: 2}, counts)

	gini, err := tbl.Gini(tbl.All(), 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, gini, 1e-9)

	gini, err = tbl.Gini(Subset{0, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, gini)

	gini, err = tbl.Gini(Subset{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, gini)

	_, err = tbl.Gini(tbl.All(), 1)
	assert.Error(t, err)
}

func TestMeanVarianceAndDispersion(t *testing.T) {
	tbl := testTable(t)

	mean, variance, err := tbl.MeanVariance(tbl.All(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, mean, 1e-9)
	assert.InDelta(t, 20.5, variance, 1e-9)

	d, err := tbl.Dispersion(tbl.All(), 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(20.5), d, 1e-9)

	d, err = tbl.Dispersion(tbl.All(), 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 1e-9)

	mean, variance, err = tbl.MeanVariance(Subset{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, variance)

	_, _, err = tbl.MeanVariance(tbl.All(), 0)
	assert.Error(t, err)
}

func TestNumericValues(t *testing.T) {
	schema := testSchema(t)
	tbl, err := New(schema, []Row{
		{feature.NewCategoricalValue(0), feature.NewNumericValue(2.0)},
		{feature.NewCategoricalValue(0), feature.NewNumericValue(1.0)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(2.0)},
	})
	require.NoError(t, err)

	values, err := tbl.NumericValues(tbl.All(), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 2.0}, values)

	_, err = tbl.NumericValues(tbl.All(), 0)
	assert.Error(t, err)
}

func TestCategoriesPresent(t *testing.T) {
	tbl := testTable(t)

	categories, err := tbl.CategoriesPresent(tbl.All(), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, categories)

	categories, err = tbl.CategoriesPresent(Subset{2, 3}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, categories)
}
