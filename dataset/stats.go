package dataset

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pmoros/arbol/feature"
)

/*
ClassCounts takes a subset and the index of a categorical column and
returns a map from category code to the number of subset rows holding
that code, or an error if the column is not categorical.
*/
func (t *Table) ClassCounts(sub Subset, column int) (map[int]int, error) {
	f := t.schema.Column(column)
	if f == nil || f.Kind() != feature.Categorical {
		return nil, fmt.Errorf("column %d is not a categorical column", column)
	}
	result := make(map[int]int)
	for _, i := range sub {
		v, err := t.rows[i].Value(column)
		if err != nil {
			return nil, err
		}
		result[v.Category()]++
	}
	return result, nil
}

/*
Gini takes a subset and the index of a categorical column and returns
the Gini impurity of the column's values over the subset:
1 - sum over categories of the squared fraction of rows in each
category. An empty subset has impurity 0.
*/
func (t *Table) Gini(sub Subset, column int) (float64, error) {
	counts, err := t.ClassCounts(sub, column)
	if err != nil {
		return 0, err
	}
	if len(sub) == 0 {
		return 0, nil
	}
	total := float64(len(sub))
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / total
		sum += p * p
	}
	return 1.0 - sum, nil
}

/*
MeanVariance takes a subset and the index of a numeric column and
returns the mean and the population variance of the column's values
over the subset, or an error if the column is not numeric. An empty
subset has mean and variance 0.
*/
func (t *Table) MeanVariance(sub Subset, column int) (float64, float64, error) {
	f := t.schema.Column(column)
	if f == nil || f.Kind() != feature.Numeric {
		return 0, 0, fmt.Errorf("column %d is not a numeric column", column)
	}
	if len(sub) == 0 {
		return 0, 0, nil
	}
	values := make([]float64, len(sub))
	for k, i := range sub {
		v, err := t.rows[i].Value(column)
		if err != nil {
			return 0, 0, err
		}
		values[k] = float64(v.Number())
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	return mean, variance, nil
}

/*
Dispersion takes a subset and a column index and returns how spread
the column's values are over the subset: the Gini impurity for
categorical columns and the population standard deviation for numeric
ones. This is the quantity tree growth tries to reduce with every
split.
*/
func (t *Table) Dispersion(sub Subset, column int) (float64, error) {
	f := t.schema.Column(column)
	if f == nil {
		return 0, fmt.Errorf("column %d out of schema range", column)
	}
	if f.Kind() == feature.Categorical {
		return t.Gini(sub, column)
	}
	_, variance, err := t.MeanVariance(sub, column)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(variance), nil
}

/*
NumericValues takes a subset and the index of a numeric column and
returns the distinct values of the column over the subset, sorted in
ascending order.
*/
func (t *Table) NumericValues(sub Subset, column int) ([]float64, error) {
	f := t.schema.Column(column)
	if f == nil || f.Kind() != feature.Numeric {
		return nil, fmt.Errorf("column %d is not a numeric column", column)
	}
	seen := make(map[float64]bool)
	var result []float64
	for _, i := range sub {
		v, err := t.rows[i].Value(column)
		if err != nil {
			return nil, err
		}
		n := float64(v.Number())
		if !seen[n] {
			seen[n] = true
			result = append(result, n)
		}
	}
	sort.Float64s(result)
	return result, nil
}

/*
CategoriesPresent takes a subset and the index of a categorical
column and returns the distinct category codes of the column over the
subset in ascending order.
*/
func (t *Table) CategoriesPresent(sub Subset, column int) ([]int, error) {
	counts, err := t.ClassCounts(sub, column)
	if err != nil {
		return nil, err
	}
	result := make([]int, 0, len(counts))
	for c := range counts {
		result = append(result, c)
	}
	sort.Ints(result)
	return result, nil
}
