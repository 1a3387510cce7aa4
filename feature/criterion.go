package feature

import (
	"fmt"
	"sort"
	"strings"
)

/*
Criterion represents the test an internal tree node applies on one
column of a row to route it: rows whose value satisfies the criterion
are routed to the left subtree, the rest to the right subtree.

Its Column method returns the index of the column the criterion is
applied on.

Its SatisfiedBy method takes the row's value for that column and
returns a boolean indicating whether the value is routed left, or an
error if the value's kind does not match the criterion's feature.
*/
type Criterion interface {
	Column() int
	SatisfiedBy(Value) (bool, error)
}

/*
ContinuousCriterion represents a threshold test on a numeric column:
values strictly below the threshold satisfy it.

Its Threshold method returns the threshold as a float64.
*/
type ContinuousCriterion interface {
	Criterion
	Threshold() float64
}

/*
CategoricalCriterion represents a membership test on a categorical
column: values whose category code belongs to the criterion's
category set satisfy it.

Its Categories method returns the category codes of the set in
ascending order.
*/
type CategoricalCriterion interface {
	Criterion
	Categories() []int
}

type continuousCriterion struct {
	feature   *ContinuousFeature
	column    int
	threshold float64
}

type categoricalCriterion struct {
	feature    *CategoricalFeature
	column     int
	categories map[int]bool
}

/*
NewContinuousCriterion takes a ContinuousFeature, its column index
and a threshold and returns a ContinuousCriterion satisfied by
numeric values strictly below the threshold.
*/
func NewContinuousCriterion(feature *ContinuousFeature, column int, threshold float64) ContinuousCriterion {
	return &continuousCriterion{feature, column, threshold}
}

/*
NewCategoricalCriterion takes a CategoricalFeature, its column index
and a slice of category codes and returns a CategoricalCriterion
satisfied by categorical values whose code is among the given ones.
*/
func NewCategoricalCriterion(feature *CategoricalFeature, column int, categories []int) CategoricalCriterion {
	set := make(map[int]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return &categoricalCriterion{feature, column, set}
}

/*
Column returns the index of the column the criterion applies to.
*/
func (cc *continuousCriterion) Column() int {
	return cc.column
}

/*
SatisfiedBy receives a value and returns a boolean indicating whether
the value is strictly below the criterion's threshold, or an error if
the value is not numeric.
*/
func (cc *continuousCriterion) SatisfiedBy(v Value) (bool, error) {
	if v.Kind() != Numeric {
		return false, &ValueKindError{Feature: cc.feature.Name(), Want: Numeric, Got: v.Kind()}
	}
	return float64(v.Number()) < cc.threshold, nil
}

func (cc *continuousCriterion) Threshold() float64 {
	return cc.threshold
}

func (cc *continuousCriterion) String() string {
	return fmt.Sprintf("%s < %f", cc.feature.Name(), cc.threshold)
}

/*
Column returns the index of the column the criterion applies to.
*/
func (dc *categoricalCriterion) Column() int {
	return dc.column
}

/*
SatisfiedBy receives a value and returns a boolean indicating whether
the value's category code belongs to the criterion's category set, or
an error if the value is not categorical.
*/
func (dc *categoricalCriterion) SatisfiedBy(v Value) (bool, error) {
	if v.Kind() != Categorical {
		return false, &ValueKindError{Feature: dc.feature.Name(), Want: Categorical, Got: v.Kind()}
	}
	return dc.categories[v.Category()], nil
}

func (dc *categoricalCriterion) Categories() []int {
	result := make([]int, 0, len(dc.categories))
	for c := range dc.categories {
		result = append(result, c)
	}
	sort.Ints(result)
	return result
}

func (dc *categoricalCriterion) String() string {
	names := []string{}
	for _, code := range dc.Categories() {
		name, ok := dc.feature.Category(code)
		if !ok {
			name = fmt.Sprintf("#%d", code)
		}
		names = append(names, name)
	}
	return fmt.Sprintf("%s in {%s}", dc.feature.Name(), strings.Join(names, ", "))
}
