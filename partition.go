package arbol

import (
	"context"
	"fmt"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
)

/*
Partition represents the best way found to split a subset of training
rows in two: the criterion rows routed left must satisfy, the subsets
on each side and the dispersion reduction the split achieves on the
target column.
*/
type Partition struct {
	Criterion feature.Criterion
	Left      dataset.Subset
	Right     dataset.Subset
	Gain      float64
}

/*
BestPartition takes a context, a table, a non-empty subset of its
rows and a training config and returns the (column, test) pair that
most reduces the dispersion of the target column over the subset, or
nil if there is no viable split: no candidate has positive gain or
every candidate would leave one side empty.

Candidate tests are enumerated deterministically: feature columns in
ascending index order; on numeric columns one threshold per midpoint
between consecutive distinct sorted values, in ascending order; on
categorical columns one one-vs-rest test per category present on the
subset, in ascending code order. Ties are broken by keeping the
earliest candidate, so two identical training runs pick identical
splits.
*/
func BestPartition(ctx context.Context, tbl *dataset.Table, sub dataset.Subset, config *TrainConfig) (*Partition, error) {
	parent, err := tbl.Dispersion(sub, config.Target)
	if err != nil {
		return nil, err
	}
	var best *Partition
	for _, column := range tbl.Schema().FeatureColumns() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var candidates []feature.Criterion
		switch f := tbl.Schema().Column(column).(type) {
		case *feature.ContinuousFeature:
			candidates, err = thresholdCriteria(tbl, sub, f, column)
		case *feature.CategoricalFeature:
			candidates, err = categoryCriteria(tbl, sub, f, column)
		default:
			err = fmt.Errorf("unknown feature type %T for column %d", f, column)
		}
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			p, err := score(tbl, sub, c, config.Target, parent)
			if err != nil {
				return nil, err
			}
			if p == nil {
				continue
			}
			if best == nil || p.Gain > best.Gain {
				best = p
			}
		}
	}
	if best == nil || best.Gain <= 0 {
		return nil, nil
	}
	return best, nil
}

/*
thresholdCriteria returns one threshold test per midpoint between
consecutive distinct sorted values of the column over the subset.
A column with fewer than 2 distinct values yields no candidates.
*/
func thresholdCriteria(tbl *dataset.Table, sub dataset.Subset, f *feature.ContinuousFeature, column int) ([]feature.Criterion, error) {
	values, err := tbl.NumericValues(sub, column)
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return nil, nil
	}
	result := make([]feature.Criterion, 0, len(values)-1)
	for i, v := range values[1:] {
		threshold := (values[i] + v) / 2.0
		result = append(result, feature.NewContinuousCriterion(f, column, threshold))
	}
	return result, nil
}

/*
categoryCriteria returns one one-vs-rest membership test per category
present on the subset. Evaluating every category subset would be
exponential in the number of categories, so the search is fixed to
one category against the rest.
*/
func categoryCriteria(tbl *dataset.Table, sub dataset.Subset, f *feature.CategoricalFeature, column int) ([]feature.Criterion, error) {
	categories, err := tbl.CategoriesPresent(sub, column)
	if err != nil {
		return nil, err
	}
	if len(categories) < 2 {
		return nil, nil
	}
	result := make([]feature.Criterion, 0, len(categories))
	for _, c := range categories {
		result = append(result, feature.NewCategoricalCriterion(f, column, []int{c}))
	}
	return result, nil
}

/*
score partitions the subset with the candidate criterion and returns
the resulting Partition, or nil if either side would be empty. The
gain is the parent dispersion minus the dispersion of the two sides
weighted by their share of the subset's rows. Both sides being
non-empty, the weights' denominator is never 0.
*/
func score(tbl *dataset.Table, sub dataset.Subset, c feature.Criterion, target int, parent float64) (*Partition, error) {
	left, right, err := tbl.Partition(sub, c)
	if err != nil {
		return nil, err
	}
	if len(left) == 0 || len(right) == 0 {
		return nil, nil
	}
	leftDispersion, err := tbl.Dispersion(left, target)
	if err != nil {
		return nil, err
	}
	rightDispersion, err := tbl.Dispersion(right, target)
	if err != nil {
		return nil, err
	}
	total := float64(len(sub))
	gain := parent - leftDispersion*float64(len(left))/total - rightDispersion*float64(len(right))/total
	return &Partition{Criterion: c, Left: left, Right: right, Gain: gain}, nil
}
