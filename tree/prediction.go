package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
)

/*
Prediction represents the statistic a leaf aggregates over its
training subset and emits for every row routed to it: a probability
for each target category when the tree predicts a categorical target,
or the mean (and variance, kept for diagnostics) of the target when
the tree predicts a numeric one.
*/
type Prediction struct {
	kind          feature.Kind
	probabilities map[int]float64
	mean          float64
	variance      float64
	weight        int
}

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrCannotPredictFromRow is the error returned by the Predict method
of a tree when the row reaches a node for which no prediction was
recorded, as opposed to cases where the row itself cannot be
evaluated.
*/
const ErrCannotPredictFromRow = PredictionError("no prediction available for this kind of row")

/*
ErrCannotPredictFromEmptySubset is the error returned when trying to
build a prediction over an empty row subset.
*/
const ErrCannotPredictFromEmptySubset = PredictionError("cannot make prediction for empty subset")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
NewClassificationPrediction takes a map from category code to
probability and the number of training rows the probabilities were
computed from and returns a prediction holding them.
*/
func NewClassificationPrediction(probabilities map[int]float64, weight int) *Prediction {
	return &Prediction{kind: feature.Categorical, probabilities: probabilities, weight: weight}
}

/*
NewRegressionPrediction takes a mean, a variance and the number of
training rows they were computed from and returns a prediction
holding them.
*/
func NewRegressionPrediction(mean, variance float64, weight int) *Prediction {
	return &Prediction{kind: feature.Numeric, mean: mean, variance: variance, weight: weight}
}

/*
NewPredictionFromSubset takes a table, a non-empty subset of its rows
and the index of the target column and returns the prediction those
rows support: a normalized category histogram for categorical targets
or the mean and variance for numeric ones. It returns
ErrCannotPredictFromEmptySubset for empty subsets.
*/
func NewPredictionFromSubset(t *dataset.Table, sub dataset.Subset, column int) (*Prediction, error) {
	if len(sub) == 0 {
		return nil, ErrCannotPredictFromEmptySubset
	}
	f := t.Schema().Column(column)
	if f == nil {
		return nil, fmt.Errorf("target column %d out of schema range", column)
	}
	if f.Kind() == feature.Categorical {
		counts, err := t.ClassCounts(sub, column)
		if err != nil {
			return nil, err
		}
		probs := make(map[int]float64, len(counts))
		for code, c := range counts {
			probs[code] = float64(c) / float64(len(sub))
		}
		return NewClassificationPrediction(probs, len(sub)), nil
	}
	mean, variance, err := t.MeanVariance(sub, column)
	if err != nil {
		return nil, err
	}
	return NewRegressionPrediction(mean, variance, len(sub)), nil
}

/*
Kind returns the kind of target the prediction is for: Categorical
for classification predictions, Numeric for regression ones.
*/
func (p *Prediction) Kind() feature.Kind {
	return p.kind
}

/*
Probabilities returns a map from category code to float64 probability
for classification predictions, nil for regression ones.
*/
func (p *Prediction) Probabilities() map[int]float64 {
	return p.probabilities
}

/*
ProbabilityOf takes a category code and returns the float64
probability of that category according to the prediction.
*/
func (p *Prediction) ProbabilityOf(code int) float64 {
	return p.probabilities[code]
}

/*
PredictedClass returns the category code with the highest probability
and that probability. Ties go to the lowest code, so the result is
deterministic.
*/
func (p *Prediction) PredictedClass() (code int, prob float64) {
	codes := make([]int, 0, len(p.probabilities))
	for c := range p.probabilities {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	code = -1
	for _, c := range codes {
		if p.probabilities[c] > prob {
			code = c
			prob = p.probabilities[c]
		}
	}
	return
}

// Mean returns the mean target value of a regression prediction.
func (p *Prediction) Mean() float64 {
	return p.mean
}

/*
Variance returns the variance of the target over the training subset
of a regression prediction. It is kept for diagnostics and not needed
to emit the prediction itself.
*/
func (p *Prediction) Variance() float64 {
	return p.variance
}

/*
Weight returns the weight of the prediction: the number of training
rows in the subset from which the prediction was made.
*/
func (p *Prediction) Weight() int {
	return p.weight
}

func (p *Prediction) String() string {
	if p.kind == feature.Numeric {
		return fmt.Sprintf("mean %f (variance %f, weight %d)", p.mean, p.variance, p.weight)
	}
	return strings.Replace(fmt.Sprintf("%v", p.probabilities), "map", "", 1)
}
