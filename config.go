package arbol

import (
	"fmt"

	"github.com/pmoros/arbol/feature"
)

/*
Criterion identifies the measure used to score how spread the target
values of a row subset are, and so how much a candidate split reduces
that spread.
*/
type Criterion string

const (
	// Gini scores categorical targets with the Gini impurity
	// of their category histogram.
	Gini Criterion = "gini"
	// StdDev scores numeric targets with the population standard
	// deviation of their values.
	StdDev Criterion = "stddev"
)

// ConfigError represents an invalid training configuration. It is
// surfaced before any node is built: no partial training occurs.
type ConfigError string

func (ce ConfigError) Error() string {
	return string(ce)
}

// TrainError represents a training failure unrelated to the
// configuration.
type TrainError string

func (te TrainError) Error() string {
	return string(te)
}

// ErrEmptyDataset is the error returned when trying to grow a tree
// from a table without rows.
const ErrEmptyDataset = TrainError("cannot grow a tree from an empty dataset")

/*
TrainConfig holds the immutable configuration for one training run:
the criterion to score splits with, the dispersion at or below which
a node is not developed further, the maximum depth of the tree and
the index of the target column.
*/
type TrainConfig struct {
	Criterion     Criterion
	MinDispersion float64
	MaxDepth      int
	Target        int
}

/*
Validate takes a schema and returns a ConfigError if the config
cannot be used to grow a tree over datasets with that schema: a
negative maximum depth or minimum dispersion, a target column out of
the schema's range, a missing criterion or a criterion that does not
match the target column's kind.
*/
func (c *TrainConfig) Validate(s *feature.Schema) error {
	if c.MaxDepth < 0 {
		return ConfigError(fmt.Sprintf("maximum depth must not be negative, got %d", c.MaxDepth))
	}
	if c.MinDispersion < 0 {
		return ConfigError(fmt.Sprintf("minimum dispersion must not be negative, got %f", c.MinDispersion))
	}
	target := s.Column(c.Target)
	if target == nil {
		return ConfigError(fmt.Sprintf("target column %d out of range [0, %d)", c.Target, s.ColumnCount()))
	}
	switch c.Criterion {
	case Gini:
		if target.Kind() != feature.Categorical {
			return ConfigError(fmt.Sprintf("criterion %q requires a categorical target, %s is %v", c.Criterion, target.Name(), target.Kind()))
		}
	case StdDev:
		if target.Kind() != feature.Numeric {
			return ConfigError(fmt.Sprintf("criterion %q requires a numeric target, %s is %v", c.Criterion, target.Name(), target.Kind()))
		}
	case "":
		return ConfigError("missing criterion")
	default:
		return ConfigError(fmt.Sprintf("unknown criterion %q", c.Criterion))
	}
	return nil
}
