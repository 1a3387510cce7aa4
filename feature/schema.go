package feature

import "fmt"

/*
Schema describes the columns shared by all rows of a dataset: an
ordered slice of features plus the index of the target column, the
one trees are grown to predict. All other columns are available as
split candidates.
*/
type Schema struct {
	columns []Feature
	target  int
}

/*
NewSchema takes an ordered slice of features and the index of the
target column and returns a schema with them, or an error if the
slice is empty, the target index is out of range or two columns
share a name.
*/
func NewSchema(columns []Feature, target int) (*Schema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("schema needs at least one column")
	}
	if target < 0 || target >= len(columns) {
		return nil, fmt.Errorf("target column %d out of range [0, %d)", target, len(columns))
	}
	seen := make(map[string]bool)
	for _, c := range columns {
		if seen[c.Name()] {
			return nil, fmt.Errorf("duplicate column name %s", c.Name())
		}
		seen[c.Name()] = true
	}
	return &Schema{columns, target}, nil
}

// Columns returns the ordered slice of features of the schema.
func (s *Schema) Columns() []Feature {
	return s.columns
}

// ColumnCount returns the number of columns on the schema.
func (s *Schema) ColumnCount() int {
	return len(s.columns)
}

/*
Column takes a column index and returns the feature declared for
it, or nil if the index is out of range.
*/
func (s *Schema) Column(i int) Feature {
	if i < 0 || i >= len(s.columns) {
		return nil
	}
	return s.columns[i]
}

/*
ColumnNamed takes a column name and returns its index and a boolean
indicating whether the schema has a column with that name.
*/
func (s *Schema) ColumnNamed(name string) (int, bool) {
	for i, c := range s.columns {
		if c.Name() == name {
			return i, true
		}
	}
	return 0, false
}

// Target returns the index of the target column.
func (s *Schema) Target() int {
	return s.target
}

// TargetFeature returns the feature declared for the target column.
func (s *Schema) TargetFeature() Feature {
	return s.columns[s.target]
}

/*
FeatureColumns returns the indexes of all non-target columns in
ascending order.
*/
func (s *Schema) FeatureColumns() []int {
	result := make([]int, 0, len(s.columns)-1)
	for i := range s.columns {
		if i != s.target {
			result = append(result, i)
		}
	}
	return result
}
