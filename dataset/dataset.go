package dataset

import (
	"fmt"

	"github.com/pmoros/arbol/feature"
)

/*
Row represents one record: an ordered slice of values aligned to the
columns of a schema.
*/
type Row []feature.Value

/*
ColumnRangeError is the error returned when a row is asked for a
column it holds no value for: the row is shorter than the schema or
the column index is negative. It concerns that row only, so batch
operations can record it and move on to the next row.
*/
type ColumnRangeError struct {
	Column int
	Values int
}

func (e *ColumnRangeError) Error() string {
	return fmt.Sprintf("column %d out of range for row with %d values", e.Column, e.Values)
}

/*
Value takes a column index and returns the row's value for it, or a
*ColumnRangeError if the index is out of the row's range.
*/
func (r Row) Value(column int) (feature.Value, error) {
	if column < 0 || column >= len(r) {
		return feature.Value{}, &ColumnRangeError{Column: column, Values: len(r)}
	}
	return r[column], nil
}

/*
Subset identifies a subset of the rows of a table by their indices.
Subsets are the unit partitioned during tree growth: the table itself
is never copied or mutated.
*/
type Subset []int

/*
Table is an immutable collection of rows sharing a schema. Tables are
built once from loaded data and only read afterwards, so they can be
shared freely across goroutines.
*/
type Table struct {
	schema *feature.Schema
	rows   []Row
}

/*
New takes a schema and a slice of rows and returns a table with them,
or an error if any row does not conform to the schema: wrong number
of values or a value whose kind does not match its column's feature.
*/
func New(schema *feature.Schema, rows []Row) (*Table, error) {
	for i, r := range rows {
		if err := ValidateRow(schema, r); err != nil {
			return nil, fmt.Errorf("row %d: %v", i, err)
		}
	}
	return &Table{schema, rows}, nil
}

/*
ValidateRow takes a schema and a row and returns an error if the row
does not have one value per schema column or any value's kind does
not match the kind declared for its column.
*/
func ValidateRow(schema *feature.Schema, r Row) error {
	if len(r) != schema.ColumnCount() {
		return fmt.Errorf("row has %d values, schema has %d columns", len(r), schema.ColumnCount())
	}
	for i, v := range r {
		if _, err := schema.Column(i).Valid(v); err != nil {
			return err
		}
	}
	return nil
}

// Schema returns the schema shared by all rows of the table.
func (t *Table) Schema() *feature.Schema {
	return t.schema
}

// Count returns the number of rows on the table.
func (t *Table) Count() int {
	return len(t.rows)
}

/*
Row takes a row index and returns the row stored under it. The index
must be within [0, Count()).
*/
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

/*
All returns a subset containing every row index of the table in
ascending order.
*/
func (t *Table) All() Subset {
	result := make(Subset, len(t.rows))
	for i := range result {
		result[i] = i
	}
	return result
}

/*
Partition takes a subset and a criterion and splits the subset into
the rows that satisfy the criterion and the rows that do not,
preserving the subset's order on both sides. It returns an error if
the criterion cannot be evaluated on some row.
*/
func (t *Table) Partition(sub Subset, c feature.Criterion) (Subset, Subset, error) {
	var left, right Subset
	for _, i := range sub {
		v, err := t.rows[i].Value(c.Column())
		if err != nil {
			return nil, nil, err
		}
		ok, err := c.SatisfiedBy(v)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right, nil
}
