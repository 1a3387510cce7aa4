/*
Package sqldataset allows reading and writing tables of data
on SQL databases.

Rows are kept on a single database table, with a column per
schema column: continuous columns are stored as floating-point
numbers and categorical ones as their category names.
*/
package sqldataset

import (
	"context"
	"fmt"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
)

/*
Adapter is an interface providing the methods needed to read and
write rows on a specific SQL database backend.
*/
type Adapter interface {
	// ColumnName takes the name of a schema column and returns
	// the database column name to use for it, or an error if
	// the name cannot be used on the database.
	ColumnName(string) (string, error)

	// CreateRowTable ensures the table to store rows exists on
	// the database, with the given categorical and continuous
	// columns.
	CreateRowTable(categoricalColumns, continuousColumns []string) error

	// AddRows inserts the given raw rows, each a map of database
	// column names to values, and returns the number of rows
	// actually inserted and an error if not all could be.
	AddRows(rawRows []map[string]interface{}, categoricalColumns, continuousColumns []string) (int, error)

	// IterateOnRows goes over the stored rows calling the given
	// lambda function with each raw row and its index. If the
	// lambda function returns false or an error the iteration
	// stops.
	IterateOnRows(categoricalColumns, continuousColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error

	// CountRows returns the number of stored rows or an error.
	CountRows() (int, error)
}

// maxRowInsertionsPerCall is the number of rows written to the
// adapter on each AddRows call when dumping a table.
const maxRowInsertionsPerCall = 100

/*
ReadTable takes an Adapter to a db backend and a schema and returns
a *dataset.Table with the rows read from the database or an error.
*/
func ReadTable(ctx context.Context, adapter Adapter, schema *feature.Schema) (*dataset.Table, error) {
	categoricalColumns, continuousColumns, err := schemaColumns(adapter, schema)
	if err != nil {
		return nil, err
	}
	rows := []dataset.Row{}
	err = adapter.IterateOnRows(categoricalColumns, continuousColumns, func(i int, rawRow map[string]interface{}) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		row, err := parseRawRow(adapter, schema, rawRow)
		if err != nil {
			return false, fmt.Errorf("reading row %d: %v", i, err)
		}
		rows = append(rows, row)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dataset.New(schema, rows)
}

/*
WriteTable takes an Adapter to a db backend, a *dataset.Table and a
subset of its rows, ensures the row table exists on the database and
dumps the subset's rows to it. It returns the number of rows written
and an error if not all rows could be written.
*/
func WriteTable(ctx context.Context, adapter Adapter, tbl *dataset.Table, sub dataset.Subset) (int, error) {
	schema := tbl.Schema()
	categoricalColumns, continuousColumns, err := schemaColumns(adapter, schema)
	if err != nil {
		return 0, err
	}
	err = adapter.CreateRowTable(categoricalColumns, continuousColumns)
	if err != nil {
		return 0, err
	}
	written := 0
	rawRows := make([]map[string]interface{}, 0, maxRowInsertionsPerCall)
	for _, i := range sub {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		rawRow, err := rawRowFor(adapter, schema, tbl.Row(i))
		if err != nil {
			return written, fmt.Errorf("writing row %d: %v", i, err)
		}
		rawRows = append(rawRows, rawRow)
		if len(rawRows) == maxRowInsertionsPerCall {
			n, err := adapter.AddRows(rawRows, categoricalColumns, continuousColumns)
			written += n
			if err != nil {
				return written, err
			}
			rawRows = rawRows[:0]
		}
	}
	if len(rawRows) > 0 {
		n, err := adapter.AddRows(rawRows, categoricalColumns, continuousColumns)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func schemaColumns(adapter Adapter, schema *feature.Schema) ([]string, []string, error) {
	var categoricalColumns, continuousColumns []string
	for _, f := range schema.Columns() {
		column, err := adapter.ColumnName(f.Name())
		if err != nil {
			return nil, nil, err
		}
		if f.Kind() == feature.Categorical {
			categoricalColumns = append(categoricalColumns, column)
		} else {
			continuousColumns = append(continuousColumns, column)
		}
	}
	return categoricalColumns, continuousColumns, nil
}

func parseRawRow(adapter Adapter, schema *feature.Schema, rawRow map[string]interface{}) (dataset.Row, error) {
	row := make(dataset.Row, schema.ColumnCount())
	for i, f := range schema.Columns() {
		column, err := adapter.ColumnName(f.Name())
		if err != nil {
			return nil, err
		}
		rv, ok := rawRow[column]
		if !ok {
			return nil, fmt.Errorf("missing value for column %s", f.Name())
		}
		switch f := f.(type) {
		case *feature.ContinuousFeature:
			n, ok := rv.(float64)
			if !ok {
				return nil, fmt.Errorf("column %s: cannot parse number from %v (%T)", f.Name(), rv, rv)
			}
			row[i] = feature.NewNumericValue(float32(n))
		case *feature.CategoricalFeature:
			category, ok := rv.(string)
			if !ok {
				if bs, isBytes := rv.([]byte); isBytes {
					category, ok = string(bs), true
				}
			}
			if !ok {
				return nil, fmt.Errorf("column %s: cannot parse category from %v (%T)", f.Name(), rv, rv)
			}
			code, ok := f.CategoryCode(category)
			if !ok {
				return nil, fmt.Errorf("column %s: unknown category %q", f.Name(), category)
			}
			row[i] = feature.NewCategoricalValue(code)
		default:
			return nil, fmt.Errorf("column %s has unsupported feature type %T", f.Name(), f)
		}
	}
	return row, nil
}

func rawRowFor(adapter Adapter, schema *feature.Schema, row dataset.Row) (map[string]interface{}, error) {
	rawRow := make(map[string]interface{}, schema.ColumnCount())
	for i, f := range schema.Columns() {
		column, err := adapter.ColumnName(f.Name())
		if err != nil {
			return nil, err
		}
		v, err := row.Value(i)
		if err != nil {
			return nil, err
		}
		switch f := f.(type) {
		case *feature.ContinuousFeature:
			if v.Kind() != feature.Numeric {
				return nil, &feature.ValueKindError{Feature: f.Name(), Want: feature.Numeric, Got: v.Kind()}
			}
			rawRow[column] = float64(v.Number())
		case *feature.CategoricalFeature:
			if v.Kind() != feature.Categorical {
				return nil, &feature.ValueKindError{Feature: f.Name(), Want: feature.Categorical, Got: v.Kind()}
			}
			category, ok := f.Category(v.Category())
			if !ok {
				return nil, fmt.Errorf("column %s has no category with code %d", f.Name(), v.Category())
			}
			rawRow[column] = category
		default:
			return nil, fmt.Errorf("column %s has unsupported feature type %T", f.Name(), f)
		}
	}
	return rawRow, nil
}
