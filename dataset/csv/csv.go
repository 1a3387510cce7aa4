/*
Package csv provides functions to read and write tables of data
as CSV streams and files.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
)

/*
Writer is an interface for a destination to which rows
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given number
	// of rows and will return the actually written
	// number of rows and an error (if not all rows
	// could be written)
	Write(context.Context, []dataset.Row) (int, error)
	// Count returns the total number of rows written
	// to the writer
	Count() int
	// Flush ensures any pending write operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count  int
	schema *feature.Schema
	w      *csv.Writer
}

/*
ReadTable takes an io.Reader for a CSV stream and a schema and returns
a *dataset.Table with the rows parsed from the reader or an error.

The header or first row of the CSV content is expected to consist of
the names of the schema's columns, in any order. The rest of the rows
should consist of valid values for all the columns: decimal numbers
for continuous columns and known categories for categorical ones.
*/
func ReadTable(reader io.Reader, schema *feature.Schema) (*dataset.Table, error) {
	rows := []dataset.Row{}
	err := ReadTableByRow(reader, schema, func(_ int, r dataset.Row) (bool, error) {
		rows = append(rows, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dataset.New(schema, rows)
}

/*
ReadTableByRow takes an io.Reader for a CSV stream, a schema and a
lambda function on an integer and a dataset.Row that returns a boolean
value. It parses the rows from the reader and for each it calls the
lambda function with the row and its index as parameters. If the
lambda function returns true, it will continue processing the next
row, otherwise it will stop. An error is returned if something goes
wrong when reading the stream or parsing a row.

The header or first row of the CSV content is expected to consist of
the names of the schema's columns, in any order. The rest of the rows
should consist of valid values for all the columns.
*/
func ReadTableByRow(reader io.Reader, schema *feature.Schema, lambda func(int, dataset.Row) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columnOrder, err := parseColumnsFromCSVHeader(header, schema)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		row, err := parseRowFromCSVRecord(record, columnOrder, schema)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, row)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadTableFromFilePath takes a filepath string and a schema, opens the
file the filepath points to and uses ReadTable to return a
*dataset.Table read from it or an error. If the given filepath is ""
os.Stdin is used instead. It will return an error if the given
filepath cannot be opened for reading.
*/
func ReadTableFromFilePath(filepath string, schema *feature.Schema) (*dataset.Table, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
	}
	defer f.Close()
	tbl, err := ReadTable(f, schema)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return tbl, err
}

/*
NewWriter takes an io.Writer and a schema and returns a Writer that
will write any rows on the io.Writer, after writing a header with the
schema's column names.
*/
func NewWriter(writer io.Writer, schema *feature.Schema) (Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, schema.ColumnCount())
	for i, f := range schema.Columns() {
		record[i] = f.Name()
	}
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{schema: schema, w: w}, nil
}

/*
WriteCSVTable takes a writer, a *dataset.Table and a subset of its
rows and dumps to the writer the subset's rows in CSV format. It
returns an error if something went wrong when writing to the writer,
or codifying the rows.
*/
func WriteCSVTable(ctx context.Context, writer io.Writer, tbl *dataset.Table, sub dataset.Subset) error {
	cw, err := NewWriter(writer, tbl.Schema())
	if err != nil {
		return err
	}
	rows := make([]dataset.Row, 0, len(sub))
	for _, i := range sub {
		rows = append(rows, tbl.Row(i))
	}
	_, err = cw.Write(ctx, rows)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func parseColumnsFromCSVHeader(header []string, schema *feature.Schema) ([]int, error) {
	columnOrder := make([]int, 0, len(header))
	seen := make(map[int]bool)
	for _, name := range header {
		c, ok := schema.ColumnNamed(name)
		if !ok {
			return nil, fmt.Errorf("parsing header: reference to unknown column %s", name)
		}
		if seen[c] {
			return nil, fmt.Errorf("parsing header: duplicated column %s", name)
		}
		seen[c] = true
		columnOrder = append(columnOrder, c)
	}
	if len(columnOrder) != schema.ColumnCount() {
		return nil, fmt.Errorf("parsing header: got %d columns, schema has %d", len(columnOrder), schema.ColumnCount())
	}
	return columnOrder, nil
}

func parseRowFromCSVRecord(record []string, columnOrder []int, schema *feature.Schema) (dataset.Row, error) {
	if len(record) != len(columnOrder) {
		return nil, fmt.Errorf("got %d values, expected %d", len(record), len(columnOrder))
	}
	row := make(dataset.Row, schema.ColumnCount())
	for i, c := range columnOrder {
		f := schema.Column(c)
		v, err := ParseValue(f, record[i])
		if err != nil {
			return nil, err
		}
		row[c] = v
	}
	return row, nil
}

/*
ParseValue takes a feature and a string and returns the
feature.Value the string represents for the feature, or an error
if the string cannot be parsed into a valid value.
*/
func ParseValue(f feature.Feature, s string) (feature.Value, error) {
	switch f := f.(type) {
	case *feature.ContinuousFeature:
		n, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return feature.Value{}, fmt.Errorf("converting %q to a number for column %s: %v", s, f.Name(), err)
		}
		return feature.NewNumericValue(float32(n)), nil
	case *feature.CategoricalFeature:
		code, ok := f.CategoryCode(s)
		if !ok {
			return feature.Value{}, fmt.Errorf("unknown category %q for column %s", s, f.Name())
		}
		return feature.NewCategoricalValue(code), nil
	}
	return feature.Value{}, fmt.Errorf("column %s has unsupported feature type %T", f.Name(), f)
}

/*
FormatValue takes a feature and one of its values and returns the
string that represents the value in CSV form.
*/
func FormatValue(f feature.Feature, v feature.Value) (string, error) {
	switch f := f.(type) {
	case *feature.ContinuousFeature:
		if v.Kind() != feature.Numeric {
			return "", &feature.ValueKindError{Feature: f.Name(), Want: feature.Numeric, Got: v.Kind()}
		}
		return strconv.FormatFloat(float64(v.Number()), 'g', -1, 32), nil
	case *feature.CategoricalFeature:
		if v.Kind() != feature.Categorical {
			return "", &feature.ValueKindError{Feature: f.Name(), Want: feature.Categorical, Got: v.Kind()}
		}
		category, ok := f.Category(v.Category())
		if !ok {
			return "", fmt.Errorf("column %s has no category with code %d", f.Name(), v.Category())
		}
		return category, nil
	}
	return "", fmt.Errorf("column %s has unsupported feature type %T", f.Name(), f)
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, rows []dataset.Row) (int, error) {
	for n := 0; n < len(rows); n++ {
		if err := cw.writeRow(rows[n]); err != nil {
			return n, err
		}
	}
	return len(rows), nil
}

func (cw *csvWriter) writeRow(row dataset.Row) error {
	record := make([]string, cw.schema.ColumnCount())
	for j, f := range cw.schema.Columns() {
		v, err := row.Value(j)
		if err != nil {
			return err
		}
		record[j], err = FormatValue(f, v)
		if err != nil {
			return err
		}
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
