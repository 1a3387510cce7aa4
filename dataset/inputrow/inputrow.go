/*
Package inputrow allows reading a row of feature values from an
io.Reader, requesting each value before parsing it.
*/
package inputrow

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
)

/*
ValueRequester represents a way to ask for feature values
and reject the given values.
*/
type ValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, string) error
}

/*
ReadRow takes an io.Reader, a schema and a ValueRequester and
returns a dataset.Row with a value for every feature column in the
schema, read from the reader.

Each value is first requested with the given ValueRequester and
then parsed from the reader. The parsing expects each value to be
presented ending with the '\n' character, that is in new lines.

For a feature.ContinuousFeature, lines will be read from the
reader until a line containing a valid number is found. For a
feature.CategoricalFeature, lines will be read until a line with
one of the feature's categories is found. In both cases non
accepted values will be rejected with the ValueRequester's
RejectValueFor method.

The returned row holds a zero value on the schema's target column.
*/
func ReadRow(r io.Reader, schema *feature.Schema, requester ValueRequester) (dataset.Row, error) {
	scanner := bufio.NewScanner(r)
	row := make(dataset.Row, schema.ColumnCount())
	for _, c := range schema.FeatureColumns() {
		f := schema.Column(c)
		err := requester.RequestValueFor(f)
		if err != nil {
			return nil, err
		}
		v, err := readValue(scanner, f, requester)
		if err != nil {
			return nil, fmt.Errorf("reading value for column %s: %v", f.Name(), err)
		}
		row[c] = v
	}
	return row, nil
}

func readValue(scanner *bufio.Scanner, f feature.Feature, requester ValueRequester) (feature.Value, error) {
	for scanner.Scan() {
		line := scanner.Text()
		v, err := parseValue(f, line)
		if err == nil {
			return v, nil
		}
		err = requester.RejectValueFor(f, line)
		if err != nil {
			return feature.Value{}, err
		}
	}
	err := scanner.Err()
	if err != nil {
		return feature.Value{}, err
	}
	return feature.Value{}, fmt.Errorf("EOF when requesting value")
}

func parseValue(f feature.Feature, line string) (feature.Value, error) {
	switch f := f.(type) {
	case *feature.ContinuousFeature:
		n, err := strconv.ParseFloat(line, 32)
		if err != nil {
			return feature.Value{}, err
		}
		return feature.NewNumericValue(float32(n)), nil
	case *feature.CategoricalFeature:
		code, ok := f.CategoryCode(line)
		if !ok {
			return feature.Value{}, fmt.Errorf("unknown category %q", line)
		}
		return feature.NewCategoricalValue(code), nil
	}
	return feature.Value{}, fmt.Errorf("do not know how to read a value for features of type %T", f)
}

/*
WriterValueRequester returns a ValueRequester that writes requests
and rejections for values on the given io.Writer.
*/
func WriterValueRequester(w io.Writer) ValueRequester {
	return &writerValueRequester{w}
}

type writerValueRequester struct {
	w io.Writer
}

func (wvr *writerValueRequester) RequestValueFor(f feature.Feature) error {
	var err error
	if f, ok := f.(*feature.CategoricalFeature); ok {
		_, err = fmt.Fprintf(wvr.w, "Please provide a value for %s (one of %v):\n", f.Name(), f.Categories())
	} else {
		_, err = fmt.Fprintf(wvr.w, "Please provide a number for %s:\n", f.Name())
	}
	return err
}

func (wvr *writerValueRequester) RejectValueFor(f feature.Feature, value string) error {
	_, err := fmt.Fprintf(wvr.w, "%q is not a valid value for %s, please try again:\n", value, f.Name())
	return err
}
