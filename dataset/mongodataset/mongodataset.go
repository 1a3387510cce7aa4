/*
Package mongodataset allows reading and writing tables of data
on a MongoDB database.

Rows are kept as documents of a single collection, with a field
per schema column: continuous columns are stored as
floating-point numbers and categorical ones as their category
names.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const rowsCollectionName = "rows"

/*
ReadTable takes a MongoDB database session and a schema and returns
a *dataset.Table with the rows read from the session's default
database or an error.
*/
func ReadTable(ctx context.Context, session *mgo.Session, schema *feature.Schema) (*dataset.Table, error) {
	if err := validateColumnNames(schema); err != nil {
		return nil, err
	}
	var rows []dataset.Row
	var doc bson.M
	iter := rowsCollection(session).Find(nil).Sort("_id").Iter()
	defer iter.Close()
	for iter.Next(&doc) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := parseDoc(schema, doc)
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %v", len(rows), err)
		}
		rows = append(rows, row)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return dataset.New(schema, rows)
}

/*
WriteTable takes a MongoDB database session, a *dataset.Table and a
subset of its rows and dumps the subset's rows to the session's
default database. It returns the number of rows written and an
error if not all rows could be written.
*/
func WriteTable(ctx context.Context, session *mgo.Session, tbl *dataset.Table, sub dataset.Subset) (int, error) {
	schema := tbl.Schema()
	if err := validateColumnNames(schema); err != nil {
		return 0, err
	}
	if err := ensureIndexes(session, schema); err != nil {
		return 0, err
	}
	docs := make([]interface{}, 0, len(sub))
	for _, i := range sub {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		doc, err := docFor(schema, tbl.Row(i))
		if err != nil {
			return 0, fmt.Errorf("writing row %d: %v", i, err)
		}
		docs = append(docs, doc)
	}
	err := rowsCollection(session).Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func parseDoc(schema *feature.Schema, doc bson.M) (dataset.Row, error) {
	row := make(dataset.Row, schema.ColumnCount())
	for i, f := range schema.Columns() {
		rv, ok := doc[f.Name()]
		if !ok {
			return nil, fmt.Errorf("missing value for column %s", f.Name())
		}
		switch f := f.(type) {
		case *feature.ContinuousFeature:
			var n float64
			switch rv := rv.(type) {
			case float64:
				n = rv
			case int:
				n = float64(rv)
			case int64:
				n = float64(rv)
			default:
				return nil, fmt.Errorf("column %s: cannot parse number from %v (%T)", f.Name(), rv, rv)
			}
			row[i] = feature.NewNumericValue(float32(n))
		case *feature.CategoricalFeature:
			category, ok := rv.(string)
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

func docFor(schema *feature.Schema, row dataset.Row) (bson.M, error) {
	doc := make(bson.M, schema.ColumnCount())
	for i, f := range schema.Columns() {
		v, err := row.Value(i)
		if err != nil {
			return nil, err
		}
		switch f := f.(type) {
		case *feature.ContinuousFeature:
			if v.Kind() != feature.Numeric {
				return nil, &feature.ValueKindError{Feature: f.Name(), Want: feature.Numeric, Got: v.Kind()}
			}
			doc[f.Name()] = float64(v.Number())
		case *feature.CategoricalFeature:
			if v.Kind() != feature.Categorical {
				return nil, &feature.ValueKindError{Feature: f.Name(), Want: feature.Categorical, Got: v.Kind()}
			}
			category, ok := f.Category(v.Category())
			if !ok {
				return nil, fmt.Errorf("column %s has no category with code %d", f.Name(), v.Category())
			}
			doc[f.Name()] = category
		default:
			return nil, fmt.Errorf("column %s has unsupported feature type %T", f.Name(), f)
		}
	}
	return doc, nil
}

func validateColumnNames(schema *feature.Schema) error {
	for _, f := range schema.Columns() {
		fName := f.Name()
		if fName == "_id" {
			return fmt.Errorf("invalid column name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid column name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
	}
	return nil
}

func ensureIndexes(session *mgo.Session, schema *feature.Schema) error {
	for _, f := range schema.Columns() {
		index := mgo.Index{
			Key:        []string{f.Name()},
			Background: true,
			Sparse:     true,
		}
		err := rowsCollection(session).EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func rowsCollection(session *mgo.Session) *mgo.Collection {
	return session.DB("").C(rowsCollectionName)
}
