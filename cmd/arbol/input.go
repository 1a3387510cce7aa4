package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/dataset/csv"
	"github.com/pmoros/arbol/dataset/mongodataset"
	"github.com/pmoros/arbol/dataset/sqldataset"
	"github.com/pmoros/arbol/dataset/sqldataset/pgadapter"
	"github.com/pmoros/arbol/dataset/sqldataset/sqlite3adapter"
	"github.com/pmoros/arbol/feature"
	mgo "gopkg.in/mgo.v2"
)

/*
readTableFromInput reads a table of data with the given schema from
the given input:
  - "" reads CSV from STDIN
  - a postgresql:// or postgres:// URL reads from a PostgreSQL
    database
  - a mongodb:// URL reads from a MongoDB database
  - a path ending in .db reads from an SQLite3 database file
  - any other path reads from a CSV file
*/
func readTableFromInput(ctx context.Context, rc *rootCmdConfig, dataInput string, schema *feature.Schema) (*dataset.Table, error) {
	if dataInput == "" {
		rc.Logf("Reading dataset from STDIN...")
		return csv.ReadTable(os.Stdin, schema)
	}
	if strings.HasPrefix(dataInput, "postgresql://") || strings.HasPrefix(dataInput, "postgres://") {
		rc.Logf("Creating PostgreSQL adapter for url %s to read dataset...", dataInput)
		adapter, err := pgadapter.New(dataInput)
		if err != nil {
			return nil, err
		}
		return sqldataset.ReadTable(ctx, adapter, schema)
	}
	if strings.HasPrefix(dataInput, "mongodb://") {
		rc.Logf("Connecting to MongoDB at %s to read dataset...", dataInput)
		session, err := mgo.Dial(dataInput)
		if err != nil {
			return nil, err
		}
		defer session.Close()
		return mongodataset.ReadTable(ctx, session, schema)
	}
	if strings.HasSuffix(dataInput, ".db") {
		rc.Logf("Creating SQLite3 adapter for file %s to read dataset...", dataInput)
		adapter, err := sqlite3adapter.New(dataInput)
		if err != nil {
			return nil, err
		}
		return sqldataset.ReadTable(ctx, adapter, schema)
	}
	rc.Logf("Opening %s to read dataset...", dataInput)
	return csv.ReadTableFromFilePath(dataInput, schema)
}

/*
schemaWithTarget returns the given schema with its target column
replaced by the column with the given name, or the schema itself if
name is "".
*/
func schemaWithTarget(schema *feature.Schema, name string) (*feature.Schema, error) {
	if name == "" {
		return schema, nil
	}
	target, ok := schema.ColumnNamed(name)
	if !ok {
		return nil, fmt.Errorf("target column '%s' is not defined", name)
	}
	return feature.NewSchema(schema.Columns(), target)
}
