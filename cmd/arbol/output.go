package main

import (
	"context"
	"os"
	"strings"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/dataset/csv"
	"github.com/pmoros/arbol/dataset/mongodataset"
	"github.com/pmoros/arbol/dataset/sqldataset"
	"github.com/pmoros/arbol/dataset/sqldataset/pgadapter"
	"github.com/pmoros/arbol/dataset/sqldataset/sqlite3adapter"
	mgo "gopkg.in/mgo.v2"
)

/*
writeTableToOutput dumps the given subset of the table's rows to the
given output:
  - "" writes CSV to STDOUT
  - a postgresql:// or postgres:// URL writes to a PostgreSQL
    database
  - a mongodb:// URL writes to a MongoDB database
  - a path ending in .db writes to an SQLite3 database file
  - any other path writes to a CSV file

It returns the number of rows written and an error if not all of
them could be.
*/
func writeTableToOutput(ctx context.Context, rc *rootCmdConfig, dataOutput string, tbl *dataset.Table, sub dataset.Subset) (int, error) {
	if strings.HasPrefix(dataOutput, "postgresql://") || strings.HasPrefix(dataOutput, "postgres://") {
		rc.Logf("Creating PostgreSQL adapter for url %s to dump dataset...", dataOutput)
		adapter, err := pgadapter.New(dataOutput)
		if err != nil {
			return 0, err
		}
		return sqldataset.WriteTable(ctx, adapter, tbl, sub)
	}
	if strings.HasPrefix(dataOutput, "mongodb://") {
		rc.Logf("Connecting to MongoDB at %s to dump dataset...", dataOutput)
		session, err := mgo.Dial(dataOutput)
		if err != nil {
			return 0, err
		}
		defer session.Close()
		return mongodataset.WriteTable(ctx, session, tbl, sub)
	}
	if strings.HasSuffix(dataOutput, ".db") {
		rc.Logf("Creating SQLite3 adapter for file %s to dump dataset...", dataOutput)
		adapter, err := sqlite3adapter.New(dataOutput)
		if err != nil {
			return 0, err
		}
		return sqldataset.WriteTable(ctx, adapter, tbl, sub)
	}
	var f *os.File
	if dataOutput == "" {
		rc.Logf("Using STDOUT to dump output dataset...")
		f = os.Stdout
	} else {
		rc.Logf("Creating %s to dump output dataset...", dataOutput)
		var err error
		f, err = os.Create(dataOutput)
		if err != nil {
			return 0, err
		}
		defer f.Close()
	}
	err := csv.WriteCSVTable(ctx, f, tbl, sub)
	if err != nil {
		return 0, err
	}
	return len(sub), nil
}
