package csv

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *feature.Schema {
	t.Helper()
	s, err := feature.NewSchema([]feature.Feature{
		feature.NewContinuousFeature("x"),
		feature.NewCategoricalFeature("label", []string{"no", "yes"}),
	}, 1)
	require.NoError(t, err)
	return s
}

func TestReadTable(t *testing.T) {
	schema := testSchema(t)
	in := "x,label\n1.5,no\n10,yes\n"

	tbl, err := ReadTable(strings.NewReader(in), schema)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Count())

	v, err := tbl.Row(0).Value(0)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), v.Number())

	v, err = tbl.Row(1).Value(1)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Category())
}

func TestReadTableReordersHeaderColumns(t *testing.T) {
	schema := testSchema(t)
	in := "label,x\nyes,2.5\n"

	tbl, err := ReadTable(strings.NewReader(in), schema)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Count())

	v, err := tbl.Row(0).Value(0)
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), v.Number())
	v, err = tbl.Row(0).Value(1)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Category())
}

func TestReadTableErrors(t *testing.T) {
	schema := testSchema(t)

	_, err := ReadTable(strings.NewReader("x,height\n1.0,2.0\n"), schema)
	assert.Error(t, err)

	_, err = ReadTable(strings.NewReader("x\n1.0\n"), schema)
	assert.Error(t, err)

	_, err = ReadTable(strings.NewReader("x,label\nnotanumber,no\n"), schema)
	assert.Error(t, err)

	_, err = ReadTable(strings.NewReader("x,label\n1.0,maybe\n"), schema)
	assert.Error(t, err)
}

func TestWriteCSVTableRoundTrip(t *testing.T) {
	schema := testSchema(t)
	in := "x,label\n1.5,no\n10,yes\n3.25,yes\n"
	tbl, err := ReadTable(strings.NewReader(in), schema)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = WriteCSVTable(context.Background(), &buf, tbl, tbl.All())
	require.NoError(t, err)

	reread, err := ReadTable(&buf, schema)
	require.NoError(t, err)
	require.Equal(t, tbl.Count(), reread.Count())
	for i := 0; i < tbl.Count(); i++ {
		assert.Equal(t, tbl.Row(i), reread.Row(i))
	}
}

func TestReadTableByRowStopsWhenLambdaReturnsFalse(t *testing.T) {
	schema := testSchema(t)
	in := "x,label\n1,no\n2,no\n3,no\n"

	var seen int
	err := ReadTableByRow(strings.NewReader(in), schema, func(i int, _ dataset.Row) (bool, error) {
		seen++
		return i < 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
}
