package sqldataset

import (
	"context"
	"fmt"
	"testing"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
memAdapter keeps raw rows in memory, recording the size of every
AddRows call so tests can check how WriteTable batches insertions.
*/
type memAdapter struct {
	rows       []map[string]interface{}
	addedCalls []int
}

func (a *memAdapter) ColumnName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty column name")
	}
	return "c_" + name, nil
}

func (a *memAdapter) CreateRowTable(categoricalColumns, continuousColumns []string) error {
	return nil
}

func (a *memAdapter) AddRows(rawRows []map[string]interface{}, categoricalColumns, continuousColumns []string) (int, error) {
	a.addedCalls = append(a.addedCalls, len(rawRows))
	for _, rawRow := range rawRows {
		copied := make(map[string]interface{}, len(rawRow))
		for k, v := range rawRow {
			copied[k] = v
		}
		a.rows = append(a.rows, copied)
	}
	return len(rawRows), nil
}

func (a *memAdapter) IterateOnRows(categoricalColumns, continuousColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	for i, rawRow := range a.rows {
		ok, err := lambda(i, rawRow)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return nil
}

func (a *memAdapter) CountRows() (int, error) {
	return len(a.rows), nil
}

func testSchema(t *testing.T) *feature.Schema {
	t.Helper()
	s, err := feature.NewSchema([]feature.Feature{
		feature.NewCategoricalFeature("label", []string{"no", "yes"}),
		feature.NewContinuousFeature("x"),
	}, 0)
	require.NoError(t, err)
	return s
}

func TestWriteTableReadTableRoundtrip(t *testing.T) {
	schema := testSchema(t)
	rows := make([]dataset.Row, 105)
	for i := range rows {
		rows[i] = dataset.Row{
			feature.NewCategoricalValue(i % 2),
			feature.NewNumericValue(float32(i)),
		}
	}
	tbl, err := dataset.New(schema, rows)
	require.NoError(t, err)

	adapter := &memAdapter{}
	n, err := WriteTable(context.Background(), adapter, tbl, tbl.All())
	require.NoError(t, err)
	assert.Equal(t, 105, n)
	assert.Equal(t, []int{100, 5}, adapter.addedCalls)

	count, err := adapter.CountRows()
	require.NoError(t, err)
	assert.Equal(t, 105, count)
	assert.Equal(t, "yes", adapter.rows[1]["c_label"])
	assert.Equal(t, 1.0, adapter.rows[1]["c_x"])

	read, err := ReadTable(context.Background(), adapter, schema)
	require.NoError(t, err)
	require.Equal(t, 105, read.Count())
	for i := 0; i < read.Count(); i++ {
		row := read.Row(i)
		label, err := row.Value(0)
		require.NoError(t, err)
		x, err := row.Value(1)
		require.NoError(t, err)
		assert.Equal(t, i%2, label.Category())
		assert.Equal(t, float32(i), x.Number())
	}
}

func TestWriteTableSubsetAndBadValue(t *testing.T) {
	schema := testSchema(t)
	tbl, err := dataset.New(schema, []dataset.Row{
		{feature.NewCategoricalValue(0), feature.NewNumericValue(1.0)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(2.0)},
		{feature.NewCategoricalValue(1), feature.NewNumericValue(3.0)},
	})
	require.NoError(t, err)

	adapter := &memAdapter{}
	n, err := WriteTable(context.Background(), adapter, tbl, dataset.Subset{2, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, adapter.rows, 2)
	assert.Equal(t, 3.0, adapter.rows[0]["c_x"])
	assert.Equal(t, "no", adapter.rows[1]["c_label"])
}

func TestReadTableRejectsUnknownCategory(t *testing.T) {
	adapter := &memAdapter{rows: []map[string]interface{}{
		{"c_label": "maybe", "c_x": 1.0},
	}}

	_, err := ReadTable(context.Background(), adapter, testSchema(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}
