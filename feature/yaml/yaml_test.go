package yaml

import (
	"testing"

	"github.com/pmoros/arbol/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const irisMetadata = `
target: species
columns:
  - name: sepal_length
    type: continuous
  - name: petal_length
  - name: species
    values:
      - setosa
      - versicolor
      - virginica
`

func TestReadSchema(t *testing.T) {
	s, err := ReadSchema([]byte(irisMetadata))
	require.NoError(t, err)
	assert.Equal(t, 3, s.ColumnCount())
	assert.Equal(t, 2, s.Target())

	assert.Equal(t, feature.Numeric, s.Column(0).Kind())
	assert.Equal(t, feature.Numeric, s.Column(1).Kind())

	species, ok := s.Column(2).(*feature.CategoricalFeature)
	require.True(t, ok)
	assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, species.Categories())
}

func TestReadSchemaDefaultsTargetToFirstColumn(t *testing.T) {
	s, err := ReadSchema([]byte("columns:\n  - name: price\n  - name: weight\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Target())
}

func TestReadSchemaErrors(t *testing.T) {
	_, err := ReadSchema([]byte("columns: []\n"))
	assert.Error(t, err)

	_, err = ReadSchema([]byte("columns:\n  - type: continuous\n"))
	assert.Error(t, err)

	_, err = ReadSchema([]byte("columns:\n  - name: age\n    type: discrete\n"))
	assert.Error(t, err)

	_, err = ReadSchema([]byte("target: species\ncolumns:\n  - name: age\n"))
	assert.Error(t, err)

	_, err = ReadSchema([]byte("columns: ["))
	assert.Error(t, err)
}
