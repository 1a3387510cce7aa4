/*
Package yaml provides methods to parse feature.Schema specifications,
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/pmoros/arbol/feature"
	yaml "gopkg.in/yaml.v2"
)

type metadata struct {
	Target  string
	Columns []column
}

type column struct {
	Name   string
	Type   string
	Values []string
}

/*
ReadSchema takes a slice of bytes with a schema specification in YML
and returns a feature.Schema parsed from it or an error.
The YML is expected to be an object with a columns property and an
optional target property. The value for columns should be an ordered
list of objects, each with a name and either a type property with the
string value 'continuous' or a values property with the list of valid
categories for a categorical column. The target property names the
column trees will predict; when absent the first column is the
target, which is the convention of the original data files.
*/
func ReadSchema(md []byte) (*feature.Schema, error) {
	m := &metadata{}
	err := yaml.Unmarshal(md, m)
	if err != nil {
		return nil, fmt.Errorf("parsing yml schema: %v", err)
	}
	if len(m.Columns) == 0 {
		return nil, fmt.Errorf("metadata file has no column information")
	}
	columns := make([]feature.Feature, 0, len(m.Columns))
	for _, c := range m.Columns {
		if c.Name == "" {
			return nil, fmt.Errorf("metadata column %d has no name", len(columns))
		}
		switch {
		case len(c.Values) > 0:
			columns = append(columns, feature.NewCategoricalFeature(c.Name, c.Values))
		case c.Type == "continuous" || c.Type == "":
			columns = append(columns, feature.NewContinuousFeature(c.Name))
		default:
			return nil, fmt.Errorf("invalid type %q for column %s", c.Type, c.Name)
		}
	}
	target := 0
	if m.Target != "" {
		found := false
		for i, c := range columns {
			if c.Name() == m.Target {
				target = i
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("target column %q is not declared", m.Target)
		}
	}
	return feature.NewSchema(columns, target)
}

/*
ReadSchemaFromFile takes a filepath string, reads its contents and
uses ReadSchema to parse it and return a feature.Schema or an error.
If the file indicated by the filepath cannot be opened for reading an
error will be returned.
*/
func ReadSchemaFromFile(filepath string) (*feature.Schema, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading schema yml file %s: %v", filepath, err)
	}
	s, err := ReadSchema(md)
	if err != nil {
		err = fmt.Errorf("parsing schema yml file %s: %v", filepath, err)
	}
	return s, err
}
