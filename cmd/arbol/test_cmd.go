package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pmoros/arbol/feature"
	"github.com/pmoros/arbol/feature/yaml"
	"github.com/pmoros/arbol/tree"
	treejson "github.com/pmoros/arbol/tree/json"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	dataInput     string
	metadataInput string
	targetColumn  string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test dataset`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := context.Background()
			schema, err := yaml.ReadSchemaFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			schema, err = schemaWithTarget(schema, config.targetColumn)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			tbl, err := readTableFromInput(ctx, rootConfig, config.dataInput, schema)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			t, err := loadTree(ctx, config.treeInput, schema)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			rootConfig.Logf("Testing tree against a table with %d rows...", tbl.Count())
			metric, errorCount, err := t.Test(ctx, tbl)
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing tree: %v\n", err)
				os.Exit(6)
			}
			rootConfig.Logf("Done")
			if schema.TargetFeature().Kind() == feature.Categorical {
				fmt.Printf("%f success rate, failed to make a prediction for %d rows\n", metric, errorCount)
			} else {
				fmt.Printf("%f mean absolute percentage deviation, failed to make a prediction for %d rows\n", metric, errorCount)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the columns available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to test will be read and parsed as JSON (required)")
	cmd.PersistentFlags().StringVarP(&(config.targetColumn), "target", "c", "", "name of the column the tree predicts (defaults to the metadata's target)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func loadTree(ctx context.Context, filepath string, schema *feature.Schema) (*tree.Tree, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", filepath, err)
	}
	defer f.Close()
	t := tree.New("", tree.NewMemoryNodeStore(), schema.Target())
	err = treejson.ReadJSONTree(ctx, t, schema, f)
	if err != nil {
		return nil, fmt.Errorf("parsing tree in JSON from %s: %v", filepath, err)
	}
	return t, nil
}
