package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pmoros/arbol/feature/yaml"
	"github.com/spf13/cobra"
)

type copyCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	dataOutput    string
}

func copyCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &copyCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy a dataset onto another backend",
		Long:  `Copy a dataset from one backend onto another, for example to load a CSV file into a database before growing trees from it`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := context.Background()
			rootConfig.Logf("Reading schema from metadata at %s...", config.metadataInput)
			schema, err := yaml.ReadSchemaFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			rootConfig.Logf("Schema from metadata read")
			tbl, err := readTableFromInput(ctx, rootConfig, config.dataInput, schema)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			written, err := writeTableToOutput(ctx, rootConfig, config.dataOutput, tbl, tbl.All())
			if err != nil {
				fmt.Fprintf(os.Stderr, "copied %d of %d rows: %v\n", written, tbl.Count(), err)
				os.Exit(4)
			}
			rootConfig.Logf("Done")
			rootConfig.Logf("Copied %d rows", written)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the dataset to copy (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the columns available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the dataset to (defaults to STDOUT in CSV)")
	return cmd
}

func (ccc *copyCmdConfig) Validate() error {
	if ccc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}
