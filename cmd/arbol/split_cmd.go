package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/dataset/csv"
	"github.com/pmoros/arbol/feature/yaml"
	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	*rootCmdConfig
	dataInput        string
	metadataInput    string
	dataOutput       string
	splitOutput      string
	splitProbability int
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a dataset into two datasets",
		Long:  `Split a dataset into an output dataset and a split dataset, usually to keep a testing dataset apart from the training data`,
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

			var outputFile *os.File
			if config.dataOutput != "" {
				rootConfig.Logf("Creating %s to dump output dataset...", config.dataOutput)
				outputFile, err = os.Create(config.dataOutput)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
				defer outputFile.Close()
			} else {
				rootConfig.Logf("Using STDOUT to dump output dataset...")
				outputFile = os.Stdout
			}
			rootConfig.Logf("Preparing to write output dataset...")
			output, err := csv.NewWriter(outputFile, schema)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}

			rootConfig.Logf("Creating %s to dump split dataset...", config.splitOutput)
			splitOutputFile, err := os.Create(config.splitOutput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			defer splitOutputFile.Close()
			rootConfig.Logf("Preparing to write split output dataset...")
			splitOutput, err := csv.NewWriter(splitOutputFile, schema)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}

			randomizer := rand.New(rand.NewSource(time.Now().UnixNano()))
			splitter := func(i int, r dataset.Row) (bool, error) {
				w := output
				if (100 * randomizer.Float32()) <= float32(config.splitProbability) {
					w = splitOutput
				}
				_, err := w.Write(ctx, []dataset.Row{r})
				if err != nil {
					return false, err
				}
				return true, nil
			}

			var f *os.File
			if config.dataInput == "" {
				rootConfig.Logf("Reading input dataset from STDIN and splitting it into output and split output datasets...")
				f = os.Stdin
			} else {
				rootConfig.Logf("Opening %s to read input dataset...", config.dataInput)
				f, err = os.Open(config.dataInput)
				if err != nil {
					err = fmt.Errorf("reading dataset from %s: %v", config.dataInput, err)
					fmt.Fprintln(os.Stderr, err)
					os.Exit(7)
				}
				rootConfig.Logf("Splitting input dataset into output and split output datasets...")
			}
			defer f.Close()
			err = csv.ReadTableByRow(f, schema, splitter)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(8)
			}
			rootConfig.Logf("Flushing output dataset...")
			err = output.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
			rootConfig.Logf("Flushing split dataset...")
			err = splitOutput.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(10)
			}
			rootConfig.Logf("Done")
			rootConfig.Logf("Input dataset with %d rows was split into datasets with %d and %d rows", output.Count()+splitOutput.Count(), output.Count(), splitOutput.Count())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV file with the dataset to split (defaults to STDIN)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the columns available on the input file (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataOutput), "output", "o", "", "path to a file to dump the output dataset (defaults to STDOUT)")
	cmd.PersistentFlags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a row of the dataset will be assigned to the split dataset")
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a file to dump the split dataset (required)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}
