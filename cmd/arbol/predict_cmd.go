package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pmoros/arbol/dataset/inputrow"
	"github.com/pmoros/arbol/feature"
	"github.com/pmoros/arbol/feature/yaml"
	"github.com/pmoros/arbol/tree"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	metadataInput string
	targetColumn  string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a value for a row answering questions",
		Long:  `Use the loaded tree to predict the target column value for a row, answering a question for each feature column`,
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
			t, err := loadTree(ctx, config.treeInput, schema)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			prediction, err := predict(ctx, t, schema)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			printPrediction(prediction, schema)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the columns of the data the tree was grown from (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON (required)")
	cmd.PersistentFlags().StringVarP(&(config.targetColumn), "target", "c", "", "name of the column the tree predicts (defaults to the metadata's target)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

func predict(ctx context.Context, t *tree.Tree, schema *feature.Schema) (*tree.Prediction, error) {
	row, err := inputrow.ReadRow(os.Stdin, schema, inputrow.WriterValueRequester(os.Stdout))
	if err != nil {
		return nil, err
	}
	return t.Predict(ctx, row)
}

func printPrediction(p *tree.Prediction, schema *feature.Schema) {
	if p.Kind() == feature.Numeric {
		fmt.Printf("Predicted %s is %f (variance %f over %d rows)\n", schema.TargetFeature().Name(), p.Mean(), p.Variance(), p.Weight())
		return
	}
	target := schema.TargetFeature().(*feature.CategoricalFeature)
	code, prob := p.PredictedClass()
	category, _ := target.Category(code)
	fmt.Printf("Predicted %s is %s with probability %f\n", schema.TargetFeature().Name(), category, prob)
	for c, cp := range p.Probabilities() {
		category, _ := target.Category(c)
		fmt.Printf("  %s: %f\n", category, cp)
	}
}
