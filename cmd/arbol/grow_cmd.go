package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pmoros/arbol"
	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/feature"
	"github.com/pmoros/arbol/feature/yaml"
	"github.com/pmoros/arbol/queue"
	queuejson "github.com/pmoros/arbol/queue/json"
	"github.com/pmoros/arbol/queue/redisq"
	"github.com/pmoros/arbol/tree"
	treejson "github.com/pmoros/arbol/tree/json"
	"github.com/pmoros/arbol/tree/redisstore"
	"github.com/spf13/cobra"
	redis "gopkg.in/redis.v5"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	output        string
	targetColumn  string
	criterion     string
	minDispersion float64
	maxDepth      int
	nodeStoreURL  string
	queueURL      string
	queueID       string
	taskTimeout   time.Duration
	workers       int
}

const emptyQueueSleep = 100 * time.Millisecond

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a dataset",
		Long:  `Grow a tree from a dataset to predict its target column.`,
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
			trainConfig := &arbol.TrainConfig{
				Criterion:     config.trainCriterion(schema),
				MinDispersion: config.minDispersion,
				MaxDepth:      config.maxDepth,
				Target:        schema.Target(),
			}
			ns, err := config.nodeStore(schema)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			defer ns.Close(ctx)
			q, err := config.taskQueue(ns)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			defer q.Stop(ctx)
			config.Logf("Growing tree from a table with %d rows and %d feature columns to predict %s ...", tbl.Count(), len(schema.FeatureColumns()), schema.TargetFeature().Name())
			t, err := arbol.Seed(ctx, tbl, trainConfig, q, ns)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(7)
			}
			err = config.work(ctx, t, tbl, trainConfig, q)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(8)
			}
			config.Logf("Done")
			config.Logf("%v", t)
			err = outputTree(ctx, config.output, t, schema)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the columns available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.targetColumn), "target", "t", "", "name of the column the generated tree should predict (defaults to the metadata's target)")
	cmd.PersistentFlags().StringVarP(&(config.criterion), "criterion", "c", "", "criterion to score candidate splits with: gini or stddev (defaults to gini for a categorical target, stddev for a continuous one)")
	cmd.PersistentFlags().Float64Var(&(config.minDispersion), "min-dispersion", 0.0, "target dispersion at or below which a node will not be developed further")
	cmd.PersistentFlags().IntVar(&(config.maxDepth), "max-depth", 10, "maximum depth of the grown tree")
	cmd.PersistentFlags().StringVar(&(config.nodeStoreURL), "node-store", "", "redis URL to store the tree nodes on (defaults to growing the tree in memory)")
	cmd.PersistentFlags().StringVar(&(config.queueURL), "queue", "", "redis URL for a task queue shared with other workers (requires node-store, defaults to an in-memory queue)")
	cmd.PersistentFlags().StringVar(&(config.queueID), "queue-id", "arbol", "prefix for the redis keys of the task queue")
	cmd.PersistentFlags().DurationVar(&(config.taskTimeout), "task-timeout", 0, "time after which a task pulled from the queue is dropped and made available to other workers (defaults to 0: no timeout)")
	cmd.PersistentFlags().IntVar(&(config.workers), "workers", 1, "number of goroutines processing node-development tasks")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.workers < 1 {
		return fmt.Errorf("workers flag was set to an invalid value: it must be a positive integer")
	}
	if gcc.queueURL != "" && gcc.nodeStoreURL == "" {
		return fmt.Errorf("queue flag requires the node-store flag: queued tasks reference nodes by ID")
	}
	return nil
}

func (gcc *growCmdConfig) trainCriterion(schema *feature.Schema) arbol.Criterion {
	if gcc.criterion != "" {
		return arbol.Criterion(gcc.criterion)
	}
	if schema.TargetFeature().Kind() == feature.Categorical {
		return arbol.Gini
	}
	return arbol.StdDev
}

func (gcc *growCmdConfig) nodeStore(schema *feature.Schema) (tree.NodeStore, error) {
	if gcc.nodeStoreURL == "" {
		return tree.NewMemoryNodeStore(), nil
	}
	gcc.Logf("Connecting to redis at %s to store nodes...", gcc.nodeStoreURL)
	opts, err := redis.ParseURL(gcc.nodeStoreURL)
	if err != nil {
		return nil, fmt.Errorf("parsing node-store URL: %v", err)
	}
	return redisstore.New(redis.NewClient(opts), gcc.queueID, treejson.NewNodeEncodeDecoder(schema)), nil
}

func (gcc *growCmdConfig) taskQueue(ns tree.NodeStore) (queue.Queue, error) {
	if gcc.queueURL == "" {
		return queue.New(), nil
	}
	gcc.Logf("Connecting to redis at %s for the task queue...", gcc.queueURL)
	opts, err := redis.ParseURL(gcc.queueURL)
	if err != nil {
		return nil, fmt.Errorf("parsing queue URL: %v", err)
	}
	return redisq.New(gcc.queueID, redis.NewClient(opts), gcc.taskTimeout, time.Second, queuejson.New(ns)), nil
}

func (gcc *growCmdConfig) work(ctx context.Context, t *tree.Tree, tbl *dataset.Table, trainConfig *arbol.TrainConfig, q queue.Queue) error {
	if gcc.workers == 1 {
		return arbol.Work(ctx, t, tbl, trainConfig, q, emptyQueueSleep)
	}
	var wg sync.WaitGroup
	errs := make(chan error, gcc.workers)
	for i := 0; i < gcc.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := arbol.Work(ctx, t, tbl, trainConfig, q, emptyQueueSleep)
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	return <-errs
}

func outputTree(ctx context.Context, outputPath string, t *tree.Tree, schema *feature.Schema) error {
	var f *os.File
	var err error
	if outputPath == "" {
		f = os.Stdout
	} else {
		f, err = os.Create(outputPath)
		if err != nil {
			return err
		}
	}
	defer f.Close()
	return treejson.WriteJSONTree(ctx, t, treejson.NewNodeEncodeDecoder(schema), f)
}
