package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arbol",
		Short: "arbol is a tool to grow decision trees",
		Long:  `A tool to grow classification and regression trees from your data, test them, and use them to make predictions`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.AddCommand(versionCmd(), growCmd(config), testCmd(config), predictCmd(config), splitCmd(config), copyCmd(config))
	return rootCmd
}

func (rc *rootCmdConfig) Logf(format string, a ...interface{}) {
	logger(rc.verbose).Logf(format, a...)
}
