package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "savewatch",
		Short:        "savewatch",
		SilenceUsage: true,
		Long:         `Watches a save-game directory, parses new save archives and streams the parsed trees to downstream consumers. See README.md.`,
	}

	directory string
	prefix    string
	threads   int
	verbose   bool
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", "", "path to the save directory tree which will be scanned for *.sav files (default from savewatch.yaml or the game's standard location)")
	rootCmd.PersistentFlags().StringVarP(&prefix, "prefix", "p", "", "only process games whose directory name starts with this prefix")
	rootCmd.PersistentFlags().IntVarP(&threads, "threads", "t", 0, "number of parallel parse workers (default from savewatch.yaml or CPU count - 2)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return rootCmd.Execute()
}

func newLogger() *logrus.Logger {
	logger := logrus.StandardLogger()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
