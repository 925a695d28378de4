// codecsum compares measured codec benchmark batches and writes a
// natural-language summary of how they differ, absolutely or relative to
// a reference batch.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	plainText  bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "codecsum",
	Short: "codecsum - codec benchmark comparison summarizer",
	Long: `codecsum turns measured codec benchmark batches into a plain-English
summary of how they differ.

Each batch file is one benchmarked configuration (a codec at given
settings) holding named measurement columns and one row per data point.
codecsum filters the data, matches points across batches on the pinned
dimensions (for example the same source image), and reports each enabled
metric either as an absolute mean or as a ratio against a reference batch.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "codecsum.yaml", "comparison config file")
	rootCmd.PersistentFlags().BoolVar(&plainText, "plain", false, "disable styled terminal output")

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
