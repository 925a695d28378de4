package main

import (
	"fmt"

	"codecsum/internal/config"
	"codecsum/internal/dataset"
	"codecsum/internal/events"
	"codecsum/internal/summary"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// summarizeCmd builds one comparison snapshot and prints its summary.
var summarizeCmd = &cobra.Command{
	Use:   "summarize <batch.json> [batch.json...]",
	Short: "Summarize how the given batches compare",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		raw, err := dataset.LoadBatches(cmd.Context(), args, logger)
		if err != nil {
			return err
		}

		bus := events.NewBus()
		defer bus.Close()

		builder := dataset.NewBuilder(cfg, bus, logger)
		state := builder.Build(raw)
		logger.Info("Comparison snapshot built",
			zap.Int("batches", len(state.Batches)),
			zap.Bool("relative", state.ShowRelativeRatios))

		composer := summary.NewComposer(summary.WithBatchInfoRequests(bus.RequestBatchInfo))
		fmt.Fprintln(cmd.OutOrStdout(), renderText(composer.RenderSummary(state), plainText))
		return nil
	},
}
