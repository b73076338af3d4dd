package main

import (
	"fmt"

	"github.com/dvloznov/dataflow-etl/internal/sink"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the destination table",
	Long:  `Create the destination table of the configured sink. Safe to run more than once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)

		repo, err := sink.Open(ctx, sink.OptionsFromConfig(cfg))
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.EnsureTable(ctx); err != nil {
			return fmt.Errorf("setup failed: %w", err)
		}

		log.Info().Str("sink", cfg.SinkBackend).Str("table", cfg.Table).Msg("Destination table ready")
		return nil
	},
}
