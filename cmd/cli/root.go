package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/dataflow-etl/internal/config"
	"github.com/dvloznov/dataflow-etl/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dataflow-cli",
	Short: "Run and inspect the CSV cleaning pipeline",
	Long: `dataflow-cli runs the same pipeline as the storage-triggered function
against an object of your choice, uploads files to trigger it, prepares the
destination table and lists what a run stored.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Read()
		if err != nil {
			return err
		}
		if sink := strings.ToLower(strings.TrimSpace(sinkFlag)); sink != "" {
			cfg.SinkBackend = sink
		}
		validate := cfg.Validate
		if cmd.Annotations[annotationNoTable] != "" {
			validate = cfg.ValidateOptions
		}
		if err := validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		// Human readable output unless json is asked for explicitly.
		format := "console"
		if jsonLogs {
			format = "json"
		}
		log = logger.Configure(format, cfg.LogLevel)
		return nil
	},
}

// annotationNoTable marks commands that run without a destination table.
const annotationNoTable = "no-table"

var (
	sinkFlag string
	jsonLogs bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&sinkFlag, "sink", "", "Record sink: bigquery, postgres, sqlite or memory (default: SINK_BACKEND)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(processCmd, uploadCmd, setupCmd, inspectCmd)
}

func commandContext(cmd *cobra.Command) context.Context {
	return logger.WithContext(cmd.Context(), log)
}
