// Command function serves the CSV pipeline through the Functions Framework.
// ProcessCSV handles storage CloudEvents; ProcessCSVHTTP handles the same
// notifications posted as JSON.
package main

import (
	"context"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/dvloznov/dataflow-etl/internal/api"
	"github.com/dvloznov/dataflow-etl/internal/config"
	"github.com/dvloznov/dataflow-etl/internal/gcsuploader"
	"github.com/dvloznov/dataflow-etl/internal/logger"
	"github.com/dvloznov/dataflow-etl/internal/notify"
	"github.com/dvloznov/dataflow-etl/internal/pipeline"
	"github.com/dvloznov/dataflow-etl/internal/sink"
	"github.com/dvloznov/dataflow-etl/internal/trigger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.Configure(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.ValidateCloud(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Clients are built once and shared by every invocation.
	ctx := logger.WithContext(context.Background(), log)

	storageSvc, err := gcsuploader.NewGCSStorageService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer storageSvc.Close()

	repo, err := sink.Open(ctx, sink.OptionsFromConfig(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record sink")
	}
	defer repo.Close()

	notifier, closeNotifier, err := notify.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create notifier")
	}
	defer closeNotifier()

	driver := pipeline.NewDriver(pipeline.Deps{
		Storage:  storageSvc,
		Sink:     repo,
		Notifier: notifier,
	})

	functions.CloudEvent("ProcessCSV", trigger.NewCloudEventHandler(driver, log))
	functions.HTTP("ProcessCSVHTTP", api.NewRouter(driver, log).ServeHTTP)

	log.Info().
		Str("port", cfg.Port).
		Str("sink", cfg.SinkBackend).
		Str("table", cfg.Table).
		Bool("notion", cfg.NotionEnabled()).
		Msg("Starting function server")

	if err := funcframework.Start(cfg.Port); err != nil {
		log.Error().Err(err).Msg("Function server stopped")
		os.Exit(1)
	}
}
