package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dvloznov/dataflow-etl/internal/gcsuploader"
	"github.com/dvloznov/dataflow-etl/internal/notify"
	"github.com/dvloznov/dataflow-etl/internal/pipeline"
	"github.com/dvloznov/dataflow-etl/internal/sink"
	"github.com/dvloznov/dataflow-etl/internal/sink/inmemory"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// localBucket is the bucket name reported for files read from disk.
const localBucket = "local"

var (
	processBucket string
	processKey    string
	processURI    string
	processFile   string
	processDryRun bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process one CSV object",
	Long: `Run the pipeline for one object, exactly as a storage event would.

The object is named with --bucket and --key, with --gcs-uri, or read from disk
with --file. With --dry-run records are kept in memory and the summary is
logged instead of published.`,
	RunE: runProcess,
}

func init() {
	f := processCmd.Flags()
	f.StringVar(&processBucket, "bucket", "", "Bucket holding the object")
	f.StringVar(&processKey, "key", "", "Object key")
	f.StringVar(&processURI, "gcs-uri", "", "Object as gs://bucket/key")
	f.StringVar(&processFile, "file", "", "Local CSV file to process instead of an object")
	f.BoolVar(&processDryRun, "dry-run", false, "Keep records in memory and log the summary")
}

// fileStorage serves local files as objects; the key is the file path.
type fileStorage struct{}

func (fileStorage) FetchObject(ctx context.Context, bucket, key string) ([]byte, error) {
	data, err := os.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("FetchObject: %w", err)
	}
	return data, nil
}

// processEvent resolves the object flags into a trigger event.
func processEvent() (pipeline.TriggerEvent, error) {
	event := pipeline.TriggerEvent{InvocationID: "cli-" + uuid.NewString()}

	switch {
	case processFile != "":
		event.Bucket, event.Key = localBucket, processFile
	case processURI != "":
		bucket, key, err := gcsuploader.ParseGCSURI(processURI)
		if err != nil {
			return event, err
		}
		event.Bucket, event.Key = bucket, key
	case processBucket != "" && processKey != "":
		event.Bucket, event.Key = processBucket, processKey
	default:
		return event, errors.New("one of --file, --gcs-uri or --bucket with --key is required")
	}

	return event, nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	event, err := processEvent()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), 10*time.Minute)
	defer cancel()

	deps := pipeline.Deps{}

	if processFile != "" {
		deps.Storage = fileStorage{}
	} else {
		storageSvc, err := gcsuploader.NewGCSStorageService(ctx)
		if err != nil {
			return err
		}
		defer storageSvc.Close()
		deps.Storage = storageSvc
	}

	var store *inmemory.Store
	if processDryRun {
		store = inmemory.NewStore()
		deps.Sink = store
		deps.Notifier = notify.LogNotifier{}
	} else {
		repo, err := sink.Open(ctx, sink.OptionsFromConfig(cfg))
		if err != nil {
			return err
		}
		defer repo.Close()
		deps.Sink = repo

		if err := cfg.ValidateCloud(); err != nil {
			log.Warn().Err(err).Msg("Publishing disabled, logging the summary instead")
			deps.Notifier = notify.LogNotifier{}
		} else {
			notifier, closeNotifier, err := notify.NewFromConfig(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeNotifier()
			deps.Notifier = notifier
		}
	}

	res, err := pipeline.NewDriver(deps).Process(ctx, event)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", res.StatusCode, res.Body)
	if store != nil {
		records, err := store.ListRecordsByFile(ctx, event.FileName())
		if err != nil {
			return err
		}
		printRecords(cmd.OutOrStdout(), records)
	}
	if res.StatusCode != pipeline.StatusOK {
		return fmt.Errorf("object rejected with status %d", res.StatusCode)
	}
	return nil
}
