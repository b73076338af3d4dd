package main

import (
	"fmt"
	"path/filepath"

	"github.com/dvloznov/dataflow-etl/internal/gcsuploader"
	"github.com/spf13/cobra"
)

var (
	uploadBucket string
	uploadObject string
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload a local CSV file to a bucket",
	Long: `Upload a local CSV file. When the bucket is watched by the function the
upload triggers a pipeline run.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNoTable: "true"},
	RunE:        runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadBucket, "bucket", "", "Destination bucket (required)")
	uploadCmd.Flags().StringVar(&uploadObject, "object", "", "Object name (defaults to the file name)")
	_ = uploadCmd.MarkFlagRequired("bucket")
}

func runUpload(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	objectName := uploadObject
	if objectName == "" {
		objectName = filepath.Base(filePath)
	}

	ctx := commandContext(cmd)

	storageSvc, err := gcsuploader.NewGCSStorageService(ctx)
	if err != nil {
		return err
	}
	defer storageSvc.Close()

	log.Info().
		Str("bucket", uploadBucket).
		Str("object", objectName).
		Str("file", filePath).
		Msg("Uploading file")

	if err := storageSvc.UploadFile(ctx, uploadBucket, objectName, filePath); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to gs://%s/%s\n", filePath, uploadBucket, objectName)
	return nil
}
