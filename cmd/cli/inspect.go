package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dvloznov/dataflow-etl/internal/domain"
	"github.com/dvloznov/dataflow-etl/internal/sink"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE_NAME",
	Short: "List the stored records of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)

		repo, err := sink.Open(ctx, sink.OptionsFromConfig(cfg))
		if err != nil {
			return err
		}
		defer repo.Close()

		records, err := repo.ListRecordsByFile(ctx, args[0])
		if err != nil {
			return fmt.Errorf("inspect failed: %w", err)
		}

		printRecords(cmd.OutOrStdout(), records)
		return nil
	},
}

// printRecords writes one aligned line per record followed by a count.
func printRecords(w io.Writer, records []*domain.Record) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORD_ID\tNAME\tEMAIL\tAMOUNT\tUPLOAD_TIME\tETL_NOTES\tATTRIBUTES")
	for _, rec := range records {
		attrs := make([]string, 0, len(rec.Attributes))
		for _, k := range rec.AttributeKeys() {
			attrs = append(attrs, k+"="+rec.Attributes[k])
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			rec.RecordID, rec.Name, rec.Email, rec.Amount.String(),
			rec.UploadTime, rec.Notes, strings.Join(attrs, " "))
	}
	tw.Flush()
	fmt.Fprintf(w, "%d record(s)\n", len(records))
}
