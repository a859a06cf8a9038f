package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/artalog/escribano/internal/dataset"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Export completed transcriptions as a dataset",
		Long: `Export collects every transcribed page under a directory (an archive, or a
parent directory of archives) into a flat dataset: one record per completed
image with its transcription and optional human annotation.

The output format follows the file extension: .jsonl or .parquet.`,
		Example: `  escribano export data/archives --output transcriptions.jsonl
  escribano export data/archives/ACP_1772 --output acp_1772.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := dataset.Collect(args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				slog.Warn("No completed transcriptions found", "dir", args[0])
			}
			return dataset.Write(records, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "dataset.jsonl", "Output file (.jsonl or .parquet)")

	return cmd
}
