package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/artalog/escribano/internal/pdfimages"
)

func newExtractCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "extract <pdf>",
		Short: "Extract embedded page scans from a PDF",
		Long: `Extract pulls every embedded image out of a PDF into an output directory,
naming files page_NNN_img_NNN.<ext>. The zero-padded numbering makes
lexicographic filename order match page order, which is what the transcribe
and serve commands expect.`,
		Example: `  # Extract into a directory named after the PDF
  escribano extract scans/ACP_1772.pdf

  # Extract into an explicit directory
  escribano extract scans/ACP_1772.pdf --output data/archives/ACP_1772`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdfPath := args[0]
			if outDir == "" {
				outDir = pdfimages.DefaultOutputDir(pdfPath)
			}

			count, err := pdfimages.Extract(pdfPath, outDir)
			if err != nil {
				return err
			}
			slog.Info("Extraction complete", "pdf", pdfPath, "images", count, "dir", outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Output directory (default: PDF path without extension)")

	return cmd
}
