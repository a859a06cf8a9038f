package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/artalog/escribano/internal/config"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escribano",
		Short: "Archival document digitization toolkit with LLM-powered transcription",
		Long: `Escribano supports a manual archival-document digitization workflow:
extract embedded page scans from PDFs, transcribe them with a vision-capable
LLM using prior human transcriptions as few-shot context, upload the resulting
text to Google Docs, and browse scans and transcriptions side by side.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default escribano.yaml in the working directory)")

	// Add subcommands
	cmd.AddCommand(newTranscribeCmd())
	cmd.AddCommand(newExtractCmd())
	cmd.AddCommand(newUploadCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// loadConfig resolves the --config persistent flag and loads settings.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}
