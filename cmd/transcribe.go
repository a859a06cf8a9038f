package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/artalog/escribano/internal/gemini"
	"github.com/artalog/escribano/internal/openai"
	"github.com/artalog/escribano/internal/providers"
	"github.com/artalog/escribano/internal/report"
	"github.com/artalog/escribano/internal/transcribe"
)

func newTranscribeCmd() *cobra.Command {
	var provider string
	var model string
	var temperature float64
	var maxOutputTokens int
	var turnBudget int
	var maxRetries int
	var promptFile string
	var reportDir string

	cmd := &cobra.Command{
		Use:   "transcribe <reference-dir> <work-dir>",
		Short: "Transcribe scanned pages using human transcriptions as few-shot context",
		Long: `Transcribe drives one full pass over a work directory of page scans,
one image per request. Reference images (each paired with a mandatory
<name>_annotation.txt human transcription) are sent as few-shot examples, and
prior completions become running context for later pages.

Completion state is the presence of a <name>.txt file beside each scan, so an
interrupted run picks up exactly where it left off when rerun.`,
		Example: `  # Transcribe with OpenAI (reads OPENAI_API_KEY from env or .env)
  escribano transcribe data/archives/reference data/archives/ACP_1772

  # Use Gemini with a custom context window
  escribano transcribe --provider gemini --turn-budget 6 refs/ work/`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyStringFlag(cmd, "provider", &provider, cfg.Provider)
			applyStringFlag(cmd, "model", &model, cfg.Model)
			applyStringFlag(cmd, "report-dir", &reportDir, cfg.ReportDir)
			applyStringFlag(cmd, "prompt-file", &promptFile, cfg.SystemPromptFile)
			if !cmd.Flags().Changed("temperature") {
				temperature = cfg.Temperature
			}
			if !cmd.Flags().Changed("max-output-tokens") {
				maxOutputTokens = cfg.MaxOutputTokens
			}
			if !cmd.Flags().Changed("turn-budget") {
				turnBudget = cfg.TurnBudget
			}
			if !cmd.Flags().Changed("max-retries") {
				maxRetries = cfg.MaxRetries
			}

			backend, resolvedModel, err := newProvider(provider, model)
			if err != nil {
				return err
			}

			prompt := ""
			if promptFile != "" {
				data, err := os.ReadFile(promptFile)
				if err != nil {
					return fmt.Errorf("failed to read prompt file: %w", err)
				}
				prompt = string(data)
			}

			driver := transcribe.NewDriver(backend, transcribe.Config{
				Provider:        provider,
				Model:           resolvedModel,
				Temperature:     temperature,
				MaxOutputTokens: maxOutputTokens,
				TurnBudget:      turnBudget,
				MaxRetries:      uint64(maxRetries),
				SystemPrompt:    prompt,
			})

			run, runErr := driver.Run(cmd.Context(), args[0], args[1])
			if run != nil {
				path, err := report.Save(run, reportDir)
				if err != nil {
					slog.Error("Unable to save run report", "err", err)
				} else {
					slog.Info("Saved run report", "path", path)
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "openai", "LLM provider (openai, gemini, or ollama)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to the provider's default)")
	cmd.Flags().Float64Var(&temperature, "temperature", 1.0, "Sampling temperature")
	cmd.Flags().IntVar(&maxOutputTokens, "max-output-tokens", 16383, "Maximum output tokens per response")
	cmd.Flags().IntVar(&turnBudget, "turn-budget", 4, "Most recent transcribed images to keep as context per request")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 5, "Retries for transient API errors")
	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "File overriding the default system prompt")
	cmd.Flags().StringVar(&reportDir, "report-dir", "reports", "Directory for run reports")

	return cmd
}

func applyStringFlag(cmd *cobra.Command, name string, value *string, fromConfig string) {
	if !cmd.Flags().Changed(name) && fromConfig != "" {
		*value = fromConfig
	}
}

func newProvider(name, model string) (providers.Provider, string, error) {
	switch name {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		if model == "" {
			model = os.Getenv("OPENAI_MODEL")
		}
		if model == "" {
			model = "gpt-4o"
		}
		return openai.New(apiKey), model, nil
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
		if model == "" {
			model = os.Getenv("GEMINI_MODEL")
		}
		if model == "" {
			model = "gemini-1.5-pro"
		}
		return gemini.New(apiKey), model, nil
	case "ollama":
		// Ollama exposes an OpenAI-compatible endpoint; no API key needed.
		baseURL := os.Getenv("OLLAMA_URL")
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if model == "" {
			model = os.Getenv("OLLAMA_MODEL")
		}
		if model == "" {
			model = "llava"
		}
		return openai.NewWithBaseURL("ollama", baseURL+"/v1"), model, nil
	default:
		return nil, "", fmt.Errorf("unsupported provider: %s", name)
	}
}
