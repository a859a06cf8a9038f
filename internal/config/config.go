package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds toolkit settings. API keys are deliberately not part of the
// config file; they come from the environment (OPENAI_API_KEY,
// GEMINI_API_KEY), loaded from .env when present.
type Config struct {
	ArchivesRoot     string      `mapstructure:"archives_root"`
	Provider         string      `mapstructure:"provider"`
	Model            string      `mapstructure:"model"`
	Temperature      float64     `mapstructure:"temperature"`
	MaxOutputTokens  int         `mapstructure:"max_output_tokens"`
	TurnBudget       int         `mapstructure:"turn_budget"`
	MaxRetries       int         `mapstructure:"max_retries"`
	SystemPromptFile string      `mapstructure:"system_prompt_file"`
	ReportDir        string      `mapstructure:"report_dir"`
	Port             string      `mapstructure:"port"`
	Drive            DriveConfig `mapstructure:"drive"`
}

type DriveConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	ParentFolderID  string `mapstructure:"parent_folder_id"`
}

// Load reads configuration from configPath, or from an optional
// escribano.yaml in the working directory when configPath is empty.
// Environment variables prefixed ESCRIBANO_ override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("archives_root", "data/archives")
	v.SetDefault("provider", "openai")
	v.SetDefault("temperature", 1.0)
	v.SetDefault("max_output_tokens", 16383)
	v.SetDefault("turn_budget", 4)
	v.SetDefault("max_retries", 5)
	v.SetDefault("report_dir", "reports")
	v.SetDefault("port", "8888")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("escribano")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("ESCRIBANO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
