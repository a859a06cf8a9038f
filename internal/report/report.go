package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config records the settings a transcription run was started with.
type Config struct {
	Provider     string  `yaml:"provider"`
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
	TurnBudget   int     `yaml:"turnbudget"`
	ReferenceDir string  `yaml:"referencedir"`
	WorkDir      string  `yaml:"workdir"`
	Timestamp    string  `yaml:"timestamp"`
}

// Page is the outcome for a single work image.
type Page struct {
	Image    string `yaml:"image"`
	Status   string `yaml:"status"`
	Chars    int    `yaml:"chars,omitempty"`
	Duration string `yaml:"duration,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// Run is the complete record of one driver pass, saved as YAML so runs can be
// compared and audited after the fact.
type Run struct {
	Config Config `yaml:"config"`
	Pages  []Page `yaml:"pages"`
}

// Save writes the run report to a timestamped YAML file under dir and returns
// the written path.
func Save(run *Run, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(dir, fmt.Sprintf("transcribe_%s.yaml", timestamp))

	data, err := yaml.Marshal(run)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
