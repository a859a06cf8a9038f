package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/artalog/escribano/internal/archive"
	"github.com/artalog/escribano/internal/conversation"
	"github.com/artalog/escribano/internal/providers"
	"github.com/artalog/escribano/internal/report"
)

// Config holds the driver's tunables. Zero values are replaced with defaults
// by NewDriver.
type Config struct {
	Provider        string // name recorded in the run report
	Model           string
	Temperature     float64
	MaxOutputTokens int
	TurnBudget      int
	MaxRetries      uint64
	SystemPrompt    string
}

const (
	defaultMaxOutputTokens = 16383
	defaultTurnBudget      = 4
	defaultMaxRetries      = 5
)

// Driver runs one full pass over a work set to completion, one image per
// request, using reference examples as few-shot context and prior completions
// as running context. The provider is an explicit dependency so the driver
// can be tested with a fake.
type Driver struct {
	provider providers.Provider
	cfg      Config
}

// NewDriver returns a driver for the given provider and configuration.
func NewDriver(p providers.Provider, cfg Config) *Driver {
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = defaultMaxOutputTokens
	}
	if cfg.TurnBudget == 0 {
		cfg.TurnBudget = defaultTurnBudget
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	return &Driver{provider: p, cfg: cfg}
}

// Run drives the work set in workDir to completion using the reference set in
// refDir as few-shot context. Requests are strictly sequential: each request's
// context depends on the persisted result of the previous one.
//
// The returned report is non-nil whenever discovery succeeded, including on
// partial failure, so callers can see which image is the resumption point.
func (d *Driver) Run(ctx context.Context, refDir, workDir string) (*report.Run, error) {
	refs, err := archive.Scan(refDir)
	if err != nil {
		return nil, fmt.Errorf("failed to discover reference images: %w", err)
	}
	work, err := archive.Scan(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to discover work images: %w", err)
	}

	system, err := BuildSystemContext(d.cfg.SystemPrompt, refs)
	if err != nil {
		return nil, err
	}

	run := &report.Run{
		Config: report.Config{
			Provider:     d.cfg.Provider,
			Model:        d.cfg.Model,
			Temperature:  d.cfg.Temperature,
			TurnBudget:   d.cfg.TurnBudget,
			ReferenceDir: refDir,
			WorkDir:      workDir,
			Timestamp:    time.Now().Format(time.RFC3339),
		},
	}

	slog.Info("Starting transcription run",
		"reference_images", len(refs), "work_images", len(work),
		"model", d.cfg.Model, "turn_budget", d.cfg.TurnBudget)

	for {
		unit, err := NextUnit(work, d.cfg.TurnBudget)
		if errors.Is(err, ErrExhausted) {
			slog.Info("Work set complete", "work_dir", workDir)
			return run, nil
		}
		if err != nil {
			return run, err
		}

		target := unit.Target
		slog.Info("Transcribing image", "image", target.Path(), "context_turns", len(unit.Context))

		targetTurn, err := UserTurn(target)
		if err != nil {
			run.Pages = append(run.Pages, report.Page{Image: target.Name(), Status: "failed", Error: err.Error()})
			return run, err
		}

		// The final turn is always the user turn for the pending target.
		turns := make([]conversation.Turn, 0, len(system)+len(unit.Context)+1)
		turns = append(turns, system...)
		turns = append(turns, unit.Context...)
		turns = append(turns, targetTurn)

		started := time.Now()
		text, err := d.request(ctx, turns)
		if err != nil {
			run.Pages = append(run.Pages, report.Page{Image: target.Name(), Status: "failed", Error: err.Error()})
			return run, fmt.Errorf("transcription failed at %s: %w", target.Path(), err)
		}

		if err := target.SaveTranscription(text); err != nil {
			perr := &PersistenceError{Path: target.TranscriptionPath(), Err: err}
			run.Pages = append(run.Pages, report.Page{Image: target.Name(), Status: "failed", Error: perr.Error()})
			return run, perr
		}

		elapsed := time.Since(started)
		run.Pages = append(run.Pages, report.Page{
			Image:    target.Name(),
			Status:   "transcribed",
			Chars:    len(text),
			Duration: elapsed.Round(time.Millisecond).String(),
		})
		slog.Info("Saved transcription", "path", target.TranscriptionPath(), "chars", len(text), "duration", elapsed.Round(time.Millisecond))
	}
}

// request calls the provider, retrying transient failures with exponential
// backoff. Resumability makes a retried request safe: nothing is persisted
// until a full response arrives.
func (d *Driver) request(ctx context.Context, turns []conversation.Turn) (string, error) {
	var text string
	operation := func() error {
		out, err := d.provider.Transcribe(ctx, turns, providers.Request{
			Model:           d.cfg.Model,
			Temperature:     d.cfg.Temperature,
			MaxOutputTokens: d.cfg.MaxOutputTokens,
		})
		if err != nil {
			var transient *providers.TransientAPIError
			if errors.As(err, &transient) {
				slog.Warn("Transient API error, will retry", "err", err)
				return err
			}
			return backoff.Permanent(err)
		}
		text = out
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), d.cfg.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return text, nil
}
