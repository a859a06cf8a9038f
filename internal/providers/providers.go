package providers

import (
	"context"
	"fmt"

	"github.com/artalog/escribano/internal/conversation"
)

// Request carries the per-call sampling parameters for a provider.
type Request struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
}

// Provider defines the interface for a vision-capable completion backend.
// Implementations receive the fully assembled conversation and return the
// generated transcription text verbatim.
type Provider interface {
	Transcribe(ctx context.Context, turns []conversation.Turn, req Request) (string, error)
}

// TransientAPIError wraps a provider failure that is expected to clear on its
// own (rate limit, server error, network fault). Callers retry these with
// backoff; anything else is permanent.
type TransientAPIError struct {
	Err error
}

func (e *TransientAPIError) Error() string {
	return fmt.Sprintf("transient API error: %v", e.Err)
}

func (e *TransientAPIError) Unwrap() error {
	return e.Err
}
