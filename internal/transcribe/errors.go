package transcribe

import (
	"errors"
	"fmt"
)

// ErrExhausted signals that every work image already has a transcription.
// The outer loop treats it as graceful completion, not a failure.
var ErrExhausted = errors.New("all work images have been transcribed")

// PreconditionError signals missing required context, such as a reference
// image without its annotation file. Fatal: fix the input and rerun.
type PreconditionError struct {
	Path   string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed for %s: %s", e.Path, e.Reason)
}

// PersistenceError signals a failed transcription write. Fatal: the driver
// must not advance past the unsaved image.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist transcription %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
