package segmenter

import (
	"context"
	"errors"
)

// ErrSegmentation marks a failed split: the completion backend was unreachable,
// answered with an error, or returned nothing usable.
var ErrSegmentation = errors.New("segmentation failed")

// Segmenter turns raw narration text into caption-ready lines.
type Segmenter interface {
	Segment(ctx context.Context, text string, minWords int) ([]string, error)
}

// Completer is a single request/response text-completion backend.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
