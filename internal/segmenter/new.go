package segmenter

import (
	"time"

	"github.com/nguyentantai21042004/slide-narrator/internal/logger"
)

type implSegmenter struct {
	completer Completer
	timeout   time.Duration
	logger    logger.Logger
}

// New creates a Segmenter backed by the given completion backend
func New(completer Completer, timeout time.Duration, log logger.Logger) Segmenter {
	return &implSegmenter{
		completer: completer,
		timeout:   timeout,
		logger:    log,
	}
}
