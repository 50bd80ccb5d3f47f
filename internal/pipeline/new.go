package pipeline

import (
	"github.com/nguyentantai21042004/slide-narrator/internal/logger"
)

type implPipeline struct {
	synth  Synthesizer
	dir    string
	logger logger.Logger
}

// New creates a Pipeline writing working files under dir
func New(synth Synthesizer, dir string, log logger.Logger) Pipeline {
	return &implPipeline{
		synth:  synth,
		dir:    dir,
		logger: log,
	}
}
