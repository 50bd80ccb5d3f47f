package publisher

import (
	"time"

	"github.com/nguyentantai21042004/slide-narrator/internal/logger"
)

type implPublisher struct {
	blobs     BlobStore
	docs      DocumentStore
	confirmer Confirmer
	localDir  string
	root      string
	ttl       time.Duration
	logger    logger.Logger
}

// Options configures a Publisher
type Options struct {
	LocalDir     string
	RemoteRoot   string
	SignedURLTTL time.Duration
}

// New creates a Publisher
func New(blobs BlobStore, docs DocumentStore, confirmer Confirmer, opts Options, log logger.Logger) Publisher {
	return &implPublisher{
		blobs:     blobs,
		docs:      docs,
		confirmer: confirmer,
		localDir:  opts.LocalDir,
		root:      opts.RemoteRoot,
		ttl:       opts.SignedURLTTL,
		logger:    log,
	}
}
