package publisher

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/slide-narrator/internal/docstore"
	"github.com/nguyentantai21042004/slide-narrator/internal/units"
)

var (
	// ErrDocumentNotFound and ErrSlideNotFound abort the whole run.
	ErrDocumentNotFound = errors.New("presentation document not found")
	ErrSlideNotFound    = errors.New("slide order not found in presentation")
	// ErrDocumentRead means the presentation could not be read; nothing was uploaded.
	ErrDocumentRead = errors.New("presentation could not be read")
	// ErrDeclined marks a unit skipped because the operator kept the existing remote audio.
	ErrDeclined = errors.New("overwrite declined")
)

// BlobStore is the remote object storage the publisher writes to.
type BlobStore interface {
	Exists(ctx context.Context, path string) (bool, error)
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// DocumentStore reads and rewrites presentation documents.
type DocumentStore interface {
	Get(ctx context.Context, id string) (*docstore.Presentation, error)
	UpdateSlides(ctx context.Context, id string, slides []map[string]interface{}, readAt time.Time) error
}

// Confirmer asks the operator whether an existing remote audio may be replaced.
// It may block until the operator answers.
type Confirmer interface {
	ConfirmOverwrite(ctx context.Context, remotePath string) bool
}

// Request describes one publish run.
type Request struct {
	Units      []units.Unit
	BaseName   string
	SlideOrder int
	DocumentID string
	// Notify, when set, receives each unit's outcome as soon as it is known.
	Notify func(Outcome)
}

// Outcome is the result for one eligible unit. Err is nil when published.
type Outcome struct {
	Seq      int
	AudioURL string
	Err      error
}

// Report summarises a run that was not aborted.
type Report struct {
	Published int
	Skipped   int
	Outcomes  []Outcome
}

// Publisher uploads successful units and attaches them to a slide.
type Publisher interface {
	Publish(ctx context.Context, req Request) (Report, error)
}
