package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/slide-narrator/internal/units"
)

// ErrSynthesis wraps every per-unit failure: speech request, non-2xx answer or local write.
var ErrSynthesis = errors.New("synthesis failed")

// Synthesizer converts one caption into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Job is the part of a caption unit a worker needs. It is a copy, so the
// worker never touches the unit store directly.
type Job struct {
	ID   uuid.UUID
	Seq  int
	Text string
}

// Event reports the outcome of one job. Done/Total track batch progress.
type Event struct {
	Job       Job
	Status    units.Status
	AudioPath string
	Err       error
	Done      int
	Total     int
}

// Pipeline generates working audio and caption files for caption units.
type Pipeline interface {
	// RunBatch processes jobs in order, sending one event per job, and closes
	// events when finished. A failing job never stops the batch.
	RunBatch(ctx context.Context, jobs []Job, baseName string, events chan<- Event)
	// RunOne regenerates a single job, overwriting its working files.
	RunOne(ctx context.Context, job Job, baseName string) Event
}

// JobsFrom copies units into jobs.
func JobsFrom(list []units.Unit) []Job {
	jobs := make([]Job, len(list))
	for i, u := range list {
		jobs[i] = Job{ID: u.ID, Seq: u.Seq, Text: u.Text}
	}
	return jobs
}
