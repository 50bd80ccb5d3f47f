package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/nguyentantai21042004/slide-narrator/internal/units"
)

// RunBatch generates audio for every job in sequence order
func (p *implPipeline) RunBatch(ctx context.Context, jobs []Job, baseName string, events chan<- Event) {
	defer close(events)

	startTime := time.Now()
	total := len(jobs)
	p.logger.Info(ctx, "Starting synthesis batch: %d units, base name %s", total, baseName)

	failCount := 0
	for i, job := range jobs {
		ev := p.attempt(ctx, job, baseName)
		ev.Done = i + 1
		ev.Total = total
		if ev.Status == units.Failed {
			failCount++
		}
		events <- ev
	}

	p.logger.Info(ctx, "Synthesis batch complete: %d success, %d failed (%s)", total-failCount, failCount, time.Since(startTime))
}

// RunOne regenerates a single unit unconditionally
func (p *implPipeline) RunOne(ctx context.Context, job Job, baseName string) Event {
	p.logger.Info(ctx, "Regenerating unit %d", job.Seq)
	ev := p.attempt(ctx, job, baseName)
	ev.Done, ev.Total = 1, 1
	return ev
}

func (p *implPipeline) attempt(ctx context.Context, job Job, baseName string) Event {
	audioPath, captionPath := WorkingPaths(p.dir, baseName, job.Seq)

	if err := p.generate(ctx, job, audioPath, captionPath); err != nil {
		p.logger.Error(ctx, "[FAIL] unit %d: %v", job.Seq, err)
		p.removeStale(ctx, audioPath, captionPath)
		return Event{Job: job, Status: units.Failed, Err: fmt.Errorf("%w: unit %d: %v", ErrSynthesis, job.Seq, err)}
	}

	p.logger.Info(ctx, "[DONE] unit %d -> %s", job.Seq, audioPath)
	return Event{Job: job, Status: units.Success, AudioPath: audioPath}
}

func (p *implPipeline) generate(ctx context.Context, job Job, audioPath, captionPath string) error {
	audio, err := p.synth.Synthesize(ctx, job.Text)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}
	if err := os.WriteFile(audioPath, audio, 0644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	if err := os.WriteFile(captionPath, []byte(job.Text), 0644); err != nil {
		return fmt.Errorf("write caption: %w", err)
	}
	return nil
}

// removeStale drops a previous pair so that files exist only after a successful attempt.
func (p *implPipeline) removeStale(ctx context.Context, paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn(ctx, "Failed to remove stale working file %s: %v", path, err)
		}
	}
}
