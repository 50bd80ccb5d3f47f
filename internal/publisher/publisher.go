package publisher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/nguyentantai21042004/slide-narrator/internal/docstore"
	"github.com/nguyentantai21042004/slide-narrator/internal/pipeline"
	"github.com/nguyentantai21042004/slide-narrator/internal/units"
)

const (
	contentTypeAudio   = "audio/mpeg"
	contentTypeCaption = "text/plain; charset=utf-8"
)

// Publish uploads every Success unit in sequence order and appends its entry
// to the target slide. Per-unit problems skip that unit; a missing document or
// slide aborts the run. Blobs uploaded before an abort are left in place.
func (p *implPublisher) Publish(ctx context.Context, req Request) (Report, error) {
	startTime := time.Now()

	// Checked before any upload so a bad target never leaves orphaned blobs.
	if err := p.preflight(ctx, req); err != nil {
		return Report{}, err
	}

	eligible := make([]units.Unit, 0, len(req.Units))
	for _, u := range req.Units {
		if u.Status == units.Success {
			eligible = append(eligible, u)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].Seq < eligible[j].Seq })

	p.logger.Info(ctx, "Publishing %d of %d units to slide %d of %s", len(eligible), len(req.Units), req.SlideOrder, req.DocumentID)

	var report Report
	for _, u := range eligible {
		out, err := p.publishUnit(ctx, req, u)
		if err != nil {
			p.logger.Error(ctx, "Publish aborted at unit %d: %v", u.Seq, err)
			return report, err
		}

		if out.Err != nil {
			report.Skipped++
			if errors.Is(out.Err, ErrDeclined) {
				p.logger.Info(ctx, "[SKIP] unit %d: %v", u.Seq, out.Err)
			} else {
				p.logger.Warn(ctx, "[SKIP] unit %d: %v", u.Seq, out.Err)
			}
		} else {
			report.Published++
			p.logger.Info(ctx, "[DONE] unit %d attached to slide %d", u.Seq, req.SlideOrder)
		}
		report.Outcomes = append(report.Outcomes, out)
		if req.Notify != nil {
			req.Notify(out)
		}
	}

	p.logger.Info(ctx, "Publish complete: %d published, %d skipped (%s)", report.Published, report.Skipped, time.Since(startTime))
	return report, nil
}

// publishUnit returns a fatal error only for a missing document or slide.
// Everything else is reported in Outcome.Err.
func (p *implPublisher) publishUnit(ctx context.Context, req Request, u units.Unit) (Outcome, error) {
	out := Outcome{Seq: u.Seq}
	skip := func(format string, args ...interface{}) (Outcome, error) {
		out.Err = fmt.Errorf(format, args...)
		return out, nil
	}

	audioLocal, captionLocal := pipeline.WorkingPaths(p.localDir, req.BaseName, u.Seq)
	folder := path.Join(p.root, req.BaseName)
	audioRemote := path.Join(folder, path.Base(audioLocal))
	captionRemote := path.Join(folder, path.Base(captionLocal))

	exists, err := p.blobs.Exists(ctx, audioRemote)
	if err != nil {
		return skip("check %s: %w", audioRemote, err)
	}
	if exists && !p.confirmer.ConfirmOverwrite(ctx, audioRemote) {
		return skip("%s: %w", audioRemote, ErrDeclined)
	}

	audio, err := os.ReadFile(audioLocal)
	if err != nil {
		return skip("read audio: %w", err)
	}
	if err := p.blobs.Upload(ctx, audioRemote, audio, contentTypeAudio); err != nil {
		return skip("upload audio: %w", err)
	}
	audioURL, err := p.blobs.SignedURL(ctx, audioRemote, p.ttl)
	if err != nil {
		return skip("sign audio: %w", err)
	}

	caption, err := os.ReadFile(captionLocal)
	if err != nil {
		return skip("read caption: %w", err)
	}
	if err := p.blobs.Upload(ctx, captionRemote, caption, contentTypeCaption); err != nil {
		return skip("upload caption: %w", err)
	}
	if _, err := p.blobs.SignedURL(ctx, captionRemote, p.ttl); err != nil {
		return skip("sign caption: %w", err)
	}

	entry := docstore.AudioEntry{AudioURL: audioURL, Caption: strings.TrimSpace(string(caption))}
	if err := p.attach(ctx, req, entry); err != nil {
		if errors.Is(err, ErrDocumentNotFound) || errors.Is(err, ErrSlideNotFound) {
			return out, err
		}
		return skip("update document: %w", err)
	}

	out.AudioURL = audioURL
	return out, nil
}

// attach is a read-modify-write of the slides array with no concurrency
// control unless the document store enforces one.
func (p *implPublisher) attach(ctx context.Context, req Request, entry docstore.AudioEntry) error {
	doc, idx, err := p.locateSlide(ctx, req.DocumentID, req.SlideOrder)
	if err != nil {
		return err
	}
	doc.AppendAudio(idx, entry)
	return p.docs.UpdateSlides(ctx, req.DocumentID, doc.Slides, doc.UpdateTime)
}

// preflight checks the target slide, reading the document a second time when
// the first read fails for a reason other than a missing document or slide.
func (p *implPublisher) preflight(ctx context.Context, req Request) error {
	_, _, err := p.locateSlide(ctx, req.DocumentID, req.SlideOrder)
	if errors.Is(err, ErrDocumentRead) {
		p.logger.Warn(ctx, "Retrying read of %s: %v", req.DocumentID, err)
		_, _, err = p.locateSlide(ctx, req.DocumentID, req.SlideOrder)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDocumentRead):
		p.logger.Error(ctx, "Publish not started, nothing uploaded: %v", err)
	default:
		p.logger.Error(ctx, "Publish aborted: %v", err)
	}
	return err
}

func (p *implPublisher) locateSlide(ctx context.Context, documentID string, order int) (*docstore.Presentation, int, error) {
	doc, err := p.docs.Get(ctx, documentID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, -1, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
	}
	if err != nil {
		return nil, -1, fmt.Errorf("%w: %s: %w", ErrDocumentRead, documentID, err)
	}

	idx := doc.FindSlide(order)
	if idx < 0 {
		return nil, -1, fmt.Errorf("%w: order %d in %s", ErrSlideNotFound, order, documentID)
	}
	return doc, idx, nil
}
