package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/slide-narrator/internal/docstore"
	"github.com/nguyentantai21042004/slide-narrator/internal/logger"
	"github.com/nguyentantai21042004/slide-narrator/internal/naming"
	"github.com/nguyentantai21042004/slide-narrator/internal/pipeline"
	"github.com/nguyentantai21042004/slide-narrator/internal/publisher"
	"github.com/nguyentantai21042004/slide-narrator/internal/segmenter"
	"github.com/nguyentantai21042004/slide-narrator/internal/units"
)

var (
	ErrBusy         = errors.New("a synthesis or publish worker is running")
	ErrNoUnits      = errors.New("there are no caption units to process")
	ErrNotStarted   = errors.New("session has not been started")
	ErrNotReady     = errors.New("generate the audio before publishing")
	ErrInvalidSlide = errors.New("select a valid slide order")
	ErrNotGenerated = errors.New("audio has not been generated for this caption")
)

// DocumentReader reads the target presentation.
type DocumentReader interface {
	Get(ctx context.Context, id string) (*docstore.Presentation, error)
}

// Player plays a local audio file and returns when playback ends.
type Player interface {
	Play(ctx context.Context, path string) error
}

// Deps are the collaborators of a Session.
type Deps struct {
	Segmenter  segmenter.Segmenter
	Resolver   *naming.Resolver
	Pipeline   pipeline.Pipeline
	Publisher  publisher.Publisher
	Documents  DocumentReader
	Player     Player
	Logger     logger.Logger
	AudioDir   string
	DocumentID string
	MinWords   int
}

// Begun describes a started session.
type Begun struct {
	BaseName    string
	Renamed     bool
	SlideOrders []int
	// SlideErr is set when the slide list could not be read; publishing stays disabled.
	SlideErr error
}

// PublishEvent is either one unit's outcome or, with Final set, the end of the run.
type PublishEvent struct {
	Outcome publisher.Outcome
	Final   bool
	Report  publisher.Report
	Err     error
}

// Session holds one operator session: the unit store, the resolved base
// name and the workers acting on them. Worker results come back as events;
// the caller applies them with Apply so store mutation stays on one path.
type Session struct {
	deps  Deps
	store *units.Store

	mu          sync.RWMutex
	baseName    string
	slideOrders []int

	synthGate   *gate
	publishGate *gate
	synthesized atomic.Bool
}

// New creates an empty Session
func New(deps Deps) *Session {
	return &Session{
		deps:        deps,
		store:       units.NewStore(),
		synthGate:   newGate(1),
		publishGate: newGate(1),
	}
}

// Store exposes the unit store for interactive edits.
func (s *Session) Store() *units.Store {
	return s.store
}

func (s *Session) BaseName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseName
}

func (s *Session) SlideOrders() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.slideOrders)
}

// Begin segments text, seeds the store, resolves a free base name and reads
// the slide orders of the target document. A segmentation or naming failure
// leaves the session unstarted.
func (s *Session) Begin(ctx context.Context, text, desiredBase string) (Begun, error) {
	lines, err := s.deps.Segmenter.Segment(ctx, text, s.deps.MinWords)
	if err != nil {
		return Begun{}, err
	}

	baseName, err := s.deps.Resolver.Resolve(ctx, desiredBase)
	if err != nil {
		return Begun{}, fmt.Errorf("resolve base name: %w", err)
	}

	s.store.Seed(lines)
	s.synthesized.Store(false)

	begun := Begun{BaseName: baseName, Renamed: baseName != desiredBase}
	doc, err := s.deps.Documents.Get(ctx, s.deps.DocumentID)
	if err != nil {
		s.deps.Logger.Error(ctx, "Failed to read slides of %s: %v", s.deps.DocumentID, err)
		begun.SlideErr = err
	} else {
		begun.SlideOrders = doc.SlideOrders()
	}

	s.mu.Lock()
	s.baseName = baseName
	s.slideOrders = begun.SlideOrders
	s.mu.Unlock()

	s.deps.Logger.Info(ctx, "Session started: %d units, base name %s, %d slides", s.store.Len(), baseName, len(begun.SlideOrders))
	return begun, nil
}

// SynthesisRunning reports whether a synthesis worker is active.
func (s *Session) SynthesisRunning() bool {
	return s.synthGate.busy()
}

// PublishRunning reports whether a publish worker is active.
func (s *Session) PublishRunning() bool {
	return s.publishGate.busy()
}

// PublishReady reports whether a batch has completed in this session.
func (s *Session) PublishReady() bool {
	return s.synthesized.Load()
}

// StartBatch runs synthesis for every unit on a background worker. The
// returned channel yields one event per unit in sequence order and is closed
// when the batch ends.
func (s *Session) StartBatch(ctx context.Context) (<-chan pipeline.Event, error) {
	baseName := s.BaseName()
	if baseName == "" {
		return nil, ErrNotStarted
	}
	jobs := pipeline.JobsFrom(s.store.Units())
	if len(jobs) == 0 {
		return nil, ErrNoUnits
	}
	if !s.acquireSynthesis() {
		return nil, ErrBusy
	}

	inner := make(chan pipeline.Event)
	out := make(chan pipeline.Event, len(jobs))
	go s.deps.Pipeline.RunBatch(ctx, jobs, baseName, inner)
	go func() {
		for ev := range inner {
			out <- ev
		}
		s.synthesized.Store(true)
		s.synthGate.release()
		close(out)
	}()
	return out, nil
}

// StartOne regenerates a single unit on a background worker.
func (s *Session) StartOne(ctx context.Context, id uuid.UUID) (<-chan pipeline.Event, error) {
	baseName := s.BaseName()
	if baseName == "" {
		return nil, ErrNotStarted
	}
	u, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if !s.acquireSynthesis() {
		return nil, ErrBusy
	}

	out := make(chan pipeline.Event, 1)
	go func() {
		ev := s.deps.Pipeline.RunOne(ctx, pipeline.JobsFrom([]units.Unit{u})[0], baseName)
		s.synthGate.release()
		out <- ev
		close(out)
	}()
	return out, nil
}

// acquireSynthesis takes the synthesis gate unless a worker of either kind
// holds the working files.
func (s *Session) acquireSynthesis() bool {
	if !s.synthGate.tryAcquire() {
		return false
	}
	if s.publishGate.busy() {
		s.synthGate.release()
		return false
	}
	return true
}

// Delete removes a unit. Working files of the deleted unit are removed and
// those of the units after it are renamed to their new positions.
func (s *Session) Delete(ctx context.Context, id uuid.UUID) error {
	return s.reorder(ctx, func() error {
		return s.store.Delete(id)
	})
}

// MoveUp swaps a unit with its predecessor; its working files follow it.
func (s *Session) MoveUp(ctx context.Context, id uuid.UUID) (units.Unit, error) {
	var moved units.Unit
	err := s.reorder(ctx, func() error {
		var err error
		moved, err = s.store.MoveUp(id)
		return err
	})
	return moved, err
}

// MoveDown swaps a unit with its successor; its working files follow it.
func (s *Session) MoveDown(ctx context.Context, id uuid.UUID) (units.Unit, error) {
	var moved units.Unit
	err := s.reorder(ctx, func() error {
		var err error
		moved, err = s.store.MoveDown(id)
		return err
	})
	return moved, err
}

// reorder runs a renumbering store change while no worker touches the
// working files, then relocates the files of every unit whose seq changed.
// When relocation fails the shifted units go back to Pending and their
// files are dropped, so a Success status never points at another unit's audio.
func (s *Session) reorder(ctx context.Context, mutate func() error) error {
	if !s.acquireSynthesis() {
		return ErrBusy
	}
	defer s.synthGate.release()

	before := seqsByID(s.store.Units())
	if err := mutate(); err != nil {
		return err
	}
	after := seqsByID(s.store.Units())

	baseName := s.BaseName()
	if baseName == "" {
		return nil
	}

	moves := make(map[int]int)
	var shifted []uuid.UUID
	for id, from := range before {
		to := after[id]
		if to == from {
			continue
		}
		moves[from] = to
		if to != 0 {
			shifted = append(shifted, id)
		}
	}
	if len(moves) == 0 {
		return nil
	}

	if err := pipeline.Relocate(s.deps.AudioDir, baseName, moves); err != nil {
		s.deps.Logger.Error(ctx, "Failed to relocate working files: %v", err)
		drop := make(map[int]int, len(shifted))
		for _, id := range shifted {
			_ = s.store.SetStatus(id, units.Pending)
			drop[after[id]] = 0
		}
		if err := pipeline.Relocate(s.deps.AudioDir, baseName, drop); err != nil {
			s.deps.Logger.Error(ctx, "Failed to remove working files: %v", err)
		}
	}
	return nil
}

func seqsByID(list []units.Unit) map[uuid.UUID]int {
	seqs := make(map[uuid.UUID]int, len(list))
	for _, u := range list {
		seqs[u.ID] = u.Seq
	}
	return seqs
}

// Apply records a synthesis outcome in the store. A unit deleted while its
// job was running is ignored.
func (s *Session) Apply(ctx context.Context, ev pipeline.Event) {
	if err := s.store.SetStatus(ev.Job.ID, ev.Status); err != nil {
		s.deps.Logger.Warn(ctx, "Dropping result for unit %d: %v", ev.Job.Seq, err)
	}
}

// StartPublish uploads every Success unit to the given slide on a background
// worker. Per-unit outcomes arrive first, then one Final event.
func (s *Session) StartPublish(ctx context.Context, slideOrder int) (<-chan PublishEvent, error) {
	baseName := s.BaseName()
	if baseName == "" {
		return nil, ErrNotStarted
	}
	if !s.PublishReady() {
		return nil, ErrNotReady
	}
	if !slices.Contains(s.SlideOrders(), slideOrder) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlide, slideOrder)
	}
	if !s.publishGate.tryAcquire() {
		return nil, ErrBusy
	}
	if s.synthGate.busy() {
		s.publishGate.release()
		return nil, ErrBusy
	}

	list := s.store.Units()
	out := make(chan PublishEvent, len(list)+1)
	go func() {
		defer close(out)
		defer s.publishGate.release()

		report, err := s.deps.Publisher.Publish(ctx, publisher.Request{
			Units:      list,
			BaseName:   baseName,
			SlideOrder: slideOrder,
			DocumentID: s.deps.DocumentID,
			Notify:     func(o publisher.Outcome) { out <- PublishEvent{Outcome: o} },
		})
		out <- PublishEvent{Final: true, Report: report, Err: err}
	}()
	return out, nil
}

// Play plays the working audio of a unit that was generated successfully.
// It blocks until playback ends.
func (s *Session) Play(ctx context.Context, id uuid.UUID) error {
	u, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if u.Status != units.Success {
		return ErrNotGenerated
	}

	audio, _ := pipeline.WorkingPaths(s.deps.AudioDir, s.BaseName(), u.Seq)
	if _, err := os.Stat(audio); err != nil {
		return fmt.Errorf("audio file %s: %w", audio, err)
	}
	return s.deps.Player.Play(ctx, audio)
}
