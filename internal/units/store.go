package units

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Store is the ordered, editable set of caption units for one session.
// Records live in an arena keyed by a stable id; order is a separate index
// list, so moves and deletes never copy content between units. Sequence
// numbers and row parity are derived from the index on every read.
type Store struct {
	mu    sync.RWMutex
	arena map[uuid.UUID]*record
	order []uuid.UUID
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{arena: make(map[uuid.UUID]*record)}
}

// Seed replaces the store content with the given lines, all Pending.
// Blank lines are skipped.
func (s *Store) Seed(lines []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.arena = make(map[uuid.UUID]*record, len(lines))
	s.order = s.order[:0]
	for _, line := range lines {
		rec, err := newRecord(line)
		if err != nil {
			continue
		}
		id := uuid.New()
		s.arena[id] = rec
		s.order = append(s.order, id)
	}
}

// Insert appends a new Pending unit.
func (s *Store) Insert(text string) (Unit, error) {
	rec, err := newRecord(text)
	if err != nil {
		return Unit{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.arena[id] = rec
	s.order = append(s.order, id)
	return s.snapshot(len(s.order) - 1), nil
}

// Edit replaces a unit's text. The status is left untouched.
func (s *Store) Edit(id uuid.UUID, text string) (Unit, error) {
	rec, err := newRecord(text)
	if err != nil {
		return Unit{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.indexOf(id)
	if err != nil {
		return Unit{}, err
	}
	cur := s.arena[id]
	cur.text = rec.text
	cur.wordCount = rec.wordCount
	return s.snapshot(idx), nil
}

// Delete removes a unit; the remaining units renumber from 1.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.indexOf(id)
	if err != nil {
		return err
	}
	s.order = append(s.order[:idx], s.order[idx+1:]...)
	delete(s.arena, id)
	return nil
}

// MoveUp swaps a unit with the one above it and returns the moved unit at its
// new position.
func (s *Store) MoveUp(id uuid.UUID) (Unit, error) {
	return s.move(id, -1)
}

// MoveDown swaps a unit with the one below it and returns the moved unit at its
// new position.
func (s *Store) MoveDown(id uuid.UUID) (Unit, error) {
	return s.move(id, 1)
}

func (s *Store) move(id uuid.UUID, delta int) (Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.indexOf(id)
	if err != nil {
		return Unit{}, err
	}
	target := idx + delta
	if target < 0 || target >= len(s.order) {
		return s.snapshot(idx), ErrBoundary
	}
	s.order[idx], s.order[target] = s.order[target], s.order[idx]
	return s.snapshot(target), nil
}

// SetStatus records the outcome of a synthesis attempt.
func (s *Store) SetStatus(id uuid.UUID, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.arena[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	rec.status = status
	return nil
}

// Get returns the current snapshot of a unit.
func (s *Store) Get(id uuid.UUID) (Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, err := s.indexOf(id)
	if err != nil {
		return Unit{}, err
	}
	return s.snapshot(idx), nil
}

// At returns the unit at a 1-based sequence number.
func (s *Store) At(seq int) (Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if seq < 1 || seq > len(s.order) {
		return Unit{}, fmt.Errorf("%w: position %d", ErrNotFound, seq)
	}
	return s.snapshot(seq - 1), nil
}

// Units returns all units in display order.
func (s *Store) Units() []Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Unit, len(s.order))
	for i := range s.order {
		out[i] = s.snapshot(i)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *Store) indexOf(id uuid.UUID) (int, error) {
	for i, cur := range s.order {
		if cur == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Store) snapshot(idx int) Unit {
	id := s.order[idx]
	rec := s.arena[id]
	seq := idx + 1
	return Unit{
		ID:        id,
		Seq:       seq,
		Text:      rec.text,
		WordCount: rec.wordCount,
		Status:    rec.status,
		Row:       rowFor(seq),
	}
}
