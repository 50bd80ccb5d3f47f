package units

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func texts(s *Store) []string {
	var out []string
	for _, u := range s.Units() {
		out = append(out, u.Text)
	}
	return out
}

func assertDense(t *testing.T, s *Store) {
	t.Helper()
	for i, u := range s.Units() {
		if u.Seq != i+1 {
			t.Fatalf("unit %d has Seq %d, want %d", i, u.Seq, i+1)
		}
		if u.Row != rowFor(i+1) {
			t.Fatalf("unit %d has Row %v, want %v", i, u.Row, rowFor(i+1))
		}
	}
}

func TestSeed(t *testing.T) {
	s := NewStore()
	s.Seed([]string{"first line here", "  ", "second line"})

	got := s.Units()
	if len(got) != 2 {
		t.Fatalf("Len = %d, want 2", len(got))
	}
	if got[0].WordCount != 3 || got[1].WordCount != 2 {
		t.Errorf("word counts = %d,%d, want 3,2", got[0].WordCount, got[1].WordCount)
	}
	for _, u := range got {
		if u.Status != Pending {
			t.Errorf("unit %d status = %v, want Pending", u.Seq, u.Status)
		}
	}
	assertDense(t, s)
}

func TestInsertAndEditValidation(t *testing.T) {
	s := NewStore()

	if _, err := s.Insert("   "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Insert(blank) error = %v, want ErrEmptyText", err)
	}
	if s.Len() != 0 {
		t.Fatalf("blank insert mutated store")
	}

	u, err := s.Insert("  hello world ")
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if u.Seq != 1 || u.Text != "hello world" || u.WordCount != 2 {
		t.Errorf("Insert() = %+v", u)
	}

	if _, err := s.Edit(u.ID, "\n\t"); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Edit(blank) error = %v, want ErrEmptyText", err)
	}
	if got, _ := s.Get(u.ID); got.Text != "hello world" {
		t.Errorf("blank edit changed text to %q", got.Text)
	}

	if _, err := s.Edit(uuid.New(), "text"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Edit(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestEditKeepsStatus(t *testing.T) {
	s := NewStore()
	u, _ := s.Insert("original text")
	if err := s.SetStatus(u.ID, Success); err != nil {
		t.Fatal(err)
	}

	edited, err := s.Edit(u.ID, "a brand new caption")
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if edited.Status != Success {
		t.Errorf("Status after edit = %v, want Success", edited.Status)
	}
	if edited.WordCount != 4 {
		t.Errorf("WordCount = %d, want 4", edited.WordCount)
	}
}

func TestDeleteRenumbers(t *testing.T) {
	s := NewStore()
	s.Seed([]string{"a", "b", "c", "d"})
	second := s.Units()[1]

	if err := s.Delete(second.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c", "d"}, texts(s)); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	assertDense(t, s)

	if err := s.Delete(second.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMoveCarriesContentAndStatus(t *testing.T) {
	s := NewStore()
	s.Seed([]string{"a", "b", "c"})
	units := s.Units()
	_ = s.SetStatus(units[2].ID, Failed)

	moved, err := s.MoveUp(units[2].ID)
	if err != nil {
		t.Fatalf("MoveUp() error = %v", err)
	}
	if moved.Seq != 2 || moved.Text != "c" || moved.Status != Failed {
		t.Errorf("MoveUp() = %+v, want c at 2 with Failed", moved)
	}
	if diff := cmp.Diff([]string{"a", "c", "b"}, texts(s)); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}

	moved, err = s.MoveDown(units[0].ID)
	if err != nil {
		t.Fatalf("MoveDown() error = %v", err)
	}
	if moved.Seq != 2 || moved.Text != "a" {
		t.Errorf("MoveDown() = %+v, want a at 2", moved)
	}
	assertDense(t, s)
}

func TestMoveAtBoundary(t *testing.T) {
	s := NewStore()
	s.Seed([]string{"a", "b"})
	units := s.Units()

	if _, err := s.MoveUp(units[0].ID); !errors.Is(err, ErrBoundary) {
		t.Errorf("MoveUp(top) error = %v, want ErrBoundary", err)
	}
	if _, err := s.MoveDown(units[1].ID); !errors.Is(err, ErrBoundary) {
		t.Errorf("MoveDown(bottom) error = %v, want ErrBoundary", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, texts(s)); diff != "" {
		t.Errorf("boundary move changed order (-want +got):\n%s", diff)
	}
}

func TestAt(t *testing.T) {
	s := NewStore()
	s.Seed([]string{"a", "b"})

	u, err := s.At(2)
	if err != nil || u.Text != "b" {
		t.Errorf("At(2) = %+v, %v", u, err)
	}
	if _, err := s.At(3); !errors.Is(err, ErrNotFound) {
		t.Errorf("At(3) error = %v, want ErrNotFound", err)
	}
}

func TestRenumberingInvariantUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewStore()
	s.Seed([]string{"one", "two", "three"})

	for step := 0; step < 500; step++ {
		units := s.Units()
		var pick uuid.UUID
		if len(units) > 0 {
			pick = units[rng.Intn(len(units))].ID
		}

		switch op := rng.Intn(4); {
		case op == 0 || len(units) == 0:
			if _, err := s.Insert("line"); err != nil {
				t.Fatal(err)
			}
		case op == 1:
			if err := s.Delete(pick); err != nil {
				t.Fatal(err)
			}
		case op == 2:
			if _, err := s.MoveUp(pick); err != nil && !errors.Is(err, ErrBoundary) {
				t.Fatal(err)
			}
		default:
			if _, err := s.MoveDown(pick); err != nil && !errors.Is(err, ErrBoundary) {
				t.Fatal(err)
			}
		}

		assertDense(t, s)
		seen := make(map[uuid.UUID]bool)
		for _, u := range s.Units() {
			if seen[u.ID] {
				t.Fatalf("duplicate id %s after step %d", u.ID, step)
			}
			seen[u.ID] = true
		}
	}
}
