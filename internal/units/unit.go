package units

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyText = errors.New("caption text cannot be empty")
	ErrNotFound  = errors.New("caption unit not found")
	// ErrBoundary is returned by a move that would leave the list; nothing changes.
	ErrBoundary = errors.New("caption unit already at the boundary")
)

// Status of the last synthesis attempt for a unit.
type Status int

const (
	Pending Status = iota
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case Failed:
		return "Failed"
	default:
		return "Pending"
	}
}

// Row is the alternating display class of a position.
type Row int

const (
	RowOdd Row = iota
	RowEven
)

func rowFor(seq int) Row {
	if seq%2 == 1 {
		return RowOdd
	}
	return RowEven
}

// Unit is a read-only snapshot of one caption unit at its current position.
type Unit struct {
	ID        uuid.UUID
	Seq       int
	Text      string
	WordCount int
	Status    Status
	Row       Row
}

type record struct {
	text      string
	wordCount int
	status    Status
}

func newRecord(text string) (*record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	return &record{text: text, wordCount: len(strings.Fields(text)), status: Pending}, nil
}
