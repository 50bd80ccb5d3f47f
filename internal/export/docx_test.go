package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/slide-narrator/internal/units"
)

func sampleUnits() []units.Unit {
	s := units.NewStore()
	s.Seed([]string{"Welcome everyone to the review", "Let us begin"})
	list := s.Units()
	_ = s.SetStatus(list[0].ID, units.Success)
	return s.Units()
}

func TestScriptLines(t *testing.T) {
	lines := ScriptLines(sampleUnits())

	if len(lines) != 2 {
		t.Fatalf("len = %d, want 2", len(lines))
	}
	if lines[0].Label != "1. (5 words, Success) " {
		t.Errorf("label = %q", lines[0].Label)
	}
	if lines[1].Label != "2. (3 words, Pending) " || lines[1].Text != "Let us begin" {
		t.Errorf("line = %+v", lines[1])
	}
}

func TestWriteScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "demo.docx")

	if err := WriteScript("Narration script", "demo", sampleUnits(), path); err != nil {
		t.Fatalf("WriteScript() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("exported document is empty")
	}
}
