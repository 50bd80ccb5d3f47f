package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/slide-narrator/internal/logger"
	"github.com/nguyentantai21042004/slide-narrator/internal/units"
)

type fakeSynth struct {
	fail map[string]bool
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if f.fail[text] {
		return nil, errors.New("elevenlabs status 500")
	}
	return []byte("audio:" + text), nil
}

func job(seq int, text string) Job {
	return Job{ID: uuid.New(), Seq: seq, Text: text}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestWorkingPaths(t *testing.T) {
	audio, caption := WorkingPaths("audios", "demo", 3)
	if audio != filepath.Join("audios", "demo-frase-3.mp3") {
		t.Errorf("audio = %q", audio)
	}
	if caption != filepath.Join("audios", "demo-frase-3.txt") {
		t.Errorf("caption = %q", caption)
	}
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	p := New(&fakeSynth{fail: map[string]bool{"second": true}}, dir, logger.Nop())

	jobs := []Job{job(1, "first"), job(2, "second"), job(3, "third")}
	events := make(chan Event, len(jobs))
	p.RunBatch(context.Background(), jobs, "demo", events)

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}

	wantStatus := []units.Status{units.Success, units.Failed, units.Success}
	for i, ev := range got {
		if ev.Job.Seq != i+1 {
			t.Errorf("event %d for seq %d, want in-order", i, ev.Job.Seq)
		}
		if ev.Status != wantStatus[i] {
			t.Errorf("event %d status = %v, want %v", i, ev.Status, wantStatus[i])
		}
		if ev.Done != i+1 || ev.Total != 3 {
			t.Errorf("event %d progress = %d/%d", i, ev.Done, ev.Total)
		}
	}
	if !errors.Is(got[1].Err, ErrSynthesis) {
		t.Errorf("failed event error = %v, want ErrSynthesis", got[1].Err)
	}

	audio, caption := WorkingPaths(dir, "demo", 3)
	data, err := os.ReadFile(caption)
	if err != nil || string(data) != "third" {
		t.Errorf("caption file = %q, %v", data, err)
	}
	if data, _ := os.ReadFile(audio); string(data) != "audio:third" {
		t.Errorf("audio file = %q", data)
	}

	a2, c2 := WorkingPaths(dir, "demo", 2)
	if exists(a2) || exists(c2) {
		t.Error("failed unit left working files behind")
	}
}

func TestRunOneOverwritesAndClearsOnFailure(t *testing.T) {
	dir := t.TempDir()
	synth := &fakeSynth{fail: map[string]bool{}}
	p := New(synth, dir, logger.Nop())
	ctx := context.Background()

	j := job(1, "take one")
	if ev := p.RunOne(ctx, j, "demo"); ev.Status != units.Success {
		t.Fatalf("first RunOne status = %v, err %v", ev.Status, ev.Err)
	}

	j.Text = "take two"
	ev := p.RunOne(ctx, j, "demo")
	if ev.Status != units.Success {
		t.Fatalf("second RunOne status = %v", ev.Status)
	}
	audio, caption := WorkingPaths(dir, "demo", 1)
	if data, _ := os.ReadFile(caption); string(data) != "take two" {
		t.Errorf("caption not overwritten: %q", data)
	}

	synth.fail["take three"] = true
	j.Text = "take three"
	if ev := p.RunOne(ctx, j, "demo"); ev.Status != units.Failed {
		t.Fatalf("third RunOne status = %v, want Failed", ev.Status)
	}
	if exists(caption) || exists(audio) {
		t.Error("working files survived a failed regeneration")
	}
}

func TestJobsFrom(t *testing.T) {
	s := units.NewStore()
	s.Seed([]string{"a b", "c d"})

	jobs := JobsFrom(s.Units())
	if len(jobs) != 2 || jobs[1].Seq != 2 || jobs[1].Text != "c d" {
		t.Errorf("JobsFrom() = %+v", jobs)
	}
}

func TestRelocate(t *testing.T) {
	tests := []struct {
		name  string
		texts map[int]string
		moves map[int]int
		want  map[int]string
	}{
		{
			name:  "delete shifts later pairs down",
			texts: map[int]string{1: "one", 2: "two", 3: "three"},
			moves: map[int]int{2: 0, 3: 2},
			want:  map[int]string{1: "one", 2: "three"},
		},
		{
			name:  "swap keeps both pairs",
			texts: map[int]string{1: "one", 2: "two"},
			moves: map[int]int{1: 2, 2: 1},
			want:  map[int]string{1: "two", 2: "one"},
		},
		{
			name:  "missing pair is skipped",
			texts: map[int]string{2: "two"},
			moves: map[int]int{1: 2, 2: 1},
			want:  map[int]string{1: "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for seq, text := range tt.texts {
				audio, caption := WorkingPaths(dir, "demo", seq)
				os.WriteFile(audio, []byte("audio:"+text), 0644)
				os.WriteFile(caption, []byte(text), 0644)
			}

			if err := Relocate(dir, "demo", tt.moves); err != nil {
				t.Fatalf("Relocate() error = %v", err)
			}

			for seq := 1; seq <= 3; seq++ {
				audio, caption := WorkingPaths(dir, "demo", seq)
				text, ok := tt.want[seq]
				if !ok {
					if exists(audio) || exists(caption) {
						t.Errorf("seq %d: files still present", seq)
					}
					continue
				}
				gotCaption, _ := os.ReadFile(caption)
				gotAudio, _ := os.ReadFile(audio)
				if string(gotCaption) != text || string(gotAudio) != "audio:"+text {
					t.Errorf("seq %d: caption=%q audio=%q, want %q", seq, gotCaption, gotAudio, text)
				}
			}

			leftovers, _ := filepath.Glob(filepath.Join(dir, "*"+relocateSuffix))
			if len(leftovers) != 0 {
				t.Errorf("temporary files left: %v", leftovers)
			}
		})
	}
}
