package segmenter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nguyentantai21042004/slide-narrator/internal/logger"
)

type fakeCompleter struct {
	content string
	err     error
	calls   int
	user    string
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.user = userPrompt
	return f.content, f.err
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		minWords int
		want     []string
	}{
		{
			name:     "short line merges onto previous",
			lines:    []string{"a b c", "d"},
			minWords: 2,
			want:     []string{"a b c d"},
		},
		{
			name:     "well formed input is unchanged",
			lines:    []string{"one two three", "four five six", "seven eight nine"},
			minWords: 3,
			want:     []string{"one two three", "four five six", "seven eight nine"},
		},
		{
			name:     "leading short line starts the accumulator",
			lines:    []string{"hi", "there friend", "ok"},
			minWords: 2,
			want:     []string{"hi", "there friend ok"},
		},
		{
			name:     "consecutive short lines all merge forward",
			lines:    []string{"a b c d", "e", "f", "g h i j"},
			minWords: 3,
			want:     []string{"a b c d e f", "g h i j"},
		},
		{
			name:     "short accumulator at the head is never merged backward",
			lines:    []string{"x", "y", "long enough line"},
			minWords: 3,
			want:     []string{"x y", "long enough line"},
		},
		{
			name:     "empty input",
			lines:    nil,
			minWords: 8,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.lines, tt.minWords)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("\n  first line \n\n   \nsecond line\r\n")
	want := []string{"first line", "second line"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestSegment(t *testing.T) {
	ctx := context.Background()
	fc := &fakeCompleter{content: "Welcome to the quarterly review of our team\nThanks\n\nNext we look at the numbers for this quarter"}
	s := New(fc, 0, logger.Nop())

	got, err := s.Segment(ctx, "raw text", 4)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	want := []string{
		"Welcome to the quarterly review of our team Thanks",
		"Next we look at the numbers for this quarter",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Segment() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(fc.user, "at least 4 words") || !strings.Contains(fc.user, "raw text") {
		t.Errorf("user prompt missing min words or text: %q", fc.user)
	}
}

func TestSegmentFailures(t *testing.T) {
	tests := []struct {
		name string
		fc   *fakeCompleter
	}{
		{"backend error", &fakeCompleter{err: errors.New("connection refused")}},
		{"blank content", &fakeCompleter{content: "  \n \n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.fc, 0, logger.Nop())
			got, err := s.Segment(context.Background(), "text", 8)
			if !errors.Is(err, ErrSegmentation) {
				t.Errorf("Segment() error = %v, want ErrSegmentation", err)
			}
			if len(got) != 0 {
				t.Errorf("Segment() = %v, want no lines", got)
			}
			if tt.fc.calls != 1 {
				t.Errorf("completer called %d times, want exactly 1", tt.fc.calls)
			}
		})
	}
}

func TestAzureComplete(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(r.URL.Path, "/openai/deployments/gpt-4o-mini/chat/completions") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("api-version") != "2023-05-15" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"line one\nline two"}}]}`))
	}))
	defer srv.Close()

	a := NewAzure(srv.URL+"/", "gpt-4o-mini", "2023-05-15", "secret", srv.Client())
	got, err := a.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "line one\nline two" {
		t.Errorf("Complete() = %q", got)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Content != "user" {
		t.Errorf("unexpected request messages: %+v", gotReq.Messages)
	}
}

func TestAzureCompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewAzure(srv.URL, "d", "v", "k", srv.Client())
	if _, err := a.Complete(context.Background(), "sys", "user"); err == nil {
		t.Error("Complete() should fail on non-2xx status")
	}
}
