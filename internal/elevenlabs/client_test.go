package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(srv *httptest.Server) *Client {
	return New(Options{
		BaseURL:  srv.URL,
		APIKey:   "key",
		VoiceID:  "voice-1",
		ModelID:  "eleven_multilingual_v2",
		Settings: VoiceSettings{Stability: 1, SimilarityBoost: 0.6},
		Timeout:  5 * time.Second,
	})
}

func TestSynthesize(t *testing.T) {
	var got speechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-to-speech/voice-1" || r.Header.Get("xi-api-key") != "key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-audio"))
	}))
	defer srv.Close()

	audio, err := newTestClient(srv).Synthesize(context.Background(), "Olá a todos")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(audio) != "ID3-audio" {
		t.Errorf("audio = %q", audio)
	}
	if got.Text != "Olá a todos" || got.VoiceSettings.Stability != 1 || got.VoiceSettings.SimilarityBoost != 0.6 {
		t.Errorf("unexpected request body: %+v", got)
	}
}

func TestSynthesizeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"quota_exceeded"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv).Synthesize(context.Background(), "text"); err == nil {
		t.Error("Synthesize() should fail on non-2xx status")
	}
}

func TestVoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"voices":[{"voice_id":"v1","name":"Ana","language":"pt"},{"voice_id":"v2","name":"Bob"}]}`))
	}))
	defer srv.Close()

	voices, err := newTestClient(srv).Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices() error = %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("len = %d, want 2", len(voices))
	}
	if voices[1].Language != "Unknown" {
		t.Errorf("missing language = %q, want Unknown", voices[1].Language)
	}
}
