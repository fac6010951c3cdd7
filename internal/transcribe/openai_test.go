package transcribe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openai/openai-go"

	"github.com/nguyentantai21042004/slidecast/internal/config"
)

func TestOpenAITranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.FormValue("model") != "whisper-1" {
			t.Errorf("model = %q", r.FormValue("model"))
		}
		if r.FormValue("response_format") != "json" {
			t.Errorf("response_format = %q", r.FormValue("response_format"))
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			defer file.Close()
			if header.Filename != "recording.m4a" {
				t.Errorf("filename = %q", header.Filename)
			}
			data, _ := io.ReadAll(file)
			if string(data) != "fake-audio" {
				t.Errorf("data = %q", data)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text":"hello class"}`)
	}))
	defer srv.Close()

	b := NewOpenAI(config.OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "whisper-1"}, 5*time.Second)
	text, err := b.Transcribe(context.Background(), writeAudio(t), ".M4A")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello class" {
		t.Fatalf("text = %q", text)
	}
}

func TestOpenAITranscribeRejected(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"message":"Invalid file format.","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	b := NewOpenAI(config.OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "whisper-1"}, 5*time.Second)
	_, err := b.Transcribe(context.Background(), writeAudio(t), "m4a")

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400 *openai.Error", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want no retries", calls)
	}
}

func TestNormalizeFormat(t *testing.T) {
	tests := map[string]string{
		"":      "m4a",
		".MP3":  "mp3",
		" wav ": "wav",
		"webm":  "webm",
	}
	for in, want := range tests {
		if got := normalizeFormat(in); got != want {
			t.Errorf("normalizeFormat(%q) = %q, want %q", in, got, want)
		}
	}
}
