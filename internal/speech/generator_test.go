// ABOUTME: Tests for the OpenAI speech generator
// ABOUTME: Tests payload encoding and codec mapping against a fake API
package speech

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	oai "github.com/openai/openai-go"
)

func TestGenerateReturnsBase64Payload(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x04}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(raw)
	}))
	defer srv.Close()

	g, err := NewOpenAIGenerator("key", "tts-1", WithBaseURL(srv.URL), WithCodec("mp3"), WithVoice("nova"))
	if err != nil {
		t.Fatalf("NewOpenAIGenerator failed: %v", err)
	}

	payload, format, err := g.Generate(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Errorf("payload round trip mismatch: %v", decoded)
	}

	if format.Codec != "mp3" || format.SampleRate != 24000 || format.Channels != 1 {
		t.Errorf("unexpected format: %+v", format)
	}
}

func TestGenerateEmptyBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g, err := NewOpenAIGenerator("key", "", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewOpenAIGenerator failed: %v", err)
	}

	if _, _, err := g.Generate(context.Background(), "hello"); err == nil {
		t.Error("expected error for empty payload")
	}
}

func TestUnsupportedCodec(t *testing.T) {
	g, err := NewOpenAIGenerator("key", "", WithCodec("aac"))
	if err != nil {
		t.Fatalf("NewOpenAIGenerator failed: %v", err)
	}

	if _, _, err := g.Generate(context.Background(), "hello"); err == nil {
		t.Error("expected error for unsupported codec")
	}
}

func TestResponseFormatMapping(t *testing.T) {
	tests := []struct {
		codec   string
		want    oai.AudioSpeechNewParamsResponseFormat
		wantErr bool
	}{
		{"mp3", oai.AudioSpeechNewParamsResponseFormatMP3, false},
		{"opus", oai.AudioSpeechNewParamsResponseFormatOpus, false},
		{"pcm16", oai.AudioSpeechNewParamsResponseFormatPCM, false},
		{"flac", oai.AudioSpeechNewParamsResponseFormatFLAC, false},
		{"aac", "", true},
	}

	for _, tt := range tests {
		got, err := responseFormat(tt.codec)
		if tt.wantErr {
			if err == nil {
				t.Errorf("codec %q: expected error", tt.codec)
			}
			continue
		}
		if err != nil {
			t.Errorf("codec %q: unexpected error: %v", tt.codec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("codec %q: got %q, want %q", tt.codec, got, tt.want)
		}
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewOpenAIGenerator("", ""); err == nil {
		t.Error("expected error for empty api key")
	}
}
