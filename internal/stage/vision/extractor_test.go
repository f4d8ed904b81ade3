package vision

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/archis17/AI-KYC/internal/stage"
)

func newExtractor() *Extractor {
	return New(&gaconfig.AgentConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRawImageURI(t *testing.T) {
	got := rawImageURI([]byte("hello"), "image/png")
	want := "data:image/png;base64,aGVsbG8="
	if got != want {
		t.Errorf("rawImageURI = %q, want %q", got, want)
	}
}

func TestImageURIs(t *testing.T) {
	e := newExtractor()

	t.Run("png passes through as a single data uri", func(t *testing.T) {
		uris, err := e.imageURIs([]byte{0x89, 0x50, 0x4e, 0x47}, "image/png")
		if err != nil {
			t.Fatalf("imageURIs: %v", err)
		}
		if len(uris) != 1 {
			t.Fatalf("uri count = %d, want 1", len(uris))
		}
		if !strings.HasPrefix(uris[0], "data:image/png;base64,") {
			t.Errorf("uri = %q, want data:image/png prefix", uris[0])
		}
	})

	t.Run("jpeg passes through as a single data uri", func(t *testing.T) {
		uris, err := e.imageURIs([]byte{0xff, 0xd8, 0xff}, "image/jpeg")
		if err != nil {
			t.Fatalf("imageURIs: %v", err)
		}
		if len(uris) != 1 {
			t.Fatalf("uri count = %d, want 1", len(uris))
		}
		if !strings.HasPrefix(uris[0], "data:image/jpeg;base64,") {
			t.Errorf("uri = %q, want data:image/jpeg prefix", uris[0])
		}
	})

	t.Run("unsupported content type is a processing error", func(t *testing.T) {
		_, err := e.imageURIs([]byte("plain"), "text/plain")
		if err == nil {
			t.Fatal("expected error for text/plain")
		}
		if kind := stage.KindOf(err); kind != stage.KindProcessing {
			t.Errorf("kind = %q, want %q", kind, stage.KindProcessing)
		}
	})
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.7, 1},
	}

	for _, tt := range tests {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
