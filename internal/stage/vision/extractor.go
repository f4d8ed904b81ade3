// Package vision implements text extraction through a vision-capable model:
// PDF pages are rendered to images, encoded as data URIs, and sent to the
// configured provider for transcription.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/archis17/AI-KYC/internal/stage"
	"github.com/archis17/AI-KYC/pkg/formatting"
	"github.com/archis17/AI-KYC/pkg/retry"
)

const extractionPrompt = `Extract every piece of legible text from the provided document images.

Respond in JSON format:
{
    "text": "all extracted text, preserving line breaks",
    "confidence": 0.95
}

"confidence" is your overall extraction confidence between 0.0 and 1.0.
Respond with the JSON object only.`

type visionResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Extractor extracts document text through the configured vision model.
type Extractor struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

// New creates a vision extractor from the agent configuration.
func New(cfg *gaconfig.AgentConfig, logger *slog.Logger) *Extractor {
	return &Extractor{
		cfg:    *cfg,
		logger: logger.With("system", "vision"),
	}
}

// Open probes the configured provider with backoff so an unreachable model
// host surfaces at startup instead of on the first upload.
func (e *Extractor) Open(ctx context.Context) error {
	probe := func() error {
		a, err := agent.New(&e.cfg)
		if err != nil {
			return fmt.Errorf("create vision agent: %w", err)
		}

		if _, err := a.Chat(ctx, "Reply with the single word: ready"); err != nil {
			return fmt.Errorf("probe vision provider: %w", err)
		}
		return nil
	}

	if err := retry.Do(ctx, probe, retry.DefaultOptions()); err != nil {
		return stage.NewError(stage.KindInitialization, err)
	}

	e.logger.Info("vision extractor ready", "agent", e.cfg.Name)
	return nil
}

// ExtractText renders the document to images and asks the vision model for
// a transcription with a confidence estimate.
func (e *Extractor) ExtractText(ctx context.Context, data []byte, contentType string) (*stage.TextResult, error) {
	uris, err := e.imageURIs(data, contentType)
	if err != nil {
		return nil, err
	}

	a, err := agent.New(&e.cfg)
	if err != nil {
		return nil, stage.NewError(stage.KindInitialization, err)
	}

	resp, err := a.Vision(ctx, extractionPrompt, uris)
	if err != nil {
		return nil, stage.NewError(stage.KindNetwork, err)
	}

	parsed, err := formatting.Parse[visionResponse](resp.Content())
	if err != nil {
		return nil, stage.NewError(stage.KindProcessing, fmt.Errorf("parse vision response: %w", err))
	}

	return &stage.TextResult{
		Text:       parsed.Text,
		Confidence: clamp01(parsed.Confidence),
	}, nil
}

// imageURIs converts the raw document into one data URI per page. Raster
// uploads pass through directly; PDFs render via ImageMagick.
func (e *Extractor) imageURIs(data []byte, contentType string) ([]string, error) {
	switch contentType {
	case "application/pdf":
		return e.renderPDF(data)
	case "image/png", "image/jpeg":
		return []string{rawImageURI(data, contentType)}, nil
	default:
		return nil, stage.Errorf(stage.KindProcessing, "unsupported content type %s", contentType)
	}
}

func (e *Extractor) renderPDF(data []byte) ([]string, error) {
	tempDir, err := os.MkdirTemp("", "kyc-vision-*")
	if err != nil {
		return nil, stage.NewError(stage.KindInitialization, err)
	}
	defer os.RemoveAll(tempDir)

	pdfPath := filepath.Join(tempDir, "source.pdf")
	if err := os.WriteFile(pdfPath, data, 0600); err != nil {
		return nil, stage.NewError(stage.KindInitialization, err)
	}

	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, stage.NewError(stage.KindProcessing, fmt.Errorf("open pdf: %w", err))
	}
	defer pdfDoc.Close()

	renderer, err := image.NewImageMagickRenderer(config.DefaultImageConfig())
	if err != nil {
		return nil, stage.NewError(stage.KindInitialization, fmt.Errorf("create renderer: %w", err))
	}

	pages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return nil, stage.NewError(stage.KindProcessing, fmt.Errorf("extract pages: %w", err))
	}

	uris := make([]string, 0, len(pages))
	for i, page := range pages {
		img, err := page.ToImage(renderer, nil)
		if err != nil {
			return nil, stage.NewError(stage.KindProcessing, fmt.Errorf("render page %d: %w", i+1, err))
		}

		uri, err := encoding.EncodeImageDataURI(img, document.PNG)
		if err != nil {
			return nil, stage.NewError(stage.KindProcessing, fmt.Errorf("encode page %d: %w", i+1, err))
		}
		uris = append(uris, uri)
	}

	return uris, nil
}

func rawImageURI(data []byte, contentType string) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
