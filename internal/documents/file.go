package documents

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DetectContentType resolves the effective media type of an upload,
// preferring the declared header and sniffing the payload when the header
// is absent or generic.
func DetectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

// PDFPageCount extracts the page count from PDF payloads via pdfcpu.
// Non-PDF content and unreadable PDFs yield nil.
func PDFPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}
