// Package documents implements the document domain: typed uploads owned by
// a case, blob storage integration, and the per-document stage result slots
// the processing pipeline populates.
package documents

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Type enumerates the document categories a case accepts.
type Type string

const (
	TypeIDCard         Type = "id_card"
	TypePassport       Type = "passport"
	TypeProofOfAddress Type = "proof_of_address"
	TypeBankStatement  Type = "bank_statement"
	TypeOther          Type = "other"
)

// ParseType validates a raw document type string.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeIDCard, TypePassport, TypeProofOfAddress, TypeBankStatement, TypeOther:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown document type %q", ErrInvalidType, s)
	}
}

// Extraction records the text-extraction stage outcome. A failed run keeps
// Text empty and carries the error classification; the slot still counts as
// attempted.
type Extraction struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Failed     bool    `json:"failed,omitempty"`
	ErrorKind  string  `json:"error_kind,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Entities records the entity-extraction stage outcome. An empty struct is a
// valid terminal value: the stage ran and found nothing.
type Entities struct {
	Name     string `json:"name,omitempty"`
	DOB      string `json:"dob,omitempty"`
	Address  string `json:"address,omitempty"`
	IDNumber string `json:"id_number,omitempty"`
}

// Validation records the cross-document validation outcome. Skipped marks a
// run where no sibling had usable text; Failed marks a caught executor error.
// Both are terminal values.
type Validation struct {
	Valid        bool              `json:"valid"`
	Reasoning    string            `json:"reasoning,omitempty"`
	FraudSignals []string          `json:"fraud_signals,omitempty"`
	Mismatches   map[string]string `json:"mismatches,omitempty"`
	Skipped      bool              `json:"skipped,omitempty"`
	Failed       bool              `json:"failed,omitempty"`
	ErrorKind    string            `json:"error_kind,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// Document is one uploaded artifact belonging to exactly one case. The three
// result slots are nil until their stage has been attempted; once set they
// hold a terminal value, never an in-progress state.
type Document struct {
	ID          uuid.UUID   `json:"id"`
	CaseID      uuid.UUID   `json:"case_id"`
	Type        Type        `json:"doc_type"`
	Filename    string      `json:"filename"`
	ContentType string      `json:"content_type"`
	SizeBytes   int64       `json:"size_bytes"`
	PageCount   *int        `json:"page_count"`
	StorageKey  string      `json:"storage_key"`
	Extraction  *Extraction `json:"extraction"`
	Entities    *Entities   `json:"entities"`
	Validation  *Validation `json:"validation"`
	UploadedAt  time.Time   `json:"uploaded_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Subject is the owning case's subject, joined in for ownership checks.
	Subject string `json:"-"`
}

// Text returns the extracted text, or "" when extraction has not run or
// failed.
func (d *Document) Text() string {
	if d.Extraction == nil {
		return ""
	}
	return d.Extraction.Text
}

// ExtractionConfidence returns the recorded confidence, or 0 when extraction
// has not run or failed.
func (d *Document) ExtractionConfidence() float64 {
	if d.Extraction == nil || d.Extraction.Failed {
		return 0
	}
	return d.Extraction.Confidence
}

// CreateCommand carries the data needed to upload and register a document
// under a case. Data holds the raw file bytes. PageCount is optional and may
// be extracted by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	CaseID      uuid.UUID
	Type        Type
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}

// Content is a streamed document body with its serving metadata.
type Content struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
	SizeBytes   int64
}
