// Package stage defines the executor contracts the document pipeline
// depends on. Implementations wrap the OCR, entity extraction, and
// cross-document validation backends; the sequencer only sees these
// interfaces and the structured results they return.
package stage

import "context"

// TextResult is the outcome of running text extraction over one document.
type TextResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// EntitySet holds the identity fields recovered from extracted text. Every
// field is optional; an all-empty set still counts as a completed stage.
type EntitySet struct {
	Name     string `json:"name,omitempty"`
	DOB      string `json:"dob,omitempty"`
	Address  string `json:"address,omitempty"`
	IDNumber string `json:"id_number,omitempty"`
}

// DocumentInput is one sibling document presented to cross-document
// validation: its declared type, the entities recovered from it, and the
// extraction confidence. Validation compares entities across siblings
// rather than re-reading raw text.
type DocumentInput struct {
	Type       string
	Entities   EntitySet
	Confidence float64
}

// ValidationOutcome is the structured result of cross-document validation.
type ValidationOutcome struct {
	Valid        bool              `json:"validated"`
	Reasoning    string            `json:"reasoning"`
	FraudSignals []string          `json:"fraud_signals"`
	Mismatches   map[string]string `json:"mismatches"`
}

// TextExtractor recovers text and a confidence estimate from raw document
// bytes. Implementations must bound their own latency and return a typed
// *Error rather than panicking or blocking indefinitely.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, contentType string) (*TextResult, error)
}

// EntityExtractor pulls identity entities out of previously extracted text.
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, text string) (*EntitySet, error)
}

// CrossValidator checks a set of sibling documents for consistency and
// fraud signals. Callers pass only documents with non-empty extracted text.
type CrossValidator interface {
	Validate(ctx context.Context, inputs []DocumentInput) (*ValidationOutcome, error)
}

// Opener is implemented by executors that hold warm state (model sessions,
// provider clients) and want an explicit startup probe instead of failing
// on first use.
type Opener interface {
	Open(ctx context.Context) error
}
