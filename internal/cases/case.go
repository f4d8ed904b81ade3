// Package cases implements the case domain: one verification attempt per
// case, owning its documents, at most one risk score, and an audit trail.
// Status transitions happen only through the pipeline sequencer, the risk
// scoring engine's decision, or an explicit override.
package cases

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/internal/documents"
	"github.com/archis17/AI-KYC/internal/scoring"
)

// Status enumerates the case lifecycle states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusApproved   Status = "approved"
	StatusReview     Status = "review"
	StatusRejected   Status = "rejected"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusProcessing, StatusApproved, StatusReview, StatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, s)
	}
}

// Decided reports whether the status carries a decision outcome.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusReview || s == StatusRejected
}

// Case is one verification attempt.
type Case struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Detail is a case with its owned documents and risk score resolved.
type Detail struct {
	Case
	Documents []documents.Document `json:"documents"`
	RiskScore *scoring.RiskScore   `json:"risk_score,omitempty"`
}

// OverrideCommand carries an explicit approve/reject decision from an
// administrator or an automated workflow.
type OverrideCommand struct {
	Decision  Status
	Actor     string
	Reason    string
	Automated bool
}
