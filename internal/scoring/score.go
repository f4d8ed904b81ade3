// Package scoring implements the risk scoring engine: a pure evaluation
// over a case's documents producing a weighted score, a decision, and a
// deterministic human-readable explanation, plus the persistence of the
// single RiskScore row each case owns.
package scoring

import (
	"time"

	"github.com/google/uuid"
)

// Decision is the outcome class derived from the final weighted score.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionReview   Decision = "review"
	DecisionRejected Decision = "rejected"
)

// Factor names, in evaluation order. The order is load-bearing: reasoning
// ties between equal contributions resolve in this order.
const (
	FactorNameMismatch     = "name_mismatch"
	FactorDOBMismatch      = "dob_mismatch"
	FactorAddressMismatch  = "address_mismatch"
	FactorLowOCRConfidence = "low_ocr_confidence"
	FactorMissingDocuments = "missing_documents"
	FactorFraudSignals     = "fraud_signals"
)

// Factor is one weighted risk component: the raw 0-100 sub-score, its fixed
// weight, and the weighted contribution (score x weight / 100).
type Factor struct {
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Outcome is the result of evaluating a case's documents, before persistence.
type Outcome struct {
	Score     float64
	Decision  Decision
	Reasoning string
	Factors   map[string]Factor
}

// RiskScore is the persisted evaluation result, at most one per case.
type RiskScore struct {
	ID        uuid.UUID         `json:"id"`
	CaseID    uuid.UUID         `json:"case_id"`
	Score     float64           `json:"score"`
	Decision  Decision          `json:"decision"`
	Reasoning string            `json:"reasoning"`
	Factors   map[string]Factor `json:"risk_factors"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
