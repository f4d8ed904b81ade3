package scoring

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for risk score operations. Evaluate
// runs the engine over the case's current documents and upserts the single
// RiskScore row; repeat invocations on unchanged input update in place.
type System interface {
	Evaluate(ctx context.Context, caseID uuid.UUID) (*RiskScore, error)
	FindByCase(ctx context.Context, caseID uuid.UUID) (*RiskScore, error)
}
