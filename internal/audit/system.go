package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/pkg/pagination"
)

// System defines the public contract for audit operations.
type System interface {
	Append(ctx context.Context, record Record) (*Entry, error)
	ListByCase(
		ctx context.Context,
		caseID uuid.UUID,
		page pagination.PageRequest,
	) (*pagination.PageResult[Entry], error)
}
