package cases

import (
	"context"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/pkg/pagination"
)

// Dispatcher queues a document's pipeline run after upload. Implemented by
// the pipeline dispatcher; narrowed here so the handler stays testable.
type Dispatcher interface {
	Enqueue(ctx context.Context, documentID uuid.UUID) error
}

// System defines the public contract for case domain operations.
//
// SetStatus and MarkProcessing exist for the pipeline: SetStatus applies a
// scoring decision, MarkProcessing idempotently moves a not-yet-decided run
// into processing. Both treat a vanished case row as ErrNotFound so in-flight
// runs against deleted cases resolve as no-ops.
type System interface {
	Handler(maxUploadSize int64, dispatcher Dispatcher) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Case], error)

	Find(ctx context.Context, id uuid.UUID) (*Case, error)
	Detail(ctx context.Context, id uuid.UUID) (*Detail, error)
	Progress(ctx context.Context, id uuid.UUID) (*Progress, error)

	Create(ctx context.Context, subject string) (*Case, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	Override(ctx context.Context, id uuid.UUID, cmd OverrideCommand) (*Case, error)
	Delete(ctx context.Context, id uuid.UUID, actor string) error
}
