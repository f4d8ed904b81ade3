package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/pkg/pagination"
)

// System defines the public contract for document domain operations.
// The Set* methods record stage outcomes; each returns ErrNotFound when the
// document row has disappeared (case deleted mid-run), which pipeline
// callers treat as a no-op.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByCase(ctx context.Context, caseID uuid.UUID) ([]Document, error)
	ListIncomplete(ctx context.Context) ([]uuid.UUID, error)

	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Content(ctx context.Context, id uuid.UUID) (*Content, error)

	SetExtraction(ctx context.Context, id uuid.UUID, result Extraction) error
	SetEntities(ctx context.Context, id uuid.UUID, result Entities) error
	SetValidation(ctx context.Context, id uuid.UUID, result Validation) error

	RemoveBlobs(ctx context.Context, caseID uuid.UUID) error
}
