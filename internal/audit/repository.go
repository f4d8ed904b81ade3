package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/pkg/pagination"
	"github.com/archis17/AI-KYC/pkg/query"
	"github.com/archis17/AI-KYC/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an audit repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "audit"),
		pagination: pagination,
	}
}

func (r *repo) Append(ctx context.Context, record Record) (*Entry, error) {
	details, err := marshalDetails(record.Details)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO audit_entries(id, case_id, actor, action, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, case_id, actor, action, details, created_at`

	args := []any{uuid.New(), record.CaseID, record.Actor, record.Action, details}

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEntry)
	if err != nil {
		err = repository.MapForeignKey(err, ErrCaseNotFound)
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	r.logger.Info("audit entry recorded",
		"case_id", e.CaseID,
		"action", e.Action,
		"actor", e.Actor,
	)
	return &e, nil
}

func (r *repo) ListByCase(
	ctx context.Context,
	caseID uuid.UUID,
	page pagination.PageRequest,
) (*pagination.PageResult[Entry], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("CaseID", caseID)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	entries, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}

	result := pagination.NewPageResult(entries, total, page.Page, page.PageSize)
	return &result, nil
}

func marshalDetails(details map[string]any) ([]byte, error) {
	if len(details) == 0 {
		return []byte("{}"), nil
	}

	data, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encode audit details: %w", err)
	}
	return data, nil
}
