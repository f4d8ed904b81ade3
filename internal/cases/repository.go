package cases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/internal/audit"
	"github.com/archis17/AI-KYC/internal/documents"
	"github.com/archis17/AI-KYC/internal/scoring"
	"github.com/archis17/AI-KYC/pkg/pagination"
	"github.com/archis17/AI-KYC/pkg/query"
	"github.com/archis17/AI-KYC/pkg/repository"
)

type repo struct {
	db         *sql.DB
	documents  documents.System
	scores     scoring.System
	audit      audit.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a case repository implementing the System interface.
func New(
	db *sql.DB,
	docs documents.System,
	scores scoring.System,
	auditSys audit.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		documents:  docs,
		scores:     scores,
		audit:      auditSys,
		logger:     logger.With("system", "cases"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64, dispatcher Dispatcher) *Handler {
	return NewHandler(r, r.documents, r.audit, dispatcher, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Case], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Subject")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count cases: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	results, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCase)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}

	result := pagination.NewPageResult(results, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Case, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &c, nil
}

func (r *repo) Detail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	c, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	docs, err := r.documents.FindByCase(ctx, id)
	if err != nil {
		return nil, err
	}

	score, err := r.scores.FindByCase(ctx, id)
	if err != nil && !errors.Is(err, scoring.ErrNotFound) {
		return nil, err
	}

	return &Detail{
		Case:      *c,
		Documents: docs,
		RiskScore: score,
	}, nil
}

func (r *repo) Progress(ctx context.Context, id uuid.UUID) (*Progress, error) {
	d, err := r.Detail(ctx, id)
	if err != nil {
		return nil, err
	}

	p := ProjectProgress(&d.Case, d.Documents, d.RiskScore != nil)
	return &p, nil
}

func (r *repo) Create(ctx context.Context, subject string) (*Case, error) {
	q := `
		INSERT INTO cases(id, subject)
		VALUES ($1, $2)
		RETURNING id, subject, status, created_at, updated_at`

	c, err := repository.QueryOne(ctx, r.db, q, []any{uuid.New(), subject}, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	r.logger.Info("case created", "id", c.ID, "subject", c.Subject)
	return &c, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}

	q := "UPDATE cases SET status = $2, updated_at = now() WHERE id = $1"
	if err := repository.ExecExpectOne(ctx, r.db, q, id, status); err != nil {
		return repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	r.logger.Info("case status set", "id", id, "status", status)
	return nil
}

// MarkProcessing flips a case to processing unless it already is. Zero rows
// affected is not an error: the case is either already processing or gone,
// and the pipeline treats both as fine.
func (r *repo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	q := "UPDATE cases SET status = $2, updated_at = now() WHERE id = $1 AND status <> $2"
	if _, err := r.db.ExecContext(ctx, q, id, StatusProcessing); err != nil {
		return fmt.Errorf("mark case processing: %w", err)
	}
	return nil
}

func (r *repo) Override(ctx context.Context, id uuid.UUID, cmd OverrideCommand) (*Case, error) {
	if cmd.Decision != StatusApproved && cmd.Decision != StatusRejected {
		return nil, ErrInvalidDecision
	}

	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	// A decision needs a score on record to decide against.
	if _, err := r.scores.FindByCase(ctx, id); err != nil {
		if errors.Is(err, scoring.ErrNotFound) {
			return nil, ErrNotScored
		}
		return nil, err
	}

	if err := r.SetStatus(ctx, id, cmd.Decision); err != nil {
		return nil, err
	}

	details := map[string]any{}
	if cmd.Reason != "" {
		details["reason"] = cmd.Reason
	}

	if _, err := r.audit.Append(ctx, audit.Record{
		CaseID:  id,
		Actor:   cmd.Actor,
		Action:  overrideAction(cmd),
		Details: details,
	}); err != nil {
		r.logger.Warn("audit append failed for override", "case_id", id, "error", err)
	}

	return r.Find(ctx, id)
}

func overrideAction(cmd OverrideCommand) audit.Action {
	switch {
	case cmd.Automated && cmd.Decision == StatusApproved:
		return audit.ActionAutoApprove
	case cmd.Automated:
		return audit.ActionAutoReject
	case cmd.Decision == StatusApproved:
		return audit.ActionManualApprove
	default:
		return audit.ActionManualReject
	}
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	if _, err := r.Find(ctx, id); err != nil {
		return err
	}

	// The entry lasts only until the cascade below; recorded anyway so the
	// action shows up in log output with the rest of the trail.
	if _, err := r.audit.Append(ctx, audit.Record{
		CaseID: id,
		Actor:  actor,
		Action: audit.ActionDelete,
	}); err != nil {
		r.logger.Warn("audit append failed for delete", "case_id", id, "error", err)
	}

	if err := r.documents.RemoveBlobs(ctx, id); err != nil {
		r.logger.Warn("blob cleanup incomplete", "case_id", id, "error", err)
	}

	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM cases WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	r.logger.Info("case deleted", "id", id, "actor", actor)
	return nil
}
