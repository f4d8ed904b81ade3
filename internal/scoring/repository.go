package scoring

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/internal/documents"
	"github.com/archis17/AI-KYC/pkg/query"
	"github.com/archis17/AI-KYC/pkg/repository"
)

type repo struct {
	db        *sql.DB
	documents documents.System
	logger    *slog.Logger
}

// New creates a scoring repository implementing the System interface.
func New(db *sql.DB, docs documents.System, logger *slog.Logger) System {
	return &repo{
		db:        db,
		documents: docs,
		logger:    logger.With("system", "scoring"),
	}
}

func (r *repo) Evaluate(ctx context.Context, caseID uuid.UUID) (*RiskScore, error) {
	docs, err := r.documents.FindByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("load case documents: %w", err)
	}

	outcome := Compute(docs)

	factors, err := json.Marshal(outcome.Factors)
	if err != nil {
		return nil, fmt.Errorf("encode risk factors: %w", err)
	}

	// One row per case: a concurrent or repeat evaluation overwrites in place.
	q := `
		INSERT INTO risk_scores(id, case_id, score, decision, reasoning, risk_factors)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (case_id) DO UPDATE SET
			score = EXCLUDED.score,
			decision = EXCLUDED.decision,
			reasoning = EXCLUDED.reasoning,
			risk_factors = EXCLUDED.risk_factors,
			updated_at = now()
		RETURNING id, case_id, score, decision, reasoning, risk_factors, created_at, updated_at`

	args := []any{uuid.New(), caseID, outcome.Score, outcome.Decision, outcome.Reasoning, factors}

	rs, err := repository.QueryOne(ctx, r.db, q, args, scanScore)
	if err != nil {
		err = repository.MapForeignKey(err, ErrCaseNotFound)
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	r.logger.Info("risk score evaluated",
		"case_id", caseID,
		"score", rs.Score,
		"decision", rs.Decision,
	)
	return &rs, nil
}

func (r *repo) FindByCase(ctx context.Context, caseID uuid.UUID) (*RiskScore, error) {
	q, args := query.NewBuilder(projection).BuildSingle("CaseID", caseID)

	rs, err := repository.QueryOne(ctx, r.db, q, args, scanScore)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &rs, nil
}
