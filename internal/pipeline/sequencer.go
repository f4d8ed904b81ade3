// Package pipeline drives uploaded documents through their extraction
// stages and aggregates cases into risk decisions. Stage failures never
// abort a run: they are recorded on the document and processing continues,
// so every case converges to a decision or to review instead of stalling.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/archis17/AI-KYC/internal/cases"
	"github.com/archis17/AI-KYC/internal/documents"
	"github.com/archis17/AI-KYC/internal/metrics"
	"github.com/archis17/AI-KYC/internal/notify"
	"github.com/archis17/AI-KYC/internal/scoring"
	"github.com/archis17/AI-KYC/internal/stage"
	"github.com/archis17/AI-KYC/pkg/storage"
)

// Executors bundles the stage implementations the sequencer drives.
type Executors struct {
	Text      stage.TextExtractor
	Entities  stage.EntityExtractor
	Validator stage.CrossValidator
}

// Sequencer runs one document through text extraction, entity extraction,
// and cross-document validation in order, then consults the readiness gate
// and scores the owning case when it opens.
type Sequencer struct {
	cases     cases.System
	documents documents.System
	scores    scoring.System
	storage   storage.System
	executors Executors
	notifier  notify.Notifier
	metrics   *metrics.Pipeline
	logger    *slog.Logger

	// scoreGroup serializes aggregation per case so concurrent document
	// runs that both find the gate open produce one scoring invocation
	// and one notification.
	scoreGroup singleflight.Group
}

// NewSequencer wires a sequencer over the domain systems and executors.
func NewSequencer(
	caseSys cases.System,
	docs documents.System,
	scores scoring.System,
	store storage.System,
	executors Executors,
	notifier notify.Notifier,
	m *metrics.Pipeline,
	logger *slog.Logger,
) *Sequencer {
	return &Sequencer{
		cases:     caseSys,
		documents: docs,
		scores:    scores,
		storage:   store,
		executors: executors,
		notifier:  notifier,
		metrics:   m,
		logger:    logger.With("system", "pipeline"),
	}
}

// Process runs the full stage sequence for one document. Every stage outcome
// is recorded on the document, success or failure, so the slot is always
// terminal once the stage has been attempted. A document or case deleted
// mid-run resolves as a no-op, never an error.
func (s *Sequencer) Process(ctx context.Context, documentID uuid.UUID) error {
	log := s.logger.With("document_id", documentID)

	doc, err := s.documents.Find(ctx, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			log.Debug("document gone before processing, skipping run")
			return nil
		}
		return fmt.Errorf("load document: %w", err)
	}
	log = log.With("case_id", doc.CaseID)

	extraction := s.runExtraction(ctx, log, doc)
	if err := s.documents.SetExtraction(ctx, doc.ID, extraction); err != nil {
		return abandonIfDeleted(log, err, "extraction")
	}

	entities := s.runEntities(ctx, log, extraction)
	if err := s.documents.SetEntities(ctx, doc.ID, entities); err != nil {
		return abandonIfDeleted(log, err, "entities")
	}

	validation := s.runValidation(ctx, log, doc.CaseID)
	if err := s.documents.SetValidation(ctx, doc.ID, validation); err != nil {
		return abandonIfDeleted(log, err, "validation")
	}

	return s.aggregate(ctx, log, doc.CaseID)
}

// runExtraction produces the extraction slot value. Blob or executor
// failures yield a failure marker with empty text; the stage still counts
// as attempted.
func (s *Sequencer) runExtraction(ctx context.Context, log *slog.Logger, doc *documents.Document) documents.Extraction {
	started := time.Now()

	data, err := storage.ReadAll(ctx, s.storage, doc.StorageKey)
	if err == nil {
		var result *stage.TextResult
		result, err = s.executors.Text.ExtractText(ctx, data, doc.ContentType)
		if err == nil {
			s.metrics.ObserveStage("ocr", "ok", time.Since(started).Seconds())
			return documents.Extraction{
				Text:       result.Text,
				Confidence: result.Confidence,
			}
		}
	}

	s.metrics.ObserveStage("ocr", "error", time.Since(started).Seconds())
	log.Warn("text extraction failed", "error", err)

	return documents.Extraction{
		Failed:    true,
		ErrorKind: string(stage.KindOf(err)),
		Error:     err.Error(),
	}
}

// runEntities produces the entity slot value. Extraction that yielded no
// usable text records an empty set without invoking the executor.
func (s *Sequencer) runEntities(ctx context.Context, log *slog.Logger, extraction documents.Extraction) documents.Entities {
	if strings.TrimSpace(extraction.Text) == "" {
		return documents.Entities{}
	}

	started := time.Now()

	set, err := s.executors.Entities.ExtractEntities(ctx, extraction.Text)
	if err != nil {
		s.metrics.ObserveStage("ner", "error", time.Since(started).Seconds())
		log.Warn("entity extraction failed", "error", err)
		return documents.Entities{}
	}

	s.metrics.ObserveStage("ner", "ok", time.Since(started).Seconds())
	return documents.Entities{
		Name:     set.Name,
		DOB:      set.DOB,
		Address:  set.Address,
		IDNumber: set.IDNumber,
	}
}

// runValidation produces the validation slot value from the case's documents
// that have usable extracted text, the current document included. No usable
// siblings records a skip marker; an executor failure records an error
// marker. Neither aborts the run.
func (s *Sequencer) runValidation(ctx context.Context, log *slog.Logger, caseID uuid.UUID) documents.Validation {
	siblings, err := s.documents.FindByCase(ctx, caseID)
	if err != nil {
		log.Warn("sibling lookup for validation failed", "error", err)
		return documents.Validation{
			Failed:    true,
			ErrorKind: string(stage.KindProcessing),
			Error:     err.Error(),
		}
	}

	inputs := make([]stage.DocumentInput, 0, len(siblings))
	for _, sib := range siblings {
		if strings.TrimSpace(sib.Text()) == "" {
			continue
		}

		in := stage.DocumentInput{
			Type:       string(sib.Type),
			Confidence: sib.ExtractionConfidence(),
		}
		if sib.Entities != nil {
			in.Entities = stage.EntitySet{
				Name:     sib.Entities.Name,
				DOB:      sib.Entities.DOB,
				Address:  sib.Entities.Address,
				IDNumber: sib.Entities.IDNumber,
			}
		}
		inputs = append(inputs, in)
	}

	if len(inputs) == 0 {
		return documents.Validation{
			Skipped:   true,
			Reasoning: "no documents with extracted text to validate",
		}
	}

	started := time.Now()

	outcome, err := s.executors.Validator.Validate(ctx, inputs)
	if err != nil {
		s.metrics.ObserveStage("llm", "error", time.Since(started).Seconds())
		log.Warn("cross-document validation failed", "error", err)
		return documents.Validation{
			Failed:    true,
			ErrorKind: string(stage.KindOf(err)),
			Error:     err.Error(),
		}
	}

	s.metrics.ObserveStage("llm", "ok", time.Since(started).Seconds())
	return documents.Validation{
		Valid:        outcome.Valid,
		Reasoning:    outcome.Reasoning,
		FraudSignals: outcome.FraudSignals,
		Mismatches:   outcome.Mismatches,
	}
}

// aggregate consults the readiness gate and either scores the case or marks
// it processing while other documents finish.
func (s *Sequencer) aggregate(ctx context.Context, log *slog.Logger, caseID uuid.UUID) error {
	docs, err := s.documents.FindByCase(ctx, caseID)
	if err != nil {
		return fmt.Errorf("load case documents: %w", err)
	}

	if !Ready(docs) {
		if err := s.cases.MarkProcessing(ctx, caseID); err != nil {
			log.Warn("mark processing failed", "error", err)
		}
		log.Info("document run complete, case awaiting remaining stages")
		return nil
	}

	s.scoreGroup.Do(caseID.String(), func() (any, error) {
		s.scoreCase(ctx, log, caseID)
		return nil, nil
	})
	return nil
}

// scoreCase evaluates the case and applies the decision. Engine failures
// route the case to review: a case that reached the gate must never stay
// stuck in processing.
func (s *Sequencer) scoreCase(ctx context.Context, log *slog.Logger, caseID uuid.UUID) {
	score, err := s.scores.Evaluate(ctx, caseID)
	if err != nil {
		if errors.Is(err, scoring.ErrCaseNotFound) {
			log.Debug("case deleted before scoring, skipping")
			return
		}

		log.Error("risk scoring failed, routing case to review", "error", err)
		if err := s.cases.SetStatus(ctx, caseID, cases.StatusReview); err != nil && !errors.Is(err, cases.ErrNotFound) {
			log.Error("review fallback status write failed", "error", err)
		}
		return
	}

	status := statusFor(score.Decision)
	if err := s.cases.SetStatus(ctx, caseID, status); err != nil {
		if !errors.Is(err, cases.ErrNotFound) {
			log.Error("decision status write failed", "error", err)
		}
		return
	}

	s.metrics.DecisionMade(string(score.Decision))
	s.notifier.Publish(notify.Notification{
		CaseID:      caseID,
		Score:       score.Score,
		Decision:    score.Decision,
		Reasoning:   score.Reasoning,
		RiskFactors: score.Factors,
	})

	log.Info("case decided", "decision", score.Decision, "score", score.Score)
}

func statusFor(d scoring.Decision) cases.Status {
	switch d {
	case scoring.DecisionApproved:
		return cases.StatusApproved
	case scoring.DecisionRejected:
		return cases.StatusRejected
	default:
		return cases.StatusReview
	}
}

func abandonIfDeleted(log *slog.Logger, err error, slot string) error {
	if errors.Is(err, documents.ErrNotFound) {
		log.Debug("case deleted mid-run, abandoning", "slot", slot)
		return nil
	}
	return fmt.Errorf("record %s result: %w", slot, err)
}
