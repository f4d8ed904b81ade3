package cases

import (
	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/internal/documents"
)

// Stage labels reported by the progress projection.
const (
	StagePending     = "pending"
	StageUploading   = "uploading"
	StageOCR         = "ocr"
	StageNER         = "ner"
	StageLLM         = "llm"
	StageRiskScoring = "risk_scoring"
	StageWorkflow    = "workflow"
	StageCompleted   = "completed"
	StageUnknown     = "unknown"
)

// Progress is the externally reported processing position of a case.
type Progress struct {
	CaseID  uuid.UUID `json:"case_id"`
	Status  Status    `json:"status"`
	Stage   string    `json:"stage"`
	Message string    `json:"message"`
}

// ProjectProgress derives the reportable stage from current case and
// document state.
//
// For a processing case the reported stage is the earliest incomplete stage
// across all documents, not an average: one document still awaiting text
// extraction pins the whole case at "ocr".
func ProjectProgress(c *Case, docs []documents.Document, hasScore bool) Progress {
	p := Progress{CaseID: c.ID, Status: c.Status}

	switch {
	case c.Status == StatusPending && len(docs) == 0:
		p.Stage = StagePending
		p.Message = "waiting for document upload"

	case c.Status == StatusPending:
		p.Stage = StageUploading
		p.Message = "documents received, processing starting"

	case c.Status.Decided():
		p.Stage = StageCompleted
		p.Message = "processing complete"

	case c.Status == StatusProcessing:
		p.Stage, p.Message = processingStage(docs, hasScore)

	default:
		p.Stage = StageUnknown
		p.Message = "unrecognized case state"
	}

	return p
}

func processingStage(docs []documents.Document, hasScore bool) (string, string) {
	var needText, needEntities, needValidation bool
	for _, d := range docs {
		needText = needText || d.Extraction == nil
		needEntities = needEntities || d.Entities == nil
		needValidation = needValidation || d.Validation == nil
	}

	switch {
	case needText:
		return StageOCR, "extracting text from documents"
	case needEntities:
		return StageNER, "extracting identity entities"
	case needValidation:
		return StageLLM, "validating documents for consistency"
	case !hasScore:
		return StageRiskScoring, "computing risk score"
	default:
		return StageWorkflow, "decision notification in flight"
	}
}
