package cases_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/internal/cases"
	"github.com/archis17/AI-KYC/internal/documents"
)

func completeDoc() documents.Document {
	return documents.Document{
		Extraction: &documents.Extraction{Text: "extracted text", Confidence: 0.9},
		Entities:   &documents.Entities{Name: "Jane Doe"},
		Validation: &documents.Validation{Valid: true},
	}
}

func TestProjectProgress(t *testing.T) {
	afterOCR := completeDoc()
	afterOCR.Entities = nil
	afterOCR.Validation = nil

	afterNER := completeDoc()
	afterNER.Validation = nil

	tests := []struct {
		name     string
		status   cases.Status
		docs     []documents.Document
		hasScore bool
		stage    string
	}{
		{
			name:   "pending without documents",
			status: cases.StatusPending,
			stage:  cases.StagePending,
		},
		{
			name:   "pending with documents",
			status: cases.StatusPending,
			docs:   []documents.Document{{}},
			stage:  cases.StageUploading,
		},
		{
			name:   "approved is completed",
			status: cases.StatusApproved,
			docs:   []documents.Document{completeDoc()},
			stage:  cases.StageCompleted,
		},
		{
			name:   "review is completed",
			status: cases.StatusReview,
			stage:  cases.StageCompleted,
		},
		{
			name:   "rejected is completed",
			status: cases.StatusRejected,
			stage:  cases.StageCompleted,
		},
		{
			name:   "processing before extraction",
			status: cases.StatusProcessing,
			docs:   []documents.Document{{}},
			stage:  cases.StageOCR,
		},
		{
			name:   "one unextracted document pins the case",
			status: cases.StatusProcessing,
			docs:   []documents.Document{completeDoc(), {}},
			stage:  cases.StageOCR,
		},
		{
			name:   "processing before entities",
			status: cases.StatusProcessing,
			docs:   []documents.Document{afterOCR},
			stage:  cases.StageNER,
		},
		{
			name:   "processing before validation",
			status: cases.StatusProcessing,
			docs:   []documents.Document{afterNER},
			stage:  cases.StageLLM,
		},
		{
			name:   "processing before scoring",
			status: cases.StatusProcessing,
			docs:   []documents.Document{completeDoc()},
			stage:  cases.StageRiskScoring,
		},
		{
			name:     "processing after scoring",
			status:   cases.StatusProcessing,
			docs:     []documents.Document{completeDoc()},
			hasScore: true,
			stage:    cases.StageWorkflow,
		},
		{
			name:   "unrecognized status",
			status: cases.Status("archived"),
			stage:  cases.StageUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := &cases.Case{ID: uuid.New(), Status: tc.status}

			p := cases.ProjectProgress(c, tc.docs, tc.hasScore)

			if p.Stage != tc.stage {
				t.Errorf("stage: got %s, want %s", p.Stage, tc.stage)
			}
			if p.CaseID != c.ID {
				t.Errorf("case id: got %s, want %s", p.CaseID, c.ID)
			}
			if p.Status != tc.status {
				t.Errorf("status: got %s, want %s", p.Status, tc.status)
			}
			if p.Message == "" {
				t.Error("message: got empty, want populated")
			}
		})
	}
}
