// Package audit records explicit actions taken against cases. Entries are
// append-only; the only thing that removes them is the cascade when their
// case is deleted.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action enumerates the recorded case actions. Internal stage failures are
// intentionally not audited; they live on the document result slots.
type Action string

const (
	ActionUpload        Action = "upload"
	ActionManualApprove Action = "manual_approve"
	ActionManualReject  Action = "manual_reject"
	ActionAutoApprove   Action = "auto_approve"
	ActionAutoReject    Action = "auto_reject"
	ActionDelete        Action = "delete"
)

// ActorSystem is the actor recorded for automated actions.
const ActorSystem = "system"

// Entry is one immutable audit record.
type Entry struct {
	ID        uuid.UUID      `json:"id"`
	CaseID    uuid.UUID      `json:"case_id"`
	Actor     string         `json:"actor"`
	Action    Action         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Record carries the data needed to append a new entry.
type Record struct {
	CaseID  uuid.UUID
	Actor   string
	Action  Action
	Details map[string]any
}
