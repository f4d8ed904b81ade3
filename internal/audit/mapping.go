package audit

import (
	"encoding/json"
	"fmt"

	"github.com/archis17/AI-KYC/pkg/query"
	"github.com/archis17/AI-KYC/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "audit_entries", "a").
	Project("id", "ID").
	Project("case_id", "CaseID").
	Project("actor", "Actor").
	Project("action", "Action").
	Project("details", "Details").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var (
		e       Entry
		details []byte
	)

	err := s.Scan(
		&e.ID,
		&e.CaseID,
		&e.Actor,
		&e.Action,
		&details,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	if len(details) > 0 {
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return e, fmt.Errorf("decode audit details: %w", err)
		}
	}

	return e, nil
}
