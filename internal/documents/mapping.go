package documents

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/pkg/query"
	"github.com/archis17/AI-KYC/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("case_id", "CaseID").
	Project("doc_type", "Type").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("extraction", "Extraction").
	Project("entities", "Entities").
	Project("validation", "Validation").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "cases", "c", "INNER JOIN", "d.case_id = c.id").
	Project("subject", "Subject")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: false,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored; all fields use exact matching.
type Filters struct {
	CaseID  *uuid.UUID `json:"case_id,omitempty"`
	Type    *string    `json:"doc_type,omitempty"`
	Subject *string    `json:"subject,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("CaseID", f.CaseID).
		WhereEquals("Type", f.Type).
		WhereEquals("Subject", f.Subject)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if cid := values.Get("case_id"); cid != "" {
		if v, err := uuid.Parse(cid); err == nil {
			f.CaseID = &v
		}
	}

	if dt := values.Get("doc_type"); dt != "" {
		f.Type = &dt
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var (
		d          Document
		extraction []byte
		entities   []byte
		validation []byte
	)

	err := s.Scan(
		&d.ID,
		&d.CaseID,
		&d.Type,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&extraction,
		&entities,
		&validation,
		&d.UploadedAt,
		&d.UpdatedAt,
		&d.Subject,
	)
	if err != nil {
		return d, err
	}

	if err := unmarshalSlot(extraction, &d.Extraction); err != nil {
		return d, fmt.Errorf("decode extraction: %w", err)
	}
	if err := unmarshalSlot(entities, &d.Entities); err != nil {
		return d, fmt.Errorf("decode entities: %w", err)
	}
	if err := unmarshalSlot(validation, &d.Validation); err != nil {
		return d, fmt.Errorf("decode validation: %w", err)
	}

	return d, nil
}

// unmarshalSlot decodes a nullable JSONB column into a result slot, leaving
// the slot nil when the column is NULL.
func unmarshalSlot[T any](data []byte, slot **T) error {
	if len(data) == 0 {
		return nil
	}

	value := new(T)
	if err := json.Unmarshal(data, value); err != nil {
		return err
	}

	*slot = value
	return nil
}

func marshalSlot(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode stage result: %w", err)
	}
	return data, nil
}
