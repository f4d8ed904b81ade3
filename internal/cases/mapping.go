package cases

import (
	"net/url"

	"github.com/archis17/AI-KYC/pkg/query"
	"github.com/archis17/AI-KYC/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "cases", "c").
	Project("id", "ID").
	Project("subject", "Subject").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for case queries.
// Nil fields are ignored; both fields use exact matching.
type Filters struct {
	Status  *string `json:"status,omitempty"`
	Subject *string `json:"subject,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Subject", f.Subject)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		if parsed, err := ParseStatus(s); err == nil {
			status := string(parsed)
			f.Status = &status
		}
	}

	return f
}

func scanCase(s repository.Scanner) (Case, error) {
	var c Case
	err := s.Scan(
		&c.ID,
		&c.Subject,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
