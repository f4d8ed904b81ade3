package api

import (
	"github.com/archis17/AI-KYC/internal/audit"
	"github.com/archis17/AI-KYC/internal/cases"
	"github.com/archis17/AI-KYC/internal/documents"
	"github.com/archis17/AI-KYC/internal/scoring"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Cases     cases.System
	Documents documents.System
	Scores    scoring.System
	Audit     audit.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	auditSystem := audit.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	scoresSystem := scoring.New(
		runtime.Database.Connection(),
		docsSystem,
		runtime.Logger,
	)

	casesSystem := cases.New(
		runtime.Database.Connection(),
		docsSystem,
		scoresSystem,
		auditSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Cases:     casesSystem,
		Documents: docsSystem,
		Scores:    scoresSystem,
		Audit:     auditSystem,
	}
}
