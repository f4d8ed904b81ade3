package api

import (
	"net/http"

	"github.com/archis17/AI-KYC/internal/cases"
	"github.com/archis17/AI-KYC/internal/config"
	"github.com/archis17/AI-KYC/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	dispatcher cases.Dispatcher,
) {
	routes.Register(
		mux,
		domain.Cases.Handler(cfg.API.MaxUploadSizeBytes(), dispatcher).Routes(),
		domain.Documents.Handler().Routes(),
	)
}

// registerAutomationRoutes binds the decision endpoints used by workflow
// automation. They are mounted on their own module behind the internal
// API key rather than user auth.
func registerAutomationRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	dispatcher cases.Dispatcher,
) {
	routes.Register(
		mux,
		domain.Cases.Handler(cfg.API.MaxUploadSizeBytes(), dispatcher).AutomationRoutes(),
	)
}
