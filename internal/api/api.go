// Package api assembles the API module: domain systems, the document
// pipeline, and route registration for both the user-facing and the
// automation surfaces.
package api

import (
	"net/http"

	"github.com/archis17/AI-KYC/internal/config"
	"github.com/archis17/AI-KYC/internal/infrastructure"
	"github.com/archis17/AI-KYC/internal/metrics"
	"github.com/archis17/AI-KYC/internal/pipeline"
	"github.com/archis17/AI-KYC/pkg/middleware"
	"github.com/archis17/AI-KYC/pkg/module"
	"github.com/archis17/AI-KYC/pkg/openapi"
)

// API bundles the surfaces the server mounts: the user-facing module, the
// key-guarded automation module, and the metrics and spec handlers.
type API struct {
	Module     *module.Module
	Automation *module.Module
	Metrics    http.Handler
	Docs       http.Handler
}

// New assembles the domain systems, wires the document pipeline, and
// registers both route surfaces with their middleware stacks.
func New(cfg *config.Config, infra *infrastructure.Infrastructure) (*API, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	sequencer := pipeline.NewSequencer(
		domain.Cases,
		domain.Documents,
		domain.Scores,
		runtime.Storage,
		runtime.Executors,
		runtime.Notifier,
		runtime.Metrics,
		runtime.Logger,
	)
	dispatcher := pipeline.NewDispatcher(
		sequencer,
		domain.Documents,
		&cfg.Pipeline,
		runtime.Logger,
		runtime.Metrics,
	)

	runtime.Notifier.Start(runtime.Lifecycle)
	dispatcher.Start(runtime.Lifecycle)
	runtime.StartExecutors()

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, dispatcher)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Auth(&cfg.API.Auth, middleware.NewOIDCVerifier(&cfg.API.Auth), runtime.Logger))

	autoMux := http.NewServeMux()
	registerAutomationRoutes(autoMux, domain, cfg, dispatcher)

	automation := module.New("/internal", autoMux)
	automation.Use(middleware.Logger(runtime.Logger))
	automation.Use(middleware.APIKey(cfg.API.Auth.InternalKey, runtime.Logger))

	specBytes, err := openapi.MarshalJSON(BuildSpec(cfg))
	if err != nil {
		return nil, err
	}

	return &API{
		Module:     m,
		Automation: automation,
		Metrics:    metrics.Handler(runtime.Registry),
		Docs:       openapi.ServeSpec(specBytes),
	}, nil
}
