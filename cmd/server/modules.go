package main

import (
	"net/http"

	"github.com/archis17/AI-KYC/internal/api"
	"github.com/archis17/AI-KYC/internal/config"
	"github.com/archis17/AI-KYC/internal/infrastructure"
	"github.com/archis17/AI-KYC/pkg/handlers"
	"github.com/archis17/AI-KYC/pkg/module"
)

// storageProbeKey never needs to exist; the readiness probe only proves the
// backing store answers.
const storageProbeKey = "probes/readyz"

type Modules struct {
	API *api.API
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiSurface, err := api.New(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiSurface,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API.Module)
	router.Mount(m.API.Automation)
}

func buildRouter(infra *infrastructure.Infrastructure, metricsHandler, docsHandler http.Handler) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}

		if err := infra.Database.Connection().PingContext(r.Context()); err != nil {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "database unreachable"})
			return
		}

		if _, err := infra.Storage.Exists(r.Context(), storageProbeKey); err != nil {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "storage unreachable"})
			return
		}

		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	router.HandleNative("GET /metrics", metricsHandler.ServeHTTP)
	router.HandleNative("GET /openapi.json", docsHandler.ServeHTTP)

	return router
}
