package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/archis17/AI-KYC/internal/config"
	"github.com/archis17/AI-KYC/internal/infrastructure"
	"github.com/archis17/AI-KYC/internal/metrics"
	"github.com/archis17/AI-KYC/internal/notify"
	"github.com/archis17/AI-KYC/internal/pipeline"
	"github.com/archis17/AI-KYC/internal/stage"
	"github.com/archis17/AI-KYC/internal/stage/crossdoc"
	"github.com/archis17/AI-KYC/internal/stage/entities"
	"github.com/archis17/AI-KYC/internal/stage/vision"
	"github.com/archis17/AI-KYC/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// pipeline subsystems shared between request handlers and background workers.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Registry   *prometheus.Registry
	Metrics    *metrics.Pipeline
	Notifier   *notify.Webhook
	Executors  pipeline.Executors
}

// NewRuntime creates an API runtime with a module-scoped logger, a metrics
// registry, the decision notifier, and the three stage executors.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	registry := prometheus.NewRegistry()
	m := metrics.NewPipeline(registry)

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Registry:   registry,
		Metrics:    m,
		Notifier:   notify.NewWebhook(&cfg.Notifier, logger, m),
		Executors: pipeline.Executors{
			Text:      vision.New(cfg.Agents.Vision.Agent(), logger),
			Entities:  entities.New(logger),
			Validator: crossdoc.New(cfg.Agents.Chat.Agent(), logger),
		},
	}
}

// StartExecutors registers startup probes for executors that hold provider
// sessions, so an unreachable model host is visible before traffic arrives.
// Probe failures are logged, not fatal: stage runs degrade to recorded
// failures rather than blocking startup.
func (r *Runtime) StartExecutors() {
	for _, executor := range []any{r.Executors.Text, r.Executors.Entities, r.Executors.Validator} {
		opener, ok := executor.(stage.Opener)
		if !ok {
			continue
		}
		r.Lifecycle.OnStartup(func() {
			if err := opener.Open(r.Lifecycle.Context()); err != nil {
				r.Logger.Error("stage executor probe failed", "error", err)
			}
		})
	}
}
