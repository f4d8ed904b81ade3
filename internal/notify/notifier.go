// Package notify delivers decision notifications to an external workflow
// endpoint. Delivery is best-effort: a slow or failing endpoint never blocks
// case processing, so publishes go through a bounded queue and failures are
// only logged.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/internal/metrics"
	"github.com/archis17/AI-KYC/internal/scoring"
	"github.com/archis17/AI-KYC/pkg/lifecycle"
)

// Notification is the payload emitted when a case reaches a decision.
type Notification struct {
	CaseID      uuid.UUID                 `json:"caseId"`
	Score       float64                   `json:"score"`
	Decision    scoring.Decision          `json:"decision"`
	Reasoning   string                    `json:"reasoning"`
	RiskFactors map[string]scoring.Factor `json:"riskFactors"`
}

// Notifier publishes decision notifications. Implementations are best-effort
// and must not block the caller.
type Notifier interface {
	Publish(n Notification)
}

// Webhook posts notifications to the configured endpoint from a single
// delivery worker behind a bounded queue.
type Webhook struct {
	cfg     Config
	client  *http.Client
	queue   chan Notification
	logger  *slog.Logger
	metrics *metrics.Pipeline
}

// NewWebhook creates a webhook notifier from cfg.
func NewWebhook(cfg *Config, logger *slog.Logger, m *metrics.Pipeline) *Webhook {
	return &Webhook{
		cfg:     *cfg,
		client:  &http.Client{Timeout: cfg.TimeoutDuration()},
		queue:   make(chan Notification, cfg.QueueSize),
		logger:  logger.With("system", "notify"),
		metrics: m,
	}
}

// Start launches the delivery worker and registers its shutdown hook.
func (w *Webhook) Start(lc *lifecycle.Coordinator) {
	ctx := lc.Context()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-w.queue:
				w.send(ctx, n)
			}
		}
	}()

	lc.OnShutdown(func() {
		<-ctx.Done()
		<-done
		w.logger.Info("notification worker stopped", "undelivered", len(w.queue))
	})
}

// Publish queues a notification without blocking. When the queue is full or
// no endpoint is configured, the notification is dropped.
func (w *Webhook) Publish(n Notification) {
	if !w.cfg.Enabled() {
		w.logger.Debug("notification skipped, no endpoint configured", "case_id", n.CaseID)
		return
	}

	select {
	case w.queue <- n:
	default:
		w.metrics.NotificationResult("dropped")
		w.logger.Warn("notification dropped, queue full", "case_id", n.CaseID)
	}
}

func (w *Webhook) send(ctx context.Context, n Notification) {
	body, err := json.Marshal(n)
	if err != nil {
		w.logger.Error("notification encode failed", "case_id", n.CaseID, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(body))
	if err != nil {
		w.logger.Error("notification request build failed", "case_id", n.CaseID, "error", err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	if w.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", w.cfg.APIKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		w.metrics.NotificationResult("failed")
		w.logger.Warn("notification delivery failed", "case_id", n.CaseID, "error", err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		w.metrics.NotificationResult("failed")
		w.logger.Warn("notification rejected by endpoint",
			"case_id", n.CaseID,
			"status", resp.StatusCode,
		)
		return
	}

	w.metrics.NotificationResult("sent")
	w.logger.Info("notification delivered", "case_id", n.CaseID, "decision", n.Decision)
}
