package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/archis17/AI-KYC/internal/documents"
	"github.com/archis17/AI-KYC/internal/metrics"
	"github.com/archis17/AI-KYC/pkg/lifecycle"
)

// Processor runs one document's stage sequence. Implemented by Sequencer;
// narrowed so dispatcher tests can substitute a fake.
type Processor interface {
	Process(ctx context.Context, documentID uuid.UUID) error
}

// Dispatcher fans document runs out to a bounded worker pool. Uploads are
// acknowledged as soon as the run is queued; a full queue applies
// backpressure rather than dropping work.
type Dispatcher struct {
	proc      Processor
	documents documents.System
	queue     chan uuid.UUID
	workers   int
	logger    *slog.Logger
	metrics   *metrics.Pipeline
}

// NewDispatcher creates a dispatcher over proc with cfg's pool dimensions.
func NewDispatcher(
	proc Processor,
	docs documents.System,
	cfg *Config,
	logger *slog.Logger,
	m *metrics.Pipeline,
) *Dispatcher {
	return &Dispatcher{
		proc:      proc,
		documents: docs,
		queue:     make(chan uuid.UUID, cfg.QueueSize),
		workers:   cfg.Workers,
		logger:    logger.With("system", "pipeline"),
		metrics:   m,
	}
}

// Start launches the worker pool, requeues documents left incomplete by a
// previous shutdown, and registers the drain hook.
func (d *Dispatcher) Start(lc *lifecycle.Coordinator) {
	ctx := lc.Context()

	g := new(errgroup.Group)
	for range d.workers {
		g.Go(func() error {
			d.work(ctx)
			return nil
		})
	}

	lc.OnStartup(func() {
		d.resume(ctx)
	})

	lc.OnShutdown(func() {
		<-ctx.Done()
		g.Wait()
		d.logger.Info("pipeline workers stopped", "queued", len(d.queue))
	})
}

// Enqueue queues a document run, blocking while the queue is full so upload
// bursts slow down instead of losing work.
func (d *Dispatcher) Enqueue(ctx context.Context, documentID uuid.UUID) error {
	select {
	case d.queue <- documentID:
		d.metrics.SetQueueDepth(len(d.queue))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enqueue document %s: %w", documentID, ctx.Err())
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-d.queue:
			d.metrics.SetQueueDepth(len(d.queue))
			d.run(ctx, id)
		}
	}
}

// run executes one document run, containing panics so a poisoned document
// never takes a worker down with it.
func (d *Dispatcher) run(ctx context.Context, id uuid.UUID) {
	defer func() {
		if r := recover(); r != nil {
			d.metrics.RunCompleted("panic")
			d.logger.Error("pipeline run panicked",
				"document_id", id,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	if err := d.proc.Process(ctx, id); err != nil {
		d.metrics.RunCompleted("error")
		d.logger.Error("pipeline run failed", "document_id", id, "error", err)
		return
	}

	d.metrics.RunCompleted("ok")
}

// resume requeues documents whose runs never finished, so a restart cannot
// leave a case waiting on a stage that will never be attempted.
func (d *Dispatcher) resume(ctx context.Context) {
	ids, err := d.documents.ListIncomplete(ctx)
	if err != nil {
		d.logger.Error("incomplete document scan failed", "error", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	d.logger.Info("requeueing incomplete documents", "count", len(ids))
	for _, id := range ids {
		if err := d.Enqueue(ctx, id); err != nil {
			d.logger.Warn("requeue aborted", "document_id", id, "error", err)
			return
		}
	}
}
