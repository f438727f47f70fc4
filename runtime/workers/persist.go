package workers

import (
	"context"
	"log/slog"
)

// Job is one unit of deferred store work.
type Job func(ctx context.Context)

// PersistWorker runs store writes scheduled after delivery.
// Jobs get a context detached from cancellation: a write that was queued
// still completes when its session or the process is shutting down.
type PersistWorker struct {
	log  *slog.Logger
	jobs chan Job
}

func NewPersistWorker(log *slog.Logger, jobs chan Job) *PersistWorker {
	return &PersistWorker{log: log, jobs: jobs}
}

func (w *PersistWorker) Run(ctx context.Context) error {
	jobCtx := context.WithoutCancel(ctx)
	for {
		select {
		case job := <-w.jobs:
			job(jobCtx)
		case <-ctx.Done():
			w.drain(jobCtx)
			w.log.Debug("Context done, persist worker stopped")
			return nil
		}
	}
}

// drain runs what is left in the queue without waiting for more.
func (w *PersistWorker) drain(ctx context.Context) {
	drained := 0
	for {
		select {
		case job := <-w.jobs:
			job(ctx)
			drained++
		default:
			if drained > 0 {
				w.log.Info("Pending writes flushed", "count", drained)
			}
			return
		}
	}
}

// Schedule queues job on jobs. With no queue, or a full one, the job runs
// in the caller's goroutine so no write is ever dropped.
func Schedule(ctx context.Context, jobs chan<- Job, job Job) {
	if jobs != nil {
		select {
		case jobs <- job:
			return
		default:
		}
	}
	job(context.WithoutCancel(ctx))
}
