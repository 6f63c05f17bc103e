package write

import (
	"context"
	"log/slog"

	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/queue"
)

// Dispatcher hands an accepted job off for detached execution. The caller
// gets its response before the job runs.
type Dispatcher interface {
	Dispatch(ctx context.Context, job model.WriteJob, traceID string) error
}

// QueueDispatcher enqueues jobs for the stream worker.
type QueueDispatcher struct {
	producer queue.Producer
}

func NewQueueDispatcher(producer queue.Producer) *QueueDispatcher {
	return &QueueDispatcher{producer: producer}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, job model.WriteJob, traceID string) error {
	return d.producer.Enqueue(ctx, queue.JobMessage{Job: job, TraceID: traceID})
}

// InlineDispatcher runs jobs in-process when no queue is configured. The
// goroutine outlives the request, so it detaches from request cancellation.
type InlineDispatcher struct {
	svc *Service
}

func NewInlineDispatcher(svc *Service) *InlineDispatcher {
	return &InlineDispatcher{svc: svc}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, job model.WriteJob, _ string) error {
	detached := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(detached, "panic recovered in inline job", "panic", r, "job_id", job.JobID)
			}
		}()
		if _, err := d.svc.Run(detached, job); err != nil {
			slog.ErrorContext(detached, "inline write job failed", "error", err, "job_id", job.JobID)
		}
	}()
	return nil
}
