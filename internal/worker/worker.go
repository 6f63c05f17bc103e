// Package worker consumes write jobs from the redis stream and runs them
// through the pipeline.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"promopilot.app/writer/common/logger"
	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/queue"
)

// JobRunner executes one write job end to end.
type JobRunner interface {
	Run(ctx context.Context, job model.WriteJob) (model.WriteSummary, error)
}

type Worker struct {
	consumer *queue.RedisConsumer
	runner   JobRunner

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer *queue.RedisConsumer, runner JobRunner) *Worker {
	return &Worker{
		consumer:  consumer,
		runner:    runner,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "write job failed",
				"error", err,
				"message_id", msg.ID,
				"job_id", msg.Job.JobID)
		}

		// Job failures are terminal: the pipeline carries its own retry
		// budget, so the message is acked either way.
		if err := w.consumer.Ack(ctx, msg); err != nil {
			slog.WarnContext(ctx, "failed to ACK message",
				"error", err,
				"message_id", msg.ID)
		}
	}

	return nil
}

// ProcessReclaimed runs a message recovered from another consumer's
// pending list. The always-ack policy applies here too.
func (w *Worker) ProcessReclaimed(ctx context.Context, msg queue.Message) error {
	err := w.processMessageSafe(ctx, msg)
	if ackErr := w.consumer.Ack(ctx, msg); ackErr != nil {
		slog.WarnContext(ctx, "failed to ACK reclaimed message",
			"error", ackErr,
			"message_id", msg.ID)
	}
	return err
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID,
				"job_id", msg.Job.JobID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.processMessage(ctx, msg)
}

func (w *Worker) processMessage(ctx context.Context, msg queue.Message) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		JobID:     logger.Ptr(msg.Job.JobID),
		UserID:    logger.Ptr(msg.Job.UserID),
		Keyword:   logger.Ptr(msg.Job.Keyword),
		ChannelID: logger.Ptr(msg.Job.Channel.ID),
		MessageID: logger.Ptr(msg.ID),
		Component: "writer.worker",
	})

	slog.InfoContext(ctx, "processing write job",
		"message_id", msg.ID,
		"job_id", msg.Job.JobID,
		"attempt", msg.Attempt)

	summary, err := w.runner.Run(ctx, msg.Job)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "write job finished",
		"job_id", summary.JobID,
		"keyword", summary.Keyword,
		"product", summary.ProductTitle,
		"link", summary.Link)
	return nil
}
