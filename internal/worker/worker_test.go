package worker

import (
	"context"
	"errors"
	"testing"

	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/queue"
)

type stubRunner struct {
	err   error
	panic bool
	jobs  []model.WriteJob
}

func (s *stubRunner) Run(_ context.Context, job model.WriteJob) (model.WriteSummary, error) {
	s.jobs = append(s.jobs, job)
	if s.panic {
		panic("runner exploded")
	}
	return model.WriteSummary{JobID: job.JobID}, s.err
}

func TestProcessMessageSafe(t *testing.T) {
	msg := queue.Message{ID: "1-0", Job: model.WriteJob{JobID: "job-1", UserID: "u-1"}}

	t.Run("passes the job to the runner", func(t *testing.T) {
		runner := &stubRunner{}
		w := New(nil, runner)
		if err := w.processMessageSafe(context.Background(), msg); err != nil {
			t.Fatalf("processMessageSafe() error = %v", err)
		}
		if len(runner.jobs) != 1 || runner.jobs[0].JobID != "job-1" {
			t.Errorf("jobs = %+v", runner.jobs)
		}
	})

	t.Run("returns runner errors", func(t *testing.T) {
		runner := &stubRunner{err: errors.New("pipeline failed")}
		w := New(nil, runner)
		if err := w.processMessageSafe(context.Background(), msg); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("recovers panics into errors", func(t *testing.T) {
		runner := &stubRunner{panic: true}
		w := New(nil, runner)
		err := w.processMessageSafe(context.Background(), msg)
		if err == nil {
			t.Fatal("expected panic to surface as error")
		}
	})
}
