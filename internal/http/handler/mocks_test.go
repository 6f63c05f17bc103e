package handler_test

import (
	"context"

	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/publish"
)

type mockDispatcher struct {
	dispatchFn func(ctx context.Context, job model.WriteJob, traceID string) error
	jobs       []model.WriteJob
}

func (m *mockDispatcher) Dispatch(ctx context.Context, job model.WriteJob, traceID string) error {
	m.jobs = append(m.jobs, job)
	if m.dispatchFn != nil {
		return m.dispatchFn(ctx, job, traceID)
	}
	return nil
}

type mockPublisher struct {
	publishFn func(ctx context.Context, req publish.Request) (publish.Result, error)
	requests  []publish.Request
}

func (m *mockPublisher) Publish(ctx context.Context, req publish.Request) (publish.Result, error) {
	m.requests = append(m.requests, req)
	if m.publishFn != nil {
		return m.publishFn(ctx, req)
	}
	return publish.Result{}, nil
}
