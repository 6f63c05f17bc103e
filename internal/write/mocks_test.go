package write

import (
	"context"

	"promopilot.app/writer/internal/keywords"
	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/promo"
	"promopilot.app/writer/internal/publish"
	"promopilot.app/writer/internal/relevance"
	"promopilot.app/writer/internal/report"
)

type mockTrends struct {
	calls   int
	fetchFn func(ctx context.Context, limit int) ([]string, error)
}

func (m *mockTrends) Fetch(ctx context.Context, limit int) ([]string, error) {
	m.calls++
	return m.fetchFn(ctx, limit)
}

type mockRefiner struct {
	calls    int
	refineFn func(ctx context.Context, candidates []string, settings model.LLMSettings) (keywords.Result, error)
}

func (m *mockRefiner) Refine(ctx context.Context, candidates []string, settings model.LLMSettings) (keywords.Result, error) {
	m.calls++
	return m.refineFn(ctx, candidates, settings)
}

type mockFinder struct {
	calls    int
	searchFn func(ctx context.Context, keyword string, limit int) ([]model.Product, error)
}

func (m *mockFinder) Search(ctx context.Context, keyword string, limit int) ([]model.Product, error) {
	m.calls++
	return m.searchFn(ctx, keyword, limit)
}

type mockScorer struct {
	calls  int
	evalFn func(ctx context.Context, keyword string, product model.Product, settings model.LLMSettings) (relevance.Evaluation, error)
}

func (m *mockScorer) Evaluate(ctx context.Context, keyword string, product model.Product, settings model.LLMSettings) (relevance.Evaluation, error) {
	m.calls++
	return m.evalFn(ctx, keyword, product, settings)
}

type mockGenerator struct {
	calls      int
	generateFn func(ctx context.Context, product model.Product, platform model.Platform, settings model.LLMSettings) (promo.Content, error)
}

func (m *mockGenerator) Generate(ctx context.Context, product model.Product, platform model.Platform, settings model.LLMSettings) (promo.Content, error) {
	m.calls++
	return m.generateFn(ctx, product, platform, settings)
}

type mockClassifier struct {
	calls    int
	category string
}

func (m *mockClassifier) Classify(ctx context.Context, product model.Product, settings model.LLMSettings) string {
	m.calls++
	return m.category
}

type mockPublisher struct {
	calls     int
	requests  []publish.Request
	publishFn func(ctx context.Context, req publish.Request) (publish.Result, error)
}

func (m *mockPublisher) Publish(ctx context.Context, req publish.Request) (publish.Result, error) {
	m.calls++
	m.requests = append(m.requests, req)
	return m.publishFn(ctx, req)
}

type mockReporter struct {
	redirect string
	posted   []report.ContentRecord
}

func (m *mockReporter) PostContent(ctx context.Context, rec report.ContentRecord) {
	m.posted = append(m.posted, rec)
}

func (m *mockReporter) RedirectURL(jobID string) string {
	return m.redirect + jobID
}
