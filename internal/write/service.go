// Package write orchestrates the full content pipeline: term preparation,
// product search, relevance gating, promo generation, optional publish and
// the final content report.
package write

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"promopilot.app/writer/internal/keywords"
	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/promo"
	"promopilot.app/writer/internal/publish"
	"promopilot.app/writer/internal/relevance"
	"promopilot.app/writer/internal/report"
	"promopilot.app/writer/internal/tracklog"
)

const process = "write"

var (
	// ErrNoTrendTerms means no caller keyword was given and trend
	// collection came back empty. The job cannot proceed.
	ErrNoTrendTerms = errors.New("write: no trend terms collected")

	// ErrRelevanceExhausted means every search attempt failed the
	// relevance gate. Promo generation never ran.
	ErrRelevanceExhausted = errors.New("write: no relevant product found")
)

type TrendSource interface {
	Fetch(ctx context.Context, limit int) ([]string, error)
}

type Refiner interface {
	Refine(ctx context.Context, candidates []string, settings model.LLMSettings) (keywords.Result, error)
}

type Finder interface {
	Search(ctx context.Context, keyword string, limit int) ([]model.Product, error)
}

type Scorer interface {
	Evaluate(ctx context.Context, keyword string, product model.Product, settings model.LLMSettings) (relevance.Evaluation, error)
}

type Generator interface {
	Generate(ctx context.Context, product model.Product, platform model.Platform, settings model.LLMSettings) (promo.Content, error)
}

type Classifier interface {
	Classify(ctx context.Context, product model.Product, settings model.LLMSettings) string
}

type Publisher interface {
	Publish(ctx context.Context, req publish.Request) (publish.Result, error)
}

type Reporter interface {
	PostContent(ctx context.Context, rec report.ContentRecord)
	RedirectURL(jobID string) string
}

// Deps are the pipeline collaborators.
type Deps struct {
	Trends     TrendSource
	Refiner    Refiner
	Finder     Finder
	Scorer     Scorer
	Generator  Generator
	Classifier Classifier
	Publisher  Publisher
	Reporter   Reporter
}

// Options tune the pipeline. Zero values take the defaults below.
type Options struct {
	Engine             string
	MaxAttempts        int
	RelevanceThreshold float64
	TrendLimit         int
	ProductLimit       int
}

const (
	defaultEngine       = "graph"
	defaultMaxAttempts  = 5
	defaultThreshold    = 0.8
	defaultTrendLimit   = 20
	defaultProductLimit = 20
)

type Service struct {
	deps Deps
	logs *tracklog.Client
	opts Options

	// pick selects a product index from n candidates.
	pick func(n int) int
}

func NewService(deps Deps, logs *tracklog.Client, opts Options) *Service {
	if opts.Engine == "" {
		opts.Engine = defaultEngine
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RelevanceThreshold <= 0 {
		opts.RelevanceThreshold = defaultThreshold
	}
	if opts.TrendLimit <= 0 {
		opts.TrendLimit = defaultTrendLimit
	}
	if opts.ProductLimit <= 0 {
		opts.ProductLimit = defaultProductLimit
	}
	return &Service{
		deps: deps,
		logs: logs,
		opts: opts,
		pick: rand.IntN,
	}
}

// Run executes a job end to end and records terminal failures on the
// tracking log before returning them.
func (s *Service) Run(ctx context.Context, job model.WriteJob) (model.WriteSummary, error) {
	summary, err := s.Process(ctx, job)
	if err != nil {
		s.logs.Error(ctx, process, "글 작성 실패", err.Error(), job.UserID, job.JobID)
		return model.WriteSummary{}, err
	}
	return summary, nil
}

// Process drives a job through the pipeline with the configured engine.
// A graph that fails to build falls back to the sequential driver with
// identical behavior.
func (s *Service) Process(ctx context.Context, job model.WriteJob) (model.WriteSummary, error) {
	r := &run{job: job, mode: job.Mode()}

	var final state
	if s.opts.Engine == "graph" {
		g, err := buildGraph()
		if err != nil {
			slog.WarnContext(ctx, "graph build failed, using sequential driver", "error", err)
			final = s.runSequential(ctx, r)
		} else {
			final = g.run(ctx, s, r)
		}
	} else {
		final = s.runSequential(ctx, r)
	}

	if final == stateAbandoned {
		if r.err == nil {
			r.err = fmt.Errorf("write: job abandoned in an unknown state")
		}
		return model.WriteSummary{}, r.err
	}
	return model.WriteSummary{
		JobID:        job.JobID,
		Keyword:      r.keyword,
		ProductTitle: r.product.Title,
		Link:         r.link,
	}, nil
}

// step is the single transition function: it performs the work of the
// current state and returns the next one. Both drivers call it; neither
// adds behavior of its own.
func (s *Service) step(ctx context.Context, st state, r *run) state {
	switch st {
	case statePreparingTerm:
		return s.prepareTerm(ctx, r)
	case stateSearching:
		return s.search(ctx, r)
	case stateEvaluating:
		return s.evaluate(ctx, r)
	case stateGenerating:
		return s.generate(ctx, r)
	case statePublishing:
		return s.publishContent(ctx, r)
	case stateReporting:
		return s.reportContent(ctx, r)
	default:
		r.err = fmt.Errorf("write: no transition from state %s", st)
		return stateAbandoned
	}
}

// prepareTerm resolves the search keyword. A caller-supplied keyword is
// used as-is; otherwise trend terms are collected and refined.
func (s *Service) prepareTerm(ctx context.Context, r *run) state {
	if kw := strings.TrimSpace(r.job.Keyword); kw != "" {
		r.keyword = kw
		s.logs.Info(ctx, process, "키워드 입력 사용", kw, r.job.UserID, r.job.JobID)
		return stateSearching
	}

	terms, err := s.deps.Trends.Fetch(ctx, s.opts.TrendLimit)
	if err != nil {
		r.err = fmt.Errorf("fetch trends: %w", err)
		return stateAbandoned
	}
	if len(terms) == 0 {
		r.err = ErrNoTrendTerms
		return stateAbandoned
	}

	refined, err := s.deps.Refiner.Refine(ctx, terms, r.job.LLM)
	if err != nil {
		r.err = fmt.Errorf("refine keyword: %w", err)
		return stateAbandoned
	}
	r.keyword = refined.Chosen()
	if r.keyword == "" {
		r.keyword = terms[0]
	}
	s.logs.Info(ctx, process, "트렌드 기반 키워드 선택", r.keyword, r.job.UserID, r.job.JobID)
	return stateSearching
}

// search consumes one attempt: an empty result retries, a hit moves on to
// evaluation with one uniformly picked candidate.
func (s *Service) search(ctx context.Context, r *run) state {
	if r.attempts >= s.opts.MaxAttempts {
		r.err = ErrRelevanceExhausted
		s.logs.Error(ctx, process, "연관된 상품을 찾지 못했습니다.", r.keyword, r.job.UserID, r.job.JobID)
		return stateAbandoned
	}
	r.attempts++

	products, err := s.deps.Finder.Search(ctx, r.keyword, s.opts.ProductLimit)
	if err != nil {
		slog.WarnContext(ctx, "product search failed", "keyword", r.keyword, "attempt", r.attempts, "error", err)
		return stateSearching
	}
	if len(products) == 0 {
		slog.InfoContext(ctx, "no products found", "keyword", r.keyword, "attempt", r.attempts)
		return stateSearching
	}

	r.product = products[s.pick(len(products))]
	return stateEvaluating
}

func (s *Service) evaluate(ctx context.Context, r *run) state {
	eval, err := s.deps.Scorer.Evaluate(ctx, r.keyword, r.product, r.job.LLM)
	if err != nil {
		r.err = fmt.Errorf("evaluate relevance: %w", err)
		return stateAbandoned
	}
	r.score = eval.Score
	s.logs.Info(ctx, process, "연관도 평가", fmt.Sprintf("score=%.2f", eval.Score), r.job.UserID, r.job.JobID)

	if eval.Score >= s.opts.RelevanceThreshold {
		return stateGenerating
	}
	return stateSearching
}

// generate produces the promo content, classifies the product category and
// rewrites every product link in the body to the tracked redirect.
func (s *Service) generate(ctx context.Context, r *run) state {
	content, err := s.deps.Generator.Generate(ctx, r.product, r.job.Channel.Platform, r.job.LLM)
	if err != nil {
		r.err = fmt.Errorf("generate promo: %w", err)
		return stateAbandoned
	}
	r.title = content.Title
	r.body = content.Body
	r.category = s.deps.Classifier.Classify(ctx, r.product, r.job.LLM)

	if r.product.Link != "" {
		redirect := s.deps.Reporter.RedirectURL(r.job.JobID)
		r.body = strings.ReplaceAll(r.body, r.product.Link, redirect)
	}

	if r.mode == model.GenerationAuto {
		return statePublishing
	}
	return stateReporting
}

// publishContent runs only in AUTO mode. Any failure, unsupported channel
// included, degrades the job to MANUAL instead of aborting it.
func (s *Service) publishContent(ctx context.Context, r *run) state {
	result, err := s.deps.Publisher.Publish(ctx, publish.Request{
		JobID:   r.job.JobID,
		UserID:  r.job.UserID,
		Title:   r.title,
		Body:    r.body,
		Channel: r.job.Channel,
	})
	if err != nil {
		s.logs.Warn(ctx, process, "업로드 실패로 수동 전환", err.Error(), r.job.UserID, r.job.JobID)
		r.mode = model.GenerationManual
		r.link = ""
		return stateReporting
	}
	r.link = result.Link
	return stateReporting
}

func (s *Service) reportContent(ctx context.Context, r *run) state {
	status := model.ContentStatusPending
	if r.mode == model.GenerationAuto {
		status = model.ContentStatusApproved
	}

	product := r.product
	product.Category = r.category

	s.deps.Reporter.PostContent(ctx, report.ContentRecord{
		JobID:           r.job.JobID,
		UploadChannelID: r.job.Channel.ID,
		UserID:          r.job.UserID,
		Title:           r.title,
		Body:            r.body,
		Status:          status,
		GenerationType:  r.mode,
		Link:            r.link,
		Keyword:         r.keyword,
		Product:         report.NewProductRecord(product),
	})

	s.logs.Info(ctx, process, "글 작성 완료", r.keyword, r.job.UserID, r.job.JobID)
	return stateDone
}
