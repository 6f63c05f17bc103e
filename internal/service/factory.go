// Package service wires the pipeline collaborators from configuration.
// Both binaries build their dependency graph through this factory.
package service

import (
	"fmt"

	"promopilot.app/writer/common/llm"
	"promopilot.app/writer/core/config"
	"promopilot.app/writer/internal/category"
	"promopilot.app/writer/internal/keywords"
	"promopilot.app/writer/internal/promo"
	"promopilot.app/writer/internal/publish"
	"promopilot.app/writer/internal/publish/naverblog"
	"promopilot.app/writer/internal/publish/xpost"
	"promopilot.app/writer/internal/relevance"
	"promopilot.app/writer/internal/report"
	"promopilot.app/writer/internal/shop"
	"promopilot.app/writer/internal/tracklog"
	"promopilot.app/writer/internal/trends"
	"promopilot.app/writer/internal/write"
)

type Services struct {
	cfg config.Config

	llm      llm.Client
	tracklog *tracklog.Client
	report   *report.Client

	trendSource *trends.Source
	refiner     *keywords.Refiner
	finder      *shop.Finder
	scorer      *relevance.Scorer
	generator   *promo.Generator
	classifier  *category.Classifier
	router      *publish.Router
	writeSvc    *write.Service
}

func NewServices(cfg config.Config) (*Services, error) {
	llmClient, err := llm.New(llm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	finder, err := shop.NewFinder(cfg.Shop)
	if err != nil {
		return nil, fmt.Errorf("shop finder: %w", err)
	}

	s := &Services{
		cfg:         cfg,
		llm:         llmClient,
		finder:      finder,
		trendSource: trends.NewSource(cfg.Browser, cfg.Write.TrendGeo),
		refiner:     keywords.NewRefiner(llmClient),
		scorer:      relevance.NewScorer(llmClient),
		generator:   promo.NewGenerator(llmClient),
		classifier:  category.NewClassifier(llmClient),
	}

	// A nil tracklog client logs locally and skips delivery.
	if cfg.Tracker.Enabled() {
		s.tracklog = tracklog.New(cfg.Tracker)
	}
	s.report = report.New(cfg.Tracker)

	blog := naverblog.New(cfg.Browser, cfg.Naver, s.tracklog)
	social := xpost.New(cfg.X)
	s.router = publish.NewRouter(blog, social, s.tracklog)

	s.writeSvc = write.NewService(write.Deps{
		Trends:     s.trendSource,
		Refiner:    s.refiner,
		Finder:     s.finder,
		Scorer:     s.scorer,
		Generator:  s.generator,
		Classifier: s.classifier,
		Publisher:  s.router,
		Reporter:   s.report,
	}, s.tracklog, write.Options{
		Engine:             cfg.Write.Engine,
		MaxAttempts:        cfg.Write.MaxAttempts,
		RelevanceThreshold: cfg.Write.RelevanceThreshold,
		TrendLimit:         cfg.Write.TrendLimit,
		ProductLimit:       cfg.Write.ProductLimit,
	})

	return s, nil
}

func (s *Services) LLM() llm.Client { return s.llm }

func (s *Services) Tracklog() *tracklog.Client { return s.tracklog }

func (s *Services) Report() *report.Client { return s.report }

func (s *Services) Trends() *trends.Source { return s.trendSource }

func (s *Services) Refiner() *keywords.Refiner { return s.refiner }

func (s *Services) Finder() *shop.Finder { return s.finder }

func (s *Services) Scorer() *relevance.Scorer { return s.scorer }

func (s *Services) Generator() *promo.Generator { return s.generator }

func (s *Services) Classifier() *category.Classifier { return s.classifier }

func (s *Services) Publisher() *publish.Router { return s.router }

func (s *Services) Write() *write.Service { return s.writeSvc }
