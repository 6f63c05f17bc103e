package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"promopilot.app/writer/common/llm"
	"promopilot.app/writer/internal/http/dto"
	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/write"
)

// PipelineHandler exposes the individual pipeline stages as standalone
// endpoints for operators and the dashboard.
type PipelineHandler struct {
	trends    write.TrendSource
	refiner   write.Refiner
	finder    write.Finder
	scorer    write.Scorer
	generator write.Generator
	llm       llm.Client
}

func NewPipelineHandler(
	trends write.TrendSource,
	refiner write.Refiner,
	finder write.Finder,
	scorer write.Scorer,
	generator write.Generator,
	llmClient llm.Client,
) *PipelineHandler {
	return &PipelineHandler{
		trends:    trends,
		refiner:   refiner,
		finder:    finder,
		scorer:    scorer,
		generator: generator,
		llm:       llmClient,
	}
}

func (h *PipelineHandler) Trends(c *gin.Context) {
	ctx := c.Request.Context()

	limit := queryInt(c, "limit", 20)
	keywords, err := h.trends.Fetch(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch trends", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch trends"})
		return
	}
	c.JSON(http.StatusOK, dto.TrendsResponse{Keywords: keywords})
}

func (h *PipelineHandler) Refine(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.refiner.Refine(ctx, req.Trends, req.LLMSetting.ToSettings())
	if err != nil {
		slog.ErrorContext(ctx, "keyword refinement failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "keyword refinement failed"})
		return
	}
	c.JSON(http.StatusOK, dto.RefineResponse{
		Keyword:     result.Keyword,
		RealKeyword: result.RealKeyword,
		Reason:      result.Reason,
	})
}

func (h *PipelineHandler) Relevance(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RelevanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eval, err := h.scorer.Evaluate(ctx, req.Keyword, req.Product, req.LLMSetting.ToSettings())
	if err != nil {
		slog.ErrorContext(ctx, "relevance evaluation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "relevance evaluation failed"})
		return
	}
	c.JSON(http.StatusOK, dto.RelevanceResponse{
		Keyword:      eval.Keyword,
		ProductTitle: eval.ProductTitle,
		Score:        eval.Score,
		Reason:       eval.Reason,
	})
}

func (h *PipelineHandler) Promo(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platform := model.ResolvePlatform(req.Platform)
	content, err := h.generator.Generate(ctx, req.Product, platform, req.LLMSetting.ToSettings())
	if err != nil {
		slog.ErrorContext(ctx, "promo generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "promo generation failed"})
		return
	}
	c.JSON(http.StatusOK, dto.PromoResponse{
		Title:    content.Title,
		Body:     content.Body,
		Link:     req.Product.Link,
		Platform: string(platform),
	})
}

func (h *PipelineHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}
	limit := queryInt(c, "limit", 20)

	products, err := h.finder.Search(ctx, keyword, limit)
	if err != nil {
		slog.ErrorContext(ctx, "product search failed", "error", err, "keyword", keyword)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "product search failed"})
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	c.JSON(http.StatusOK, dto.SearchResponse{Keyword: keyword, Products: products})
}

func (h *PipelineHandler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings := req.LLMSetting.ToSettings()
	answer, err := h.llm.Chat(ctx, llm.Request{
		SystemPrompt: req.SystemPrompt,
		UserPrompt:   req.UserInput,
		Overrides: llm.Overrides{
			Model:       settings.ModelName,
			Temperature: settings.Temperature,
			APIKey:      settings.APIKey,
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "chat completion failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat completion failed"})
		return
	}
	c.JSON(http.StatusOK, dto.ChatResponse{Answer: answer})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return fallback
	}
	return val
}
