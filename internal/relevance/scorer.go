// Package relevance scores how well a product candidate matches the active
// keyword. A low score is a routing signal, never an error.
package relevance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"promopilot.app/writer/common/llm"
	"promopilot.app/writer/common/textrepair"
	"promopilot.app/writer/internal/model"
)

const systemPrompt = `너는 상품 추천 평가자다. 키워드와 상품 설명을 보고 연관도를 0.0~1.0 사이 점수로 매겨라.
- 1.0에 가까울수록 키워드와 상품이 매우 잘 맞는다.
- 출력은 JSON으로 score(0.0~1.0), reason(간단한 근거)만 포함한다.
- JSON 외의 추가 텍스트는 넣지 않는다.`

type Evaluation struct {
	Keyword      string  `json:"keyword"`
	ProductTitle string  `json:"product_title"`
	Score        float64 `json:"score"`
	Reason       string  `json:"reason"`
}

type Scorer struct {
	llm llm.Client
}

func NewScorer(client llm.Client) *Scorer {
	return &Scorer{llm: client}
}

// Evaluate returns a clamped [0,1] score. Unparseable output scores 0.0
// with the raw answer as the reason, so a rambling model reads as a reject
// rather than a failure.
func (s *Scorer) Evaluate(ctx context.Context, keyword string, product model.Product, settings model.LLMSettings) (Evaluation, error) {
	answer, err := s.llm.Chat(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt(keyword, product, settings.Prompt),
		Overrides:    overrides(settings),
	})
	if err != nil {
		return Evaluation{}, fmt.Errorf("relevance: %w", err)
	}

	eval := Evaluation{
		Keyword:      keyword,
		ProductTitle: product.Title,
		Reason:       strings.TrimSpace(answer),
	}

	if cleaned, ok := textrepair.Repair(answer); ok {
		var parsed struct {
			Score  float64 `json:"score"`
			Reason string  `json:"reason"`
		}
		if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
			eval.Score = parsed.Score
			if reason := strings.TrimSpace(parsed.Reason); reason != "" {
				eval.Reason = reason
			}
		}
	}

	eval.Score = clamp(eval.Score)
	slog.InfoContext(ctx, "relevance evaluated",
		"keyword", keyword,
		"product", product.Title,
		"score", eval.Score)
	return eval, nil
}

func userPrompt(keyword string, product model.Product, extra string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "키워드: %s\n\n상품:\n", keyword)
	b.WriteString(describeProduct(product))
	fmt.Fprintf(&b, "\n추가 지시문(선택): %s\n", orNone(extra))
	b.WriteString("위 정보를 바탕으로 JSON(score, reason)만 반환.")
	return b.String()
}

func describeProduct(p model.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- 이름: %s\n", p.Title)
	if p.Price != nil {
		fmt.Fprintf(&b, "- 가격: %v\n", *p.Price)
	} else {
		b.WriteString("- 가격: 알 수 없음\n")
	}
	fmt.Fprintf(&b, "- 링크: %s\n", p.Link)
	fmt.Fprintf(&b, "- 썸네일: %s\n", orNone(p.Thumbnail))
	b.WriteString("- 스펙:\n")
	if len(p.Specs) == 0 {
		b.WriteString("- 없음\n")
	} else {
		for k, v := range p.Specs {
			fmt.Fprintf(&b, "- %s: %s\n", k, v)
		}
	}
	return b.String()
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func orNone(s string) string {
	if s == "" {
		return "없음"
	}
	return s
}

func overrides(s model.LLMSettings) llm.Overrides {
	return llm.Overrides{Model: s.ModelName, Temperature: s.Temperature, APIKey: s.APIKey}
}
