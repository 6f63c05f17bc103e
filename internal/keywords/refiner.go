// Package keywords turns trend terms into shop search keywords via the LLM.
package keywords

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

const systemPrompt = `너는 이커머스 검색어 기획자다. 입력된 트렌드 키워드를 보고 실제 쇼핑몰 검색에 쓸 만한 키워드(real_keyword)를 제안하고, 그 이유를 간단히 설명한다.
- keyword는 입력 그대로 보존
- real_keyword는 keyword를 그대로 쓰거나, 사람이 자주 쓰는 형태로 자연스럽게 변형
- reason은 선택 근거를 한두 문장으로 작성
- 출력은 JSON(keyword, real_keyword, reason)만 반환`

// Result carries the refined search keyword. RealKeyword is the form to
// search with; Keyword preserves the selected input.
type Result struct {
	Keyword     string `json:"keyword"`
	RealKeyword string `json:"real_keyword"`
	Reason      string `json:"reason"`
}

// Chosen returns the keyword to search with, preferring the refined form.
func (r Result) Chosen() string {
	if r.RealKeyword != "" {
		return r.RealKeyword
	}
	return r.Keyword
}

type Refiner struct {
	llm llm.Client
}

func NewRefiner(client llm.Client) *Refiner {
	return &Refiner{llm: client}
}

// Refine asks the LLM to pick and adapt one candidate. Malformed output
// never fails the call: the first candidate and the raw answer stand in for
// the missing fields. Only gateway failures surface as errors.
func (r *Refiner) Refine(ctx context.Context, candidates []string, settings model.LLMSettings) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, fmt.Errorf("refine: no candidates")
	}

	answer, err := r.llm.Chat(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt(candidates, settings.Prompt),
		Overrides:    overrides(settings),
	})
	if err != nil {
		return Result{}, fmt.Errorf("refine: %w", err)
	}

	result := parseAnswer(answer, candidates[0])
	slog.InfoContext(ctx, "keyword refined",
		"keyword", result.Keyword,
		"real_keyword", result.RealKeyword)
	return result, nil
}

func userPrompt(candidates []string, extra string) string {
	var b strings.Builder
	b.WriteString("트렌드 키워드 목록:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	fmt.Fprintf(&b, "추가 지시문(선택): %s\n", orNone(extra))
	b.WriteString("위 목록 중에서 쇼핑몰 검색에 가장 적합한 keyword를 하나 고르고, real_keyword(필요 시 변형), reason을 JSON으로 반환.")
	return b.String()
}

func parseAnswer(answer, fallback string) Result {
	result := Result{
		Keyword:     fallback,
		RealKeyword: fallback,
		Reason:      strings.TrimSpace(answer),
	}

	cleaned, ok := textrepair.Repair(answer)
	if !ok {
		return result
	}
	var parsed Result
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return result
	}

	if parsed.Keyword != "" {
		result.Keyword = parsed.Keyword
	}
	if parsed.RealKeyword != "" {
		result.RealKeyword = parsed.RealKeyword
	} else if parsed.Keyword != "" {
		result.RealKeyword = parsed.Keyword
	}
	if reason := strings.TrimSpace(parsed.Reason); reason != "" {
		result.Reason = reason
	}
	return result
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
