// Package promo generates promotional copy for a product, shaped by
// per-platform guideline files embedded at build time.
package promo

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"promopilot.app/writer/common/llm"
	"promopilot.app/writer/common/textrepair"
	"promopilot.app/writer/internal/model"
)

//go:embed guides/*.txt
var guideFS embed.FS

type Content struct {
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Link     string         `json:"link"`
	Platform model.Platform `json:"platform"`
}

type Generator struct {
	llm llm.Client
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{llm: client}
}

// Generate produces title and body for the platform. When the model ignores
// the JSON instruction the whole answer becomes the body with an empty
// title; a human finishes it in the MANUAL flow.
func (g *Generator) Generate(ctx context.Context, product model.Product, platform model.Platform, settings model.LLMSettings) (Content, error) {
	answer, err := g.llm.Chat(ctx, llm.Request{
		SystemPrompt: systemPrompt(platform),
		UserPrompt:   userPrompt(product, settings.Prompt),
		Overrides:    overrides(settings),
	})
	if err != nil {
		return Content{}, fmt.Errorf("promo: %w", err)
	}

	content := Content{
		Body:     strings.TrimSpace(answer),
		Link:     product.Link,
		Platform: platform,
	}

	if cleaned, ok := textrepair.Repair(answer); ok {
		var parsed struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
			content.Title = strings.TrimSpace(parsed.Title)
			content.Body = strings.TrimSpace(parsed.Body)
		}
	}

	slog.InfoContext(ctx, "promo generated",
		"platform", platform,
		"product", product.Title,
		"title", content.Title)
	return content, nil
}

// Guide returns the guideline text for a platform, falling back to the
// generic guide for platforms without a file.
func Guide(platform model.Platform) string {
	data, err := guideFS.ReadFile(fmt.Sprintf("guides/%s.txt", platform))
	if err != nil {
		data, _ = guideFS.ReadFile("guides/default.txt")
	}
	return strings.TrimSpace(string(data))
}

func systemPrompt(platform model.Platform) string {
	return fmt.Sprintf(`너는 이커머스 마케터다.
플랫폼: %s
아래 가이드에 따라 홍보글을 작성한다.
%s
출력은 JSON 형식으로 title, body만 포함한다.`, platform, Guide(platform))
}

func userPrompt(product model.Product, extra string) string {
	var b strings.Builder
	b.WriteString("상품 정보:\n")
	b.WriteString(describeProduct(product))
	fmt.Fprintf(&b, "\n추가 지시문(선택): %s\n", orNone(extra))
	b.WriteString("위 정보를 반영해 JSON(title, body)만 반환해줘.")
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

func orNone(s string) string {
	if s == "" {
		return "없음"
	}
	return s
}

func overrides(s model.LLMSettings) llm.Overrides {
	return llm.Overrides{Model: s.ModelName, Temperature: s.Temperature, APIKey: s.APIKey}
}
