// Package category assigns a shop category ID to a product for the content
// report. The category list is embedded; classification failures fall back
// to the first listed category.
package category

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"promopilot.app/writer/common/llm"
	"promopilot.app/writer/common/textrepair"
	"promopilot.app/writer/internal/model"
)

//go:embed categories.txt
var categoriesFile string

const systemPrompt = `주어진 상품에 가장 적합한 카테고리를 선택하고 JSON으로 반환한다. 출력은 {"category": "카테고리ID"} 한 개만 포함한다.`

type Category struct {
	ID          string
	Description string
}

type Classifier struct {
	llm        llm.Client
	categories []Category
}

func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{
		llm:        client,
		categories: parseCategories(categoriesFile),
	}
}

// Classify picks one category ID. With an empty list it returns "0"; any
// parse trouble returns the first category instead of an error so the
// report always carries something usable.
func (c *Classifier) Classify(ctx context.Context, product model.Product, settings model.LLMSettings) string {
	if len(c.categories) == 0 {
		return "0"
	}

	answer, err := c.llm.Chat(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   c.userPrompt(product),
		Overrides:    llm.Overrides{Model: settings.ModelName, Temperature: settings.Temperature, APIKey: settings.APIKey},
	})
	if err != nil {
		slog.WarnContext(ctx, "category classification failed", "error", err)
		return c.categories[0].ID
	}

	if id := parseAnswer(answer); id != "" {
		return id
	}
	return c.categories[0].ID
}

func (c *Classifier) userPrompt(p model.Product) string {
	var b strings.Builder
	b.WriteString("상품 정보를 보고 아래 카테고리 중 하나를 골라 JSON(category)로만 알려줘.\n카테고리 목록:\n")
	for _, cat := range c.categories {
		fmt.Fprintf(&b, "- %s: %s\n", cat.ID, cat.Description)
	}
	b.WriteString("\n상품:\n")
	fmt.Fprintf(&b, "- 이름: %s\n", p.Title)
	if p.Price != nil {
		fmt.Fprintf(&b, "- 가격: %v\n", *p.Price)
	} else {
		b.WriteString("- 가격: 알 수 없음\n")
	}
	fmt.Fprintf(&b, "- 링크: %s\n", p.Link)
	if p.Thumbnail != "" {
		fmt.Fprintf(&b, "- 썸네일: %s\n", p.Thumbnail)
	} else {
		b.WriteString("- 썸네일: 없음\n")
	}
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

// parseAnswer accepts category, id or label fields since models drift
// between them.
func parseAnswer(answer string) string {
	cleaned, ok := textrepair.Repair(answer)
	if !ok {
		return ""
	}
	var parsed struct {
		Category string `json:"category"`
		ID       string `json:"id"`
		Label    string `json:"label"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return ""
	}
	for _, v := range []string{parsed.Category, parsed.ID, parsed.Label} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// parseCategories reads "id description" lines, skipping blanks and
// comments.
func parseCategories(raw string) []Category {
	var categories []Category
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, desc, _ := strings.Cut(line, " ")
		categories = append(categories, Category{
			ID:          id,
			Description: strings.TrimSpace(desc),
		})
	}
	return categories
}
