package category

import (
	"context"
	"testing"

	"promopilot.app/writer/common/llm"
	"promopilot.app/writer/internal/model"
)

type stubLLM struct {
	answer string
	err    error
}

func (s *stubLLM) Chat(_ context.Context, _ llm.Request) (string, error) {
	return s.answer, s.err
}

func (s *stubLLM) Model() string { return "stub" }

func TestParseCategories(t *testing.T) {
	raw := "# comment\n\n10 패션의류\n20 디지털/가전\n30\n"
	got := parseCategories(raw)
	if len(got) != 3 {
		t.Fatalf("got %d categories, want 3", len(got))
	}
	if got[0].ID != "10" || got[0].Description != "패션의류" {
		t.Errorf("first = %+v", got[0])
	}
	if got[2].ID != "30" || got[2].Description != "" {
		t.Errorf("id-only line = %+v", got[2])
	}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"category field", `{"category":"30"}`, "30"},
		{"id field", `{"id":"20"}`, "20"},
		{"label field", `{"label":"50"}`, "50"},
		{"fenced", "```json\n{\"category\":\"30\"}\n```", "30"},
		{"prose", "디지털 같아요", ""},
		{"empty value", `{"category":"  "}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseAnswer(tt.input); got != tt.want {
				t.Errorf("parseAnswer(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	product := model.Product{Title: "무선 마우스"}

	t.Run("valid answer", func(t *testing.T) {
		c := NewClassifier(&stubLLM{answer: `{"category":"30"}`})
		if got := c.Classify(context.Background(), product, model.LLMSettings{}); got != "30" {
			t.Errorf("got %q, want 30", got)
		}
	})

	t.Run("unparseable falls back to first category", func(t *testing.T) {
		c := NewClassifier(&stubLLM{answer: "글쎄요"})
		if got := c.Classify(context.Background(), product, model.LLMSettings{}); got != "10" {
			t.Errorf("got %q, want first category id 10", got)
		}
	})

	t.Run("gateway error falls back to first category", func(t *testing.T) {
		c := NewClassifier(&stubLLM{err: &llm.GatewayError{Message: "down"}})
		if got := c.Classify(context.Background(), product, model.LLMSettings{}); got != "10" {
			t.Errorf("got %q, want first category id 10", got)
		}
	})

	t.Run("empty category list returns zero", func(t *testing.T) {
		c := &Classifier{llm: &stubLLM{answer: `{"category":"30"}`}}
		if got := c.Classify(context.Background(), product, model.LLMSettings{}); got != "0" {
			t.Errorf("got %q, want 0", got)
		}
	})
}
