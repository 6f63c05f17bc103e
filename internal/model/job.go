package model

import "strings"

type GenerationType string

const (
	GenerationAuto   GenerationType = "AUTO"
	GenerationManual GenerationType = "MANUAL"
)

type ContentStatus string

const (
	ContentStatusApproved ContentStatus = "APPROVED"
	ContentStatusPending  ContentStatus = "PENDING"
)

// LLMSettings are per-job overrides for the completion gateway plus the
// free-form prompt addendum appended to generation prompts.
type LLMSettings struct {
	ModelName      string         `json:"model_name,omitempty"`
	Temperature    *float64       `json:"temperature,omitempty"`
	Prompt         string         `json:"prompt,omitempty"`
	APIKey         string         `json:"api_key,omitempty"`
	GenerationType GenerationType `json:"generation_type,omitempty"`
}

// WriteJob is the unit of work flowing from intake through the pipeline.
// Keyword, when set by the caller, is used as-is without refinement.
type WriteJob struct {
	JobID   string      `json:"job_id"`
	UserID  string      `json:"user_id"`
	Keyword string      `json:"keyword,omitempty"`
	Channel Channel     `json:"channel"`
	LLM     LLMSettings `json:"llm"`
}

// Mode returns the effective generation type, defaulting to MANUAL.
// Callers send the value in mixed case, so the comparison folds case.
func (j WriteJob) Mode() GenerationType {
	if strings.EqualFold(string(j.LLM.GenerationType), string(GenerationAuto)) {
		return GenerationAuto
	}
	return GenerationManual
}

// WriteSummary is what a completed job reports back.
type WriteSummary struct {
	JobID        string `json:"job_id"`
	Keyword      string `json:"keyword"`
	ProductTitle string `json:"product_title"`
	Link         string `json:"link"`
}
