package dto

import "promopilot.app/writer/internal/model"

type TrendsResponse struct {
	Keywords []string `json:"keywords"`
}

type RefineRequest struct {
	Trends     []string       `json:"trends" binding:"required"`
	LLMSetting *LLMSettingDTO `json:"llm_setting,omitempty"`
}

type RefineResponse struct {
	Keyword     string `json:"keyword"`
	RealKeyword string `json:"real_keyword"`
	Reason      string `json:"reason"`
}

type RelevanceRequest struct {
	Keyword    string         `json:"keyword" binding:"required"`
	Product    model.Product  `json:"product" binding:"required"`
	LLMSetting *LLMSettingDTO `json:"llm_setting,omitempty"`
}

type RelevanceResponse struct {
	Keyword      string  `json:"keyword"`
	ProductTitle string  `json:"product_title"`
	Score        float64 `json:"score"`
	Reason       string  `json:"reason"`
}

type PromoRequest struct {
	Product    model.Product  `json:"product" binding:"required"`
	Platform   string         `json:"platform,omitempty"`
	LLMSetting *LLMSettingDTO `json:"llm_setting,omitempty"`
}

type PromoResponse struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Link     string `json:"link"`
	Platform string `json:"platform"`
}

type SearchResponse struct {
	Keyword  string          `json:"keyword"`
	Products []model.Product `json:"products"`
}

type ChatRequest struct {
	SystemPrompt string         `json:"system_prompt" binding:"required"`
	UserInput    string         `json:"user_input" binding:"required"`
	LLMSetting   *LLMSettingDTO `json:"llm_setting,omitempty"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}
