// Package llm is a thin gateway over chat completions. It returns the raw
// assistant text; callers own parsing and repair of whatever comes back.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const maxAttempts = 3

type Client interface {
	Chat(ctx context.Context, req Request) (string, error)
	Model() string
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	Overrides    Overrides
}

// Overrides apply to a single call only. The configured client is never
// mutated, so concurrent jobs with different settings stay isolated.
type Overrides struct {
	Model       string
	Temperature *float64 // nil = model default, explicit 0 = deterministic
	APIKey      string
}

// GatewayError wraps upstream completion failures so callers can tell them
// apart from their own parse errors.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm gateway: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("llm gateway: %s", e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type client struct {
	openai openai.Client
	model  string
}

func New(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &client{
		openai: openai.NewClient(opts...),
		model:  model,
	}, nil
}

func (c *client) Chat(ctx context.Context, req Request) (string, error) {
	model := c.model
	if req.Overrides.Model != "" {
		model = req.Overrides.Model
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(req.UserPrompt),
	}
	if req.SystemPrompt != "" {
		messages = append([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
		}, messages...)
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: messages,
	}
	if req.Overrides.Temperature != nil {
		params.Temperature = openai.Float(*req.Overrides.Temperature)
	}

	var callOpts []option.RequestOption
	if req.Overrides.APIKey != "" {
		callOpts = append(callOpts, option.WithAPIKey(req.Overrides.APIKey))
	}

	var resp *openai.ChatCompletion
	var err error
	start := time.Now()
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err = c.openai.Chat.Completions.New(ctx, params, callOpts...)
		if err == nil || !IsRetryable(ctx, err) {
			break
		}
		select {
		case <-ctx.Done():
			return "", &GatewayError{Message: "chat completion", Err: ctx.Err()}
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}
	if err != nil {
		return "", &GatewayError{Message: "chat completion", Err: err}
	}

	slog.DebugContext(ctx, "llm chat completed",
		"model", model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", &GatewayError{Message: "no choices in response"}
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *client) Model() string {
	return c.model
}

// Temp is a helper to pass a temperature override inline.
func Temp(t float64) *float64 {
	return &t
}

func IsRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.DebugContext(ctx, "llm error not retryable: context cancelled or deadline exceeded")
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429:
			slog.WarnContext(ctx, "llm rate limited, will retry",
				"status_code", apiErr.StatusCode)
			return true
		case apiErr.StatusCode >= 500:
			slog.WarnContext(ctx, "llm server error, will retry",
				"status_code", apiErr.StatusCode)
			return true
		default:
			slog.ErrorContext(ctx, "llm client error, not retryable",
				"status_code", apiErr.StatusCode,
				"error_type", apiErr.Type,
				"error_code", apiErr.Code)
			return false
		}
	}

	// Network errors (no API response) are generally retryable
	slog.WarnContext(ctx, "llm network error, will retry", "error", err)
	return true
}
