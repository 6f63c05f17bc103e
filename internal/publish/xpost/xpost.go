// Package xpost publishes content to X through the v2 tweets endpoint with
// OAuth1 user-context signing.
package xpost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/dghubble/oauth1"

	"promopilot.app/writer/core/config"
	"promopilot.app/writer/internal/publish"
)

const (
	tweetsURL   = "https://api.twitter.com/2/tweets"
	statusLimit = 280
)

var whitespace = regexp.MustCompile(`\s+`)

// BuildStatus joins title and body into a single status: whitespace
// collapsed to single spaces and the result capped at limit runes with a
// trailing ellipsis.
func BuildStatus(title, body string, limit int) string {
	text := strings.TrimSpace(title + "\n\n" + body)
	text = whitespace.ReplaceAllString(text, " ")

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

// Adapter posts tweets. Credentials resolve per request: channel first,
// then the configured fallback account.
type Adapter struct {
	fallback config.XConfig
}

func New(cfg config.XConfig) *Adapter {
	return &Adapter{fallback: cfg}
}

func (a *Adapter) Publish(ctx context.Context, req publish.Request) (publish.Result, error) {
	creds := a.fallback
	if social := req.Channel.Social; social != nil {
		if social.APIKey != "" {
			creds.APIKey = social.APIKey
		}
		if social.APIKeySecret != "" {
			creds.APIKeySecret = social.APIKeySecret
		}
		if social.AccessToken != "" {
			creds.AccessToken = social.AccessToken
		}
		if social.AccessTokenSecret != "" {
			creds.AccessTokenSecret = social.AccessTokenSecret
		}
	}
	if !creds.Enabled() {
		return publish.Result{}, fmt.Errorf("xpost: missing OAuth1 credentials")
	}

	status := BuildStatus(req.Title, req.Body, statusLimit)

	oauthCfg := oauth1.NewConfig(creds.APIKey, creds.APIKeySecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	client := oauthCfg.Client(ctx, token)

	payload, err := json.Marshal(map[string]string{"text": status})
	if err != nil {
		return publish.Result{}, fmt.Errorf("xpost: marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, tweetsURL, strings.NewReader(string(payload)))
	if err != nil {
		return publish.Result{}, fmt.Errorf("xpost: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return publish.Result{}, fmt.Errorf("xpost: post tweet: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return publish.Result{}, fmt.Errorf("xpost: read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return publish.Result{}, fmt.Errorf("xpost: tweet rejected: status %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Data.ID == "" {
		return publish.Result{}, fmt.Errorf("xpost: tweet ID missing in response: %s", body)
	}

	return publish.Result{
		Link:    fmt.Sprintf("https://twitter.com/i/web/status/%s", parsed.Data.ID),
		Message: "게시물 발행 완료",
	}, nil
}
