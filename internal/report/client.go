// Package report delivers finished content records to the external tracking
// service and builds the redirect links embedded in generated bodies.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"promopilot.app/writer/core/config"
	"promopilot.app/writer/internal/model"
)

// ContentRecord is the payload posted to /api/content when a job finishes.
type ContentRecord struct {
	JobID           string               `json:"jobId"`
	UploadChannelID string               `json:"uploadChannelId"`
	UserID          string               `json:"userId"`
	Title           string               `json:"title"`
	Body            string               `json:"body"`
	Status          model.ContentStatus  `json:"status"`
	GenerationType  model.GenerationType `json:"generationType"`
	Link            string               `json:"link"`
	Keyword         string               `json:"keyword"`
	Product         ProductRecord        `json:"product"`
}

type ProductRecord struct {
	Title     string  `json:"title"`
	Link      string  `json:"link"`
	Thumbnail string  `json:"thumbnail"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
}

// NewProductRecord flattens a product for reporting. A missing price is
// reported as 0.
func NewProductRecord(p model.Product) ProductRecord {
	var price float64
	if p.Price != nil {
		price = *p.Price
	}
	return ProductRecord{
		Title:     p.Title,
		Link:      p.Link,
		Thumbnail: p.Thumbnail,
		Price:     price,
		Category:  p.Category,
	}
}

type Client struct {
	host string
	http *http.Client
}

func New(cfg config.TrackerConfig) *Client {
	return &Client{
		host: hostOf(cfg.BaseURL),
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// PostContent sends one content record. Failures are logged and swallowed:
// reporting is fire-and-forget and must never abort a finished job.
func (c *Client) PostContent(ctx context.Context, rec ContentRecord) {
	if c == nil || c.host == "" {
		return
	}

	body, err := json.Marshal(rec)
	if err != nil {
		slog.WarnContext(ctx, "content record marshal failed", "error", err)
		return
	}

	endpoint := c.host + "/api/content"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		slog.WarnContext(ctx, "content record request build failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "content record delivery failed", "error", err, "url", endpoint)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		slog.WarnContext(ctx, "content record rejected",
			"status", resp.StatusCode, "url", endpoint)
	}
}

// RedirectURL builds the tracking link substituted into generated bodies.
func (c *Client) RedirectURL(jobID string) string {
	if c == nil || c.host == "" {
		return ""
	}
	return fmt.Sprintf("%s/api/link?jobId=%s", c.host, url.QueryEscape(jobID))
}

func hostOf(base string) string {
	if base == "" {
		return ""
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
