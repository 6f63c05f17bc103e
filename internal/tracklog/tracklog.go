// Package tracklog posts pipeline progress entries to the external tracking
// service. Delivery is best effort: a job never fails because a log entry
// could not be sent.
package tracklog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"promopilot.app/writer/core/config"
)

type LogType string

const (
	TypeInfo  LogType = "INFO"
	TypeWarn  LogType = "WARN"
	TypeError LogType = "ERROR"
)

// Entry mirrors the tracking service's log schema. LoggedDate is filled in
// at send time.
type Entry struct {
	UserID     string  `json:"userId"`
	LogType    LogType `json:"logType"`
	Process    string  `json:"loggedProcess"`
	LoggedDate string  `json:"loggedDate"`
	Message    string  `json:"message"`
	Submessage string  `json:"submessage"`
	JobID      string  `json:"jobId"`
}

type Client struct {
	baseURL string
	source  string
	http    *http.Client
}

func New(cfg config.TrackerConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		source:  cfg.Source,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Send posts one entry and logs it locally. Failures are logged and
// swallowed; when no tracker is configured only the local log remains.
func (c *Client) Send(ctx context.Context, e Entry) {
	if e.LogType != TypeInfo && e.LogType != TypeWarn && e.LogType != TypeError {
		e.LogType = TypeInfo
	}
	if e.Process == "" && c != nil {
		e.Process = c.source
	}
	e.LoggedDate = time.Now().UTC().Format("2006-01-02T15:04:05.000")

	level := slog.LevelInfo
	switch e.LogType {
	case TypeWarn:
		level = slog.LevelWarn
	case TypeError:
		level = slog.LevelError
	}
	slog.Log(ctx, level, e.Message,
		"process", e.Process,
		"submessage", e.Submessage,
		"job_id", e.JobID)

	if c == nil || c.baseURL == "" {
		return
	}

	body, err := json.Marshal(e)
	if err != nil {
		slog.WarnContext(ctx, "tracklog marshal failed", "error", err)
		return
	}

	url := c.baseURL + "/api/log"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		slog.WarnContext(ctx, "tracklog request build failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "tracklog delivery failed", "error", err, "url", url)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		slog.WarnContext(ctx, "tracklog delivery rejected",
			"status", resp.StatusCode, "url", url)
	}
}

// Info, Warn and Error are shorthand senders used throughout the pipeline.

func (c *Client) Info(ctx context.Context, process, message, submessage, userID, jobID string) {
	c.Send(ctx, Entry{UserID: userID, LogType: TypeInfo, Process: process, Message: message, Submessage: submessage, JobID: jobID})
}

func (c *Client) Warn(ctx context.Context, process, message, submessage, userID, jobID string) {
	c.Send(ctx, Entry{UserID: userID, LogType: TypeWarn, Process: process, Message: message, Submessage: submessage, JobID: jobID})
}

func (c *Client) Error(ctx context.Context, process, message, submessage, userID, jobID string) {
	c.Send(ctx, Entry{UserID: userID, LogType: TypeError, Process: process, Message: message, Submessage: submessage, JobID: jobID})
}
