// Package publish routes finished content to the channel's platform.
package publish

import (
	"context"
	"fmt"
	"strings"

	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/tracklog"
)

// ChannelError marks a platform the router cannot serve. It is a permanent
// condition: retrying the same channel cannot succeed.
type ChannelError struct {
	Platform model.Platform
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("unsupported channel platform: %s", e.Platform)
}

type Request struct {
	JobID   string
	UserID  string
	Title   string
	Body    string
	Channel model.Channel
}

type Result struct {
	Link    string
	Message string
}

// Adapter publishes one piece of content to a concrete platform.
type Adapter interface {
	Publish(ctx context.Context, req Request) (Result, error)
}

type Router struct {
	blog   Adapter
	social Adapter
	logs   *tracklog.Client
}

func NewRouter(blog, social Adapter, logs *tracklog.Client) *Router {
	return &Router{blog: blog, social: social, logs: logs}
}

// Publish dispatches on the channel's resolved platform. Blog-family
// platforms share the blog adapter; anything unknown is a ChannelError.
func (r *Router) Publish(ctx context.Context, req Request) (Result, error) {
	platform := req.Channel.Platform

	r.logs.Info(ctx, "upload", "업로드 시작", fmt.Sprintf("channel=%s", platform), req.UserID, req.JobID)

	var adapter Adapter
	switch {
	case strings.HasPrefix(string(platform), "naver"):
		adapter = r.blog
	case platform == model.PlatformX:
		adapter = r.social
	default:
		r.logs.Error(ctx, "upload", "지원하지 않는 채널", string(platform), req.UserID, req.JobID)
		return Result{}, &ChannelError{Platform: platform}
	}

	result, err := adapter.Publish(ctx, req)
	if err != nil {
		r.logs.Error(ctx, "upload", "업로드 실패", err.Error(), req.UserID, req.JobID)
		return Result{}, err
	}

	r.logs.Info(ctx, "upload", "업로드 완료", fmt.Sprintf("channel=%s", platform), req.UserID, req.JobID)
	return result, nil
}
