// Package dto maps the external JSON wire shapes onto internal models. The
// field casing follows what callers already send.
package dto

import (
	"strconv"

	"promopilot.app/writer/internal/model"
)

// LLMSettingDTO carries per-job generation overrides. Unknown extra fields
// from the caller's settings records are ignored.
type LLMSettingDTO struct {
	ID             int64    `json:"id,omitempty"`
	Name           string   `json:"name,omitempty"`
	ModelName      string   `json:"modelName,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	Prompt         string   `json:"prompt,omitempty"`
	APIKey         string   `json:"apiKey,omitempty"`
	GenerationType string   `json:"generationType,omitempty"`
}

func (d *LLMSettingDTO) ToSettings() model.LLMSettings {
	if d == nil {
		return model.LLMSettings{}
	}
	return model.LLMSettings{
		ModelName:      d.ModelName,
		Temperature:    d.Temperature,
		Prompt:         d.Prompt,
		APIKey:         d.APIKey,
		GenerationType: model.GenerationType(d.GenerationType),
	}
}

// ChannelDTO is the caller's upload channel record. Credential fields are
// per platform; ToChannel keeps only the set the resolved platform needs.
type ChannelDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Channel string `json:"channel,omitempty"`

	NaverLoginID string `json:"naver_login_id,omitempty"`
	NaverLoginPw string `json:"naver_login_pw,omitempty"`
	NaverBlogID  string `json:"naver_blog_id,omitempty"`

	XConsumerKey       string `json:"x_consumer_key,omitempty"`
	XConsumerSecret    string `json:"x_consumer_secret,omitempty"`
	XAccessToken       string `json:"x_access_token,omitempty"`
	XAccessTokenSecret string `json:"x_access_token_secret,omitempty"`
}

// ToChannel resolves the platform once. The explicit channel field wins
// over the display name.
func (d ChannelDTO) ToChannel() model.Channel {
	source := d.Channel
	if source == "" {
		source = d.Name
	}
	ch := model.Channel{
		ID:       strconv.FormatInt(d.ID, 10),
		Name:     d.Name,
		Platform: model.ResolvePlatform(source),
	}
	switch ch.Platform {
	case model.PlatformNaverBlog:
		if d.NaverLoginID != "" || d.NaverLoginPw != "" || d.NaverBlogID != "" {
			ch.Blog = &model.BlogCredentials{
				LoginID: d.NaverLoginID,
				LoginPw: d.NaverLoginPw,
				BlogID:  d.NaverBlogID,
			}
		}
	case model.PlatformX:
		if d.XConsumerKey != "" || d.XAccessToken != "" {
			ch.Social = &model.SocialCredentials{
				APIKey:            d.XConsumerKey,
				APIKeySecret:      d.XConsumerSecret,
				AccessToken:       d.XAccessToken,
				AccessTokenSecret: d.XAccessTokenSecret,
			}
		}
	}
	return ch
}

type WriteRequest struct {
	UserID         int64         `json:"userId"`
	JobID          string        `json:"jobId" binding:"required"`
	Keyword        string        `json:"keyword,omitempty"`
	LLMSettings    LLMSettingDTO `json:"llmSettings" binding:"required"`
	UploadChannels ChannelDTO    `json:"uploadChannels" binding:"required"`
}

// ToJob builds the internal job. UserID defaults to 1 like the callers
// expect when the field is omitted.
func (r WriteRequest) ToJob() model.WriteJob {
	userID := r.UserID
	if userID <= 0 {
		userID = 1
	}
	return model.WriteJob{
		JobID:   r.JobID,
		UserID:  strconv.FormatInt(userID, 10),
		Keyword: r.Keyword,
		Channel: r.UploadChannels.ToChannel(),
		LLM:     r.LLMSettings.ToSettings(),
	}
}
