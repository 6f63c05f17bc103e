package dto

import (
	"testing"

	"promopilot.app/writer/internal/model"
)

func TestChannelDTOToChannel(t *testing.T) {
	t.Run("explicit channel field wins over the name", func(t *testing.T) {
		ch := ChannelDTO{ID: 3, Name: "메인 채널", Channel: "x"}.ToChannel()
		if ch.Platform != model.PlatformX {
			t.Errorf("platform = %q, want %q", ch.Platform, model.PlatformX)
		}
		if ch.ID != "3" {
			t.Errorf("id = %q, want \"3\"", ch.ID)
		}
	})

	t.Run("naver channel keeps only blog credentials", func(t *testing.T) {
		ch := ChannelDTO{
			ID:           1,
			Name:         "NAVER_MAIN",
			NaverLoginID: "blogger",
			NaverLoginPw: "pw",
			XConsumerKey: "should-be-dropped",
		}.ToChannel()

		if ch.Platform != model.PlatformNaverBlog {
			t.Fatalf("platform = %q", ch.Platform)
		}
		if ch.Blog == nil || ch.Blog.LoginID != "blogger" {
			t.Errorf("blog = %+v", ch.Blog)
		}
		if ch.Social != nil {
			t.Errorf("social credentials should not survive on a blog channel: %+v", ch.Social)
		}
	})

	t.Run("x channel keeps only social credentials", func(t *testing.T) {
		ch := ChannelDTO{
			ID:                 2,
			Name:               "twitter",
			XConsumerKey:       "ck",
			XConsumerSecret:    "cs",
			XAccessToken:       "at",
			XAccessTokenSecret: "ats",
		}.ToChannel()

		if ch.Platform != model.PlatformX {
			t.Fatalf("platform = %q", ch.Platform)
		}
		if ch.Social == nil || ch.Social.APIKey != "ck" || ch.Social.AccessTokenSecret != "ats" {
			t.Errorf("social = %+v", ch.Social)
		}
		if ch.Blog != nil {
			t.Errorf("blog credentials should not survive on a social channel: %+v", ch.Blog)
		}
	})

	t.Run("unknown platform passes through without credentials", func(t *testing.T) {
		ch := ChannelDTO{ID: 4, Name: "telegram"}.ToChannel()
		if ch.Platform != model.Platform("telegram") {
			t.Errorf("platform = %q", ch.Platform)
		}
		if ch.Blog != nil || ch.Social != nil {
			t.Error("unexpected credentials on unknown platform")
		}
	})
}

func TestWriteRequestToJob(t *testing.T) {
	t.Run("user id defaults to 1", func(t *testing.T) {
		job := WriteRequest{JobID: "j-1"}.ToJob()
		if job.UserID != "1" {
			t.Errorf("user id = %q, want \"1\"", job.UserID)
		}
	})

	t.Run("settings map through", func(t *testing.T) {
		temp := 0.4
		job := WriteRequest{
			JobID:   "j-2",
			UserID:  7,
			Keyword: "노트북",
			LLMSettings: LLMSettingDTO{
				ModelName:      "gpt-4o",
				Temperature:    &temp,
				GenerationType: "AUTO",
			},
		}.ToJob()

		if job.UserID != "7" || job.Keyword != "노트북" {
			t.Errorf("job = %+v", job)
		}
		if job.LLM.ModelName != "gpt-4o" || job.LLM.Temperature == nil || *job.LLM.Temperature != 0.4 {
			t.Errorf("llm = %+v", job.LLM)
		}
		if job.Mode() != model.GenerationAuto {
			t.Errorf("mode = %q", job.Mode())
		}
	})
}
