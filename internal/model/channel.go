package model

import "strings"

type Platform string

const (
	PlatformNaverBlog Platform = "naver_blog"
	PlatformX         Platform = "x"
)

// Channel is the resolved upload destination for a job. Platform is decided
// once at intake; exactly one credential set is populated for the platforms
// that need one, so downstream code never probes optional fields.
type Channel struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Platform Platform           `json:"platform"`
	Blog     *BlogCredentials   `json:"blog,omitempty"`
	Social   *SocialCredentials `json:"social,omitempty"`
}

type BlogCredentials struct {
	LoginID string `json:"login_id"`
	LoginPw string `json:"login_pw"`
	BlogID  string `json:"blog_id"`
}

type SocialCredentials struct {
	APIKey            string `json:"api_key"`
	APIKeySecret      string `json:"api_key_secret"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`
}

// ResolvePlatform maps a free-form channel name to a platform. Names
// containing "naver" publish to the blog, "x" and "twitter" to the social
// feed. Anything else passes through lowercased so the publish router can
// reject it explicitly. An empty name defaults to the blog.
func ResolvePlatform(name string) Platform {
	lowered := strings.ToLower(strings.TrimSpace(name))
	switch {
	case lowered == "":
		return PlatformNaverBlog
	case strings.Contains(lowered, "naver"):
		return PlatformNaverBlog
	case lowered == "x" || lowered == "twitter":
		return PlatformX
	default:
		return Platform(lowered)
	}
}
