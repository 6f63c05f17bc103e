package naverblog

import (
	"testing"

	"promopilot.app/writer/core/config"
	"promopilot.app/writer/internal/model"
)

func TestResolveCredentials(t *testing.T) {
	fallback := config.NaverConfig{LoginID: "env-id", LoginPw: "env-pw", BlogID: "env-blog"}
	a := &Adapter{fallback: fallback}

	t.Run("channel credentials win", func(t *testing.T) {
		id, pw, blog := a.resolveCredentials(&model.BlogCredentials{
			LoginID: "ch-id", LoginPw: "ch-pw", BlogID: "ch-blog",
		})
		if id != "ch-id" || pw != "ch-pw" || blog != "ch-blog" {
			t.Errorf("got %q/%q/%q", id, pw, blog)
		}
	})

	t.Run("missing fields fall back to config", func(t *testing.T) {
		id, pw, blog := a.resolveCredentials(&model.BlogCredentials{LoginID: "ch-id"})
		if id != "ch-id" || pw != "env-pw" || blog != "env-blog" {
			t.Errorf("got %q/%q/%q", id, pw, blog)
		}
	})

	t.Run("nil channel uses config", func(t *testing.T) {
		id, pw, blog := a.resolveCredentials(nil)
		if id != "env-id" || pw != "env-pw" || blog != "env-blog" {
			t.Errorf("got %q/%q/%q", id, pw, blog)
		}
	})

	t.Run("blog id defaults to login id", func(t *testing.T) {
		bare := &Adapter{}
		id, _, blog := bare.resolveCredentials(&model.BlogCredentials{LoginID: "me", LoginPw: "pw"})
		if id != "me" || blog != "me" {
			t.Errorf("got id=%q blog=%q", id, blog)
		}
	})
}
