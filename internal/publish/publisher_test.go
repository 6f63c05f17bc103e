package publish_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/publish"
)

func TestPublish(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Publish Router Suite")
}

type stubAdapter struct {
	called bool
	result publish.Result
	err    error
}

func (s *stubAdapter) Publish(_ context.Context, _ publish.Request) (publish.Result, error) {
	s.called = true
	return s.result, s.err
}

var _ = Describe("Router", func() {
	var (
		blog   *stubAdapter
		social *stubAdapter
		router *publish.Router
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		blog = &stubAdapter{result: publish.Result{Link: "https://blog.naver.com/PostView.naver?logNo=1"}}
		social = &stubAdapter{result: publish.Result{Link: "https://twitter.com/i/web/status/1"}}
		router = publish.NewRouter(blog, social, nil)
	})

	request := func(name string) publish.Request {
		return publish.Request{
			JobID: "job-1",
			Title: "제목",
			Body:  "본문",
			Channel: model.Channel{
				ID:       "ch-1",
				Name:     name,
				Platform: model.ResolvePlatform(name),
			},
		}
	}

	It("routes naver channels to the blog adapter", func() {
		result, err := router.Publish(ctx, request("NAVER_MAIN"))
		Expect(err).NotTo(HaveOccurred())
		Expect(blog.called).To(BeTrue())
		Expect(social.called).To(BeFalse())
		Expect(result.Link).To(ContainSubstring("blog.naver.com"))
	})

	It("routes x channels to the social adapter", func() {
		_, err := router.Publish(ctx, request("X"))
		Expect(err).NotTo(HaveOccurred())
		Expect(social.called).To(BeTrue())
		Expect(blog.called).To(BeFalse())
	})

	It("routes twitter alias to the social adapter", func() {
		_, err := router.Publish(ctx, request("twitter"))
		Expect(err).NotTo(HaveOccurred())
		Expect(social.called).To(BeTrue())
	})

	It("rejects unknown platforms with ChannelError", func() {
		_, err := router.Publish(ctx, request("telegram"))
		var chErr *publish.ChannelError
		Expect(errors.As(err, &chErr)).To(BeTrue())
		Expect(chErr.Platform).To(Equal(model.Platform("telegram")))
		Expect(blog.called).To(BeFalse())
		Expect(social.called).To(BeFalse())
	})

	It("propagates adapter failures", func() {
		blog.err = errors.New("editor broke")
		_, err := router.Publish(ctx, request("naver_blog"))
		Expect(err).To(MatchError(ContainSubstring("editor broke")))
	})
})
