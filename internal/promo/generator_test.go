package promo_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"promopilot.app/writer/common/llm"
	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/promo"
)

func TestPromo(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Promo Generator Suite")
}

type mockLLM struct {
	chatFn func(ctx context.Context, req llm.Request) (string, error)
}

func (m *mockLLM) Chat(ctx context.Context, req llm.Request) (string, error) {
	if m.chatFn != nil {
		return m.chatFn(ctx, req)
	}
	return "", nil
}

func (m *mockLLM) Model() string { return "mock" }

var _ = Describe("Generator", func() {
	var (
		mock    *mockLLM
		gen     *promo.Generator
		ctx     context.Context
		product model.Product
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = &mockLLM{}
		gen = promo.NewGenerator(mock)
		product = model.Product{Title: "무선 마우스", Link: "https://shop.example.com/1"}
	})

	It("parses title and body from JSON output", func() {
		mock.chatFn = func(_ context.Context, _ llm.Request) (string, error) {
			return `{"title":"가벼운 무선 마우스","body":"손목이 편한 선택입니다."}`, nil
		}

		content, err := gen.Generate(ctx, product, model.PlatformNaverBlog, model.LLMSettings{})
		Expect(err).NotTo(HaveOccurred())
		Expect(content.Title).To(Equal("가벼운 무선 마우스"))
		Expect(content.Body).To(Equal("손목이 편한 선택입니다."))
		Expect(content.Link).To(Equal(product.Link))
		Expect(content.Platform).To(Equal(model.PlatformNaverBlog))
	})

	It("falls back to raw body with empty title when output is not JSON", func() {
		mock.chatFn = func(_ context.Context, _ llm.Request) (string, error) {
			return "  이 마우스 정말 좋아요!  ", nil
		}

		content, err := gen.Generate(ctx, product, model.PlatformNaverBlog, model.LLMSettings{})
		Expect(err).NotTo(HaveOccurred())
		Expect(content.Title).To(BeEmpty())
		Expect(content.Body).To(Equal("이 마우스 정말 좋아요!"))
	})

	It("embeds the platform guide in the system prompt", func() {
		var captured llm.Request
		mock.chatFn = func(_ context.Context, req llm.Request) (string, error) {
			captured = req
			return `{"title":"t","body":"b"}`, nil
		}

		_, err := gen.Generate(ctx, product, model.PlatformX, model.LLMSettings{})
		Expect(err).NotTo(HaveOccurred())
		Expect(captured.SystemPrompt).To(ContainSubstring("280자"))
	})

	It("propagates gateway failures", func() {
		mock.chatFn = func(_ context.Context, _ llm.Request) (string, error) {
			return "", &llm.GatewayError{Message: "down"}
		}
		_, err := gen.Generate(ctx, product, model.PlatformNaverBlog, model.LLMSettings{})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Guide", func() {
	It("loads the blog guide", func() {
		Expect(promo.Guide(model.PlatformNaverBlog)).To(ContainSubstring("네이버 블로그"))
	})

	It("loads the social guide", func() {
		Expect(promo.Guide(model.PlatformX)).To(ContainSubstring("280자"))
	})

	It("falls back to the generic guide for unknown platforms", func() {
		Expect(promo.Guide(model.Platform("telegram"))).To(ContainSubstring("플랫폼 일반 규칙"))
	})
})
