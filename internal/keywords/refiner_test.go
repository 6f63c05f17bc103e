package keywords_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"promopilot.app/writer/common/llm"
	"promopilot.app/writer/internal/keywords"
	"promopilot.app/writer/internal/model"
)

func TestKeywords(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Keyword Refiner Suite")
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

var _ = Describe("Refiner", func() {
	var (
		mock    *mockLLM
		refiner *keywords.Refiner
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = &mockLLM{}
		refiner = keywords.NewRefiner(mock)
	})

	Context("when the model returns well-formed JSON", func() {
		It("uses the parsed fields", func() {
			mock.chatFn = func(_ context.Context, _ llm.Request) (string, error) {
				return `{"keyword":"손흥민","real_keyword":"손흥민 유니폼","reason":"굿즈 수요"}`, nil
			}

			result, err := refiner.Refine(ctx, []string{"손흥민", "냉면"}, model.LLMSettings{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Keyword).To(Equal("손흥민"))
			Expect(result.RealKeyword).To(Equal("손흥민 유니폼"))
			Expect(result.Reason).To(Equal("굿즈 수요"))
			Expect(result.Chosen()).To(Equal("손흥민 유니폼"))
		})

		It("repairs fenced output before parsing", func() {
			mock.chatFn = func(_ context.Context, _ llm.Request) (string, error) {
				return "```json\n{\"keyword\":\"냉면\",\"real_keyword\":\"냉면 밀키트\",\"reason\":\"여름 수요\"}\n```", nil
			}

			result, err := refiner.Refine(ctx, []string{"손흥민", "냉면"}, model.LLMSettings{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RealKeyword).To(Equal("냉면 밀키트"))
		})
	})

	Context("when the model output is not JSON", func() {
		It("falls back to the first candidate with the raw answer as reason", func() {
			mock.chatFn = func(_ context.Context, _ llm.Request) (string, error) {
				return "냉면이 좋겠네요", nil
			}

			result, err := refiner.Refine(ctx, []string{"손흥민", "냉면"}, model.LLMSettings{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Keyword).To(Equal("손흥민"))
			Expect(result.RealKeyword).To(Equal("손흥민"))
			Expect(result.Reason).To(Equal("냉면이 좋겠네요"))
		})
	})

	Context("when candidates are listed in the prompt", func() {
		It("includes every candidate and the addendum", func() {
			var captured llm.Request
			mock.chatFn = func(_ context.Context, req llm.Request) (string, error) {
				captured = req
				return `{"keyword":"a"}`, nil
			}

			_, err := refiner.Refine(ctx, []string{"손흥민", "냉면"}, model.LLMSettings{Prompt: "20대 대상"})
			Expect(err).NotTo(HaveOccurred())
			Expect(captured.UserPrompt).To(ContainSubstring("손흥민"))
			Expect(captured.UserPrompt).To(ContainSubstring("냉면"))
			Expect(captured.UserPrompt).To(ContainSubstring("20대 대상"))
		})
	})

	Context("when settings carry overrides", func() {
		It("passes them through to the gateway", func() {
			var captured llm.Request
			mock.chatFn = func(_ context.Context, req llm.Request) (string, error) {
				captured = req
				return `{}`, nil
			}

			settings := model.LLMSettings{ModelName: "gpt-4o", Temperature: llm.Temp(0.2), APIKey: "per-job"}
			_, err := refiner.Refine(ctx, []string{"손흥민"}, settings)
			Expect(err).NotTo(HaveOccurred())
			Expect(captured.Overrides.Model).To(Equal("gpt-4o"))
			Expect(*captured.Overrides.Temperature).To(Equal(0.2))
			Expect(captured.Overrides.APIKey).To(Equal("per-job"))
		})
	})

	Context("when the gateway fails", func() {
		It("propagates the error", func() {
			mock.chatFn = func(_ context.Context, _ llm.Request) (string, error) {
				return "", &llm.GatewayError{Message: "boom"}
			}

			_, err := refiner.Refine(ctx, []string{"손흥민"}, model.LLMSettings{})
			var gwErr *llm.GatewayError
			Expect(errors.As(err, &gwErr)).To(BeTrue())
		})
	})

	Context("with no candidates", func() {
		It("returns an error without calling the gateway", func() {
			called := false
			mock.chatFn = func(_ context.Context, _ llm.Request) (string, error) {
				called = true
				return "", nil
			}

			_, err := refiner.Refine(ctx, nil, model.LLMSettings{})
			Expect(err).To(HaveOccurred())
			Expect(called).To(BeFalse())
		})
	})
})
