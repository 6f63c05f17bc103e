package llm_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"promopilot.app/writer/common/llm"
)

var _ = Describe("GatewayError", func() {
	It("includes the wrapped error in its message", func() {
		cause := errors.New("connection refused")
		err := &llm.GatewayError{Message: "chat completion", Err: cause}
		Expect(err.Error()).To(ContainSubstring("chat completion"))
		Expect(err.Error()).To(ContainSubstring("connection refused"))
	})

	It("formats without a cause", func() {
		err := &llm.GatewayError{Message: "no choices in response"}
		Expect(err.Error()).To(Equal("llm gateway: no choices in response"))
	})

	It("unwraps to the cause", func() {
		cause := errors.New("boom")
		err := &llm.GatewayError{Message: "chat completion", Err: cause}
		Expect(errors.Is(err, cause)).To(BeTrue())
	})

	It("is matchable with errors.As through wrapping", func() {
		var gwErr *llm.GatewayError
		wrapped := errors.Join(errors.New("outer"), &llm.GatewayError{Message: "inner"})
		Expect(errors.As(wrapped, &gwErr)).To(BeTrue())
		Expect(gwErr.Message).To(Equal("inner"))
	})
})

var _ = Describe("New", func() {
	It("rejects a missing API key", func() {
		_, err := llm.New(llm.Config{})
		Expect(err).To(HaveOccurred())
	})

	It("defaults the model when unset", func() {
		c, err := llm.New(llm.Config{APIKey: "test-key"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Model()).To(Equal("gpt-4o-mini"))
	})

	It("keeps the configured model", func() {
		c, err := llm.New(llm.Config{APIKey: "test-key", Model: "gpt-4o"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Model()).To(Equal("gpt-4o"))
	})
})
