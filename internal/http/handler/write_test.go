package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"promopilot.app/writer/internal/http/handler"
	"promopilot.app/writer/internal/model"
)

var _ = Describe("WriteHandler", func() {
	var (
		router     *gin.Engine
		dispatcher *mockDispatcher
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		dispatcher = &mockDispatcher{}
		h := handler.NewWriteHandler(dispatcher)
		router.POST("/write", h.Write)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/write", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	validBody := `{
		"jobId": "job-9",
		"userId": 3,
		"keyword": "캠핑 의자",
		"llmSettings": {"modelName": "gpt-4o", "generationType": "AUTO"},
		"uploadChannels": {"id": 12, "name": "NAVER_MAIN", "naver_login_id": "blogger"}
	}`

	It("accepts a job with a bare 200 and returns before it runs", func() {
		w := post(validBody)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.Len()).To(BeZero())

		Expect(dispatcher.jobs).To(HaveLen(1))
		job := dispatcher.jobs[0]
		Expect(job.UserID).To(Equal("3"))
		Expect(job.Keyword).To(Equal("캠핑 의자"))
		Expect(job.Channel.Platform).To(Equal(model.PlatformNaverBlog))
		Expect(job.Channel.Blog).NotTo(BeNil())
		Expect(job.LLM.GenerationType).To(Equal(model.GenerationAuto))
	})

	It("rejects a request without a job id", func() {
		w := post(`{"llmSettings": {}, "uploadChannels": {"id": 1, "name": "X"}}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(dispatcher.jobs).To(BeEmpty())
	})

	It("rejects broken JSON", func() {
		w := post(`{`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 500 when dispatch fails", func() {
		dispatcher.dispatchFn = func(_ context.Context, _ model.WriteJob, _ string) error {
			return errors.New("stream down")
		}
		w := post(validBody)
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
