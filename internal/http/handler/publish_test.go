package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"promopilot.app/writer/internal/http/handler"
	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/publish"
)

var _ = Describe("PublishHandler", func() {
	var (
		router    *gin.Engine
		publisher *mockPublisher
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		publisher = &mockPublisher{}
		h := handler.NewPublishHandler(publisher)
		router.POST("/publish", h.Publish)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/publish", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("publishes through the router and returns the post URL", func() {
		publisher.publishFn = func(_ context.Context, _ publish.Request) (publish.Result, error) {
			return publish.Result{Link: "https://twitter.com/i/web/status/5", Message: "게시물 발행 완료"}, nil
		}

		w := post(`{"title": "제목", "content": "본문", "channel": {"id": 1, "name": "X"}}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["status"]).To(Equal("success"))
		Expect(resp["url"]).To(ContainSubstring("/status/5"))

		Expect(publisher.requests).To(HaveLen(1))
		Expect(publisher.requests[0].Channel.Platform).To(Equal(model.PlatformX))
	})

	It("maps unsupported channels to 400", func() {
		publisher.publishFn = func(_ context.Context, req publish.Request) (publish.Result, error) {
			return publish.Result{}, &publish.ChannelError{Platform: req.Channel.Platform}
		}

		w := post(`{"title": "제목", "content": "본문", "channel": {"id": 1, "name": "telegram"}}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("maps adapter failures to 500", func() {
		publisher.publishFn = func(_ context.Context, _ publish.Request) (publish.Result, error) {
			return publish.Result{}, errors.New("editor broke")
		}

		w := post(`{"title": "제목", "content": "본문", "channel": {"id": 1, "name": "NAVER_MAIN"}}`)
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})

	It("rejects a request without content", func() {
		w := post(`{"title": "제목", "channel": {"id": 1, "name": "X"}}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(publisher.requests).To(BeEmpty())
	})
})
