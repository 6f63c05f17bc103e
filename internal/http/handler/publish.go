package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"promopilot.app/writer/internal/http/dto"
	"promopilot.app/writer/internal/publish"
	"promopilot.app/writer/internal/write"
)

type PublishHandler struct {
	publisher write.Publisher
}

func NewPublishHandler(publisher write.Publisher) *PublishHandler {
	return &PublishHandler{publisher: publisher}
}

// Publish pushes content to a channel directly, outside the pipeline.
func (h *PublishHandler) Publish(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel := req.Channel.ToChannel()
	result, err := h.publisher.Publish(ctx, publish.Request{
		JobID:   req.JobID,
		UserID:  req.UserID,
		Title:   req.Title,
		Body:    req.Content,
		Channel: channel,
	})
	if err != nil {
		var chErr *publish.ChannelError
		if errors.As(err, &chErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": chErr.Error()})
			return
		}
		slog.ErrorContext(ctx, "publish failed", "error", err, "platform", channel.Platform)
		c.JSON(http.StatusInternalServerError, dto.PublishResponse{
			Platform: string(channel.Platform),
			Status:   "failed",
		})
		return
	}

	c.JSON(http.StatusOK, dto.PublishResponse{
		Platform: string(channel.Platform),
		Status:   "success",
		URL:      result.Link,
		Message:  result.Message,
	})
}
