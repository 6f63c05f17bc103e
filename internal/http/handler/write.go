package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"promopilot.app/writer/internal/http/dto"
	"promopilot.app/writer/internal/write"
)

type WriteHandler struct {
	dispatcher write.Dispatcher
}

func NewWriteHandler(dispatcher write.Dispatcher) *WriteHandler {
	return &WriteHandler{dispatcher: dispatcher}
}

// Write accepts a job and returns before it runs. Terminal job failures
// surface on the tracking log, never to this caller.
func (h *WriteHandler) Write(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid write request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var traceID string
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		traceID = spanCtx.TraceID().String()
	}

	job := req.ToJob()
	if err := h.dispatcher.Dispatch(ctx, job, traceID); err != nil {
		slog.ErrorContext(ctx, "failed to dispatch write job", "error", err, "job_id", job.JobID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to dispatch job"})
		return
	}

	// Acceptance is the status code alone; job progress is reported
	// through the tracking log, not this response.
	c.Status(http.StatusOK)
}
