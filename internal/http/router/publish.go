package router

import (
	"github.com/gin-gonic/gin"

	"promopilot.app/writer/internal/http/handler"
)

func PublishRouter(router *gin.RouterGroup, handler *handler.PublishHandler) {
	router.POST("", handler.Publish)
}
