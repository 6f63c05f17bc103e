package router

import (
	"github.com/gin-gonic/gin"

	"promopilot.app/writer/internal/http/handler"
)

func WriteRouter(router *gin.RouterGroup, handler *handler.WriteHandler) {
	router.POST("", handler.Write)
}
