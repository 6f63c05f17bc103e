package router

import (
	"github.com/gin-gonic/gin"

	"promopilot.app/writer/internal/http/handler"
)

func PipelineRouter(router *gin.RouterGroup, handler *handler.PipelineHandler) {
	router.GET("/trends", handler.Trends)
	router.POST("/keywords/refine", handler.Refine)
	router.POST("/relevance", handler.Relevance)
	router.POST("/promo", handler.Promo)
	router.GET("/shop/search", handler.Search)
	router.POST("/llm/chat", handler.Chat)
}
