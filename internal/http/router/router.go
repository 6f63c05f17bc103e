package router

import (
	"github.com/gin-gonic/gin"

	"promopilot.app/writer/internal/http/handler"
)

type Handlers struct {
	Write    *handler.WriteHandler
	Pipeline *handler.PipelineHandler
	Publish  *handler.PublishHandler
}

func SetupRoutes(router *gin.Engine, handlers Handlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		WriteRouter(v1.Group("/write"), handlers.Write)
		PipelineRouter(v1, handlers.Pipeline)
		PublishRouter(v1.Group("/publish"), handlers.Publish)
	}
}
