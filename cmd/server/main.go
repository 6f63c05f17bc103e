package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"promopilot.app/writer/common/logger"
	"promopilot.app/writer/common/otel"
	"promopilot.app/writer/core/config"
	"promopilot.app/writer/internal/http/handler"
	"promopilot.app/writer/internal/http/middleware"
	httprouter "promopilot.app/writer/internal/http/router"
	"promopilot.app/writer/internal/queue"
	"promopilot.app/writer/internal/service"
	"promopilot.app/writer/internal/write"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "writer starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)

	services, err := service.NewServices(cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build services", "error", err)
		os.Exit(1)
	}

	// With a queue configured, accepted jobs go to the stream and the
	// worker runs them. Without one, they run in-process.
	var dispatcher write.Dispatcher
	if cfg.Queue.Enabled() {
		redisOpts, err := redis.ParseURL(cfg.Queue.RedisURL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "redis connected", "stream", cfg.Queue.RedisStream)

		producer := queue.NewRedisProducer(redisClient, cfg.Queue.RedisStream, nil)
		defer producer.Close()
		dispatcher = write.NewQueueDispatcher(producer)
	} else {
		slog.InfoContext(ctx, "no queue configured, jobs run in-process")
		dispatcher = write.NewInlineDispatcher(services.Write())
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, dispatcher)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, dispatcher write.Dispatcher) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, httprouter.Handlers{
		Write: handler.NewWriteHandler(dispatcher),
		Pipeline: handler.NewPipelineHandler(
			services.Trends(),
			services.Refiner(),
			services.Finder(),
			services.Scorer(),
			services.Generator(),
			services.LLM(),
		),
		Publish: handler.NewPublishHandler(services.Publisher()),
	})

	return router
}

const banner = `
██╗    ██╗██████╗ ██╗████████╗███████╗██████╗
██║    ██║██╔══██╗██║╚══██╔══╝██╔════╝██╔══██╗
██║ █╗ ██║██████╔╝██║   ██║   █████╗  ██████╔╝
██║███╗██║██╔══██╗██║   ██║   ██╔══╝  ██╔══██╗
╚███╔███╔╝██║  ██║██║   ██║   ███████╗██║  ██║
 ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝   ╚═╝   ╚══════╝╚═╝  ╚═╝
`
