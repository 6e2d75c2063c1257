package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"soulmatch-service/internal/auth"
	"soulmatch-service/internal/config"
	"soulmatch-service/internal/db"
	"soulmatch-service/internal/handlers"
	"soulmatch-service/internal/insights"
	"soulmatch-service/internal/logger"
	"soulmatch-service/internal/middleware"
	"soulmatch-service/internal/observability"
	"soulmatch-service/internal/rabbitmq"
	"soulmatch-service/internal/repositories"
	"soulmatch-service/internal/telemetry"
	"soulmatch-service/internal/ws"
)

const serviceName = "soulmatch-service"

func main() {
	cfg := config.New()
	logger.InitFromConfig(cfg)

	ctx := context.Background()
	shutdownTracing := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
	})
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	database, err := db.Connect(cfg.DB.DSN)
	if err != nil {
		logger.Error("failed to connect to db", "error", err)
		return
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	defer publisher.Close()
	logger.Info("event publisher ready", "mode", rabbitmq.PublisherMode(publisher))

	if eventPublisher, err := observability.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange); err == nil {
		observability.SetPublisher(eventPublisher)
		defer eventPublisher.Close()
	} else {
		logger.Info("ws event publishing disabled", "reason", err)
	}

	audit := telemetry.NewAuditEmitter(publisher, "audit.logs", serviceName, cfg.Environment)

	userRepo := repositories.NewUserRepo(database)
	profileRepo := repositories.NewProfileRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	insightRepo := repositories.NewInsightRepo(database)

	authService := auth.NewService(userRepo, profileRepo, cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	generator := insights.NewHeuristicGenerator()
	hub := ws.NewHub()

	authHandler := handlers.NewAuthHandler(authService, audit)
	profileHandler := handlers.NewProfileHandler(profileRepo, audit)
	chatHandler := handlers.NewChatHandler(chatRepo, profileRepo, audit)
	messageHandler := handlers.NewMessageHandler(messageRepo, chatRepo, hub, audit)
	insightHandler := handlers.NewInsightHandler(insightRepo, messageRepo, chatRepo, generator, audit)
	chatWS := ws.NewChatSocketHandler(hub, chatRepo, authService)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/refresh", authHandler.Refresh)

	authMiddleware := middleware.AuthMiddleware(authService)

	router.POST("/profile", authMiddleware, profileHandler.Upsert)
	router.GET("/profile", authMiddleware, profileHandler.Get)

	router.POST("/chats", authMiddleware, chatHandler.Create)
	router.GET("/chats", authMiddleware, chatHandler.List)

	router.POST("/messages", authMiddleware, messageHandler.Send)
	router.GET("/messages", authMiddleware, messageHandler.List)

	router.POST("/insights", authMiddleware, insightHandler.Generate)
	router.GET("/insights", authMiddleware, insightHandler.List)

	router.GET("/ws/chats/:chat_id", chatWS.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server error", "error", err)
	}
}
