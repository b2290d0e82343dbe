// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/config"
	"github.com/caioalcolea/talkhub-mcp-server/internal/handler"
	"github.com/caioalcolea/talkhub-mcp-server/internal/middleware"
	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/internal/repository"
	"github.com/caioalcolea/talkhub-mcp-server/internal/service"
	"github.com/caioalcolea/talkhub-mcp-server/internal/ws"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/database"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/es"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/events"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/kafka"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/storage"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/token"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库和 Redis
	database.InitMySQL(cfg.Database.MySQL.DSN)
	if err := database.DB.AutoMigrate(
		&model.ChatSession{},
		&model.Conversation{},
		&model.UserProfile{},
		&model.ContextNote{},
		&model.AnalyticsEventRecord{},
	); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}

	// 4. 初始化 Repository
	sessionRepo := repository.NewSessionRepository(database.DB)
	conversationRepo := repository.NewConversationRepository(database.DB)
	profileRepo := repository.NewProfileRepository(database.DB)
	noteRepo := repository.NewContextNoteRepository(database.DB)
	eventRepo := repository.NewEventRepository(database.DB)
	cacheRepo := repository.NewCacheRepository(database.RDB)

	// 5. 事件链路：Kafka 生产者（可选）+ 进程内 WebSocket 广播
	hub := ws.NewHub()
	publishers := []events.Publisher{hub}
	producer := kafka.NewProducer(cfg.Kafka)
	if producer != nil {
		defer producer.Close()
		publishers = append(publishers, producer)
		// 后台消费者把事件流落盘到 analytics_events 表
		go kafka.StartConsumer(cfg.Kafka, eventRepo)
	}

	// 6. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpireHours)
	contextService := service.NewContextService(
		profileRepo,
		conversationRepo,
		noteRepo,
		cacheRepo,
		time.Duration(cfg.Cache.ContextTTLSeconds)*time.Second,
		cfg.Context.MaxConversations,
	)
	sessionService := service.NewSessionService(
		sessionRepo,
		cacheRepo,
		time.Duration(cfg.Cache.SessionTTLSeconds)*time.Second,
		publishers...,
	)
	conversationService := service.NewConversationService(
		conversationRepo,
		sessionRepo,
		contextService,
		cfg.Elasticsearch.IndexName,
		publishers...,
	)
	profileService := service.NewProfileService(profileRepo, contextService, publishers...)
	analyticsService := service.NewAnalyticsService(conversationRepo, cfg.Elasticsearch, cfg.MinIO)

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.Use(middleware.RateLimiter(
		database.RDB,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
		cfg.RateLimit.MaxRequests,
	))

	healthHandler := handler.NewHealthHandler(cacheRepo)

	// 8. 注册路由
	r.GET("/api/health", healthHandler.Check)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/test", healthHandler.Test)

		// Auth 路由组，无需认证
		auth := apiV1.Group("/auth")
		{
			auth.POST("/token", handler.NewAuthHandler(jwtManager, cfg.Auth.AdminSecretHash).IssueToken)
		}

		// MCP 工具路由组，需要认证
		mcp := apiV1.Group("/mcp")
		mcp.Use(middleware.AuthMiddleware(jwtManager))
		{
			mcp.GET("/tools", handler.NewToolsHandler().List)
			mcp.POST("/create_chat_session", handler.NewSessionHandler(sessionService).CreateSession)
			mcp.GET("/sessions/:sessionId", handler.NewSessionHandler(sessionService).GetSession)
			mcp.GET("/get_user_context/:userId", handler.NewContextHandler(contextService).GetUserContext)
			mcp.POST("/add_context_note", handler.NewContextHandler(contextService).AddContextNote)
			mcp.POST("/save_conversation", handler.NewConversationHandler(conversationService).SaveConversation)
			mcp.PUT("/update_user_profile", handler.NewProfileHandler(profileService).UpdateProfile)
			mcp.GET("/get_conversation_analytics", handler.NewAnalyticsHandler(analyticsService).GetAnalytics)
			mcp.POST("/export_analytics", handler.NewAnalyticsHandler(analyticsService).ExportAnalytics)
		}

		// 管理员路由组，需要同时通过认证和管理员授权两个中间件
		admin := apiV1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtManager), middleware.AdminAuthMiddleware())
		{
			admin.GET("/conversations/search", handler.NewSearchHandler(analyticsService).SearchConversations)
			admin.GET("/events/live", handler.NewEventsHandler(hub).LiveEvents)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
