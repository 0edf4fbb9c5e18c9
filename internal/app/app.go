package app

import (
	"context"
	"log"
	"mcq_quiz_backend/internal/config"
	"mcq_quiz_backend/internal/controller"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/service"
	"mcq_quiz_backend/pkg/database"
	"mcq_quiz_backend/pkg/logger"
	"mcq_quiz_backend/pkg/monitoring"
	"mcq_quiz_backend/pkg/security"
	"mcq_quiz_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	tracer *sdktrace.TracerProvider
}

type services struct {
	auth     *service.AuthService
	storage  *service.StorageService
	category *service.CategoryService
	mcq      *service.MCQService
	quiz     *service.QuizService
}

type controllers struct {
	auth     *controller.AuthController
	category *controller.CategoryController
	mcq      *controller.MCQController
	quiz     *controller.QuizController
	health   *controller.HealthController
}

// ApplyConfig 配置热更新入口，目前只有日志级别支持运行时调整
func (a *App) ApplyConfig(cfg *config.Config) {
	logger.SetLevel(cfg.Server.Mode)
	logger.Log.Info("Configuration reloaded", zap.String("mode", cfg.Server.Mode))
}

func initServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	uow := repository.NewUnitOfWork(db)
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.auth = service.NewAuthService(uow, cfg)
	s.category = service.NewCategoryService(uow)
	s.mcq = service.NewMCQService(uow, s.storage)
	s.quiz = service.NewQuizService(uow, service.NewReservationStore(rdb, cfg.Quiz.ReservationTTL))

	return s
}

func initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		category: controller.NewCategoryController(s.category),
		mcq:      controller.NewMCQController(s.mcq),
		quiz:     controller.NewQuizController(s.quiz),
		health:   controller.NewHealthController(db, rdb),
	}
}

func setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 && cfg.RateLimit.WindowMinutes > 0 {
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute, "/health", "/metrics"))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewRouter 组装路由，db 与 rdb 由调用方创建（rdb 可为 nil）
func NewRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	s := initServices(cfg, db, rdb)
	c := initControllers(s, db, rdb)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	setupMiddlewares(router, cfg)
	registerRoutes(router, c, s.auth)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}
	return router
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	gin.SetMode(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
	if err := database.SeedAdmin(db, cfg.Auth.BootstrapAdmin); err != nil {
		logger.Log.Fatal("Failed to seed bootstrap admin", zap.Error(err))
	}

	app := &App{Config: cfg, DB: db}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	app.Redis = rdb

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.Router = NewRouter(cfg, db, rdb)
	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	a.Close(ctx)
	log.Println("Server exiting")
}

// Close 释放数据库、Redis 与追踪资源
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

const requestIDHeader = "X-Request-ID"

// requestLogger 记录访问日志，透传或生成 X-Request-ID
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Next()

		logger.Log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
