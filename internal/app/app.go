package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"studynova_backend/internal/config"
	"studynova_backend/internal/controller"
	"studynova_backend/internal/repository"
	"studynova_backend/internal/service"
	"studynova_backend/pkg/database"
	"studynova_backend/pkg/docstore"
	"studynova_backend/pkg/logger"
	"studynova_backend/pkg/monitoring"
	"studynova_backend/pkg/security"
	"studynova_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Store  docstore.Store
}

type repositories struct {
	solution  *repository.SolutionRepository
	content   *repository.ContentRepository
	accessLog *repository.AccessLogRepository
	aiHelpLog *repository.AIHelpLogRepository
	progress  *repository.ProgressRepository
}

type services struct {
	solution *service.SolutionService
	stats    *service.StatsService
	ai       *service.AIService
	tutor    *service.TutorService
	progress *service.ProgressService
	storage  *service.StorageService
}

type controllers struct {
	solution *controller.SolutionController
	ai       *controller.AIController
	progress *controller.ProgressController
	health   *controller.HealthController
}

func (a *App) initRepositories(store docstore.Store) *repositories {
	return &repositories{
		solution:  repository.NewSolutionRepository(store),
		content:   repository.NewContentRepository(store),
		accessLog: repository.NewAccessLogRepository(store),
		aiHelpLog: repository.NewAIHelpLogRepository(store),
		progress:  repository.NewProgressRepository(store),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.progress = service.NewProgressService(repos.progress)
	s.solution = service.NewSolutionService(repos.solution, repos.content, repos.accessLog, s.progress)
	s.stats = service.NewStatsService(repos.solution)
	s.ai = service.NewAIService(cfg.AI)
	s.tutor = service.NewTutorService(s.ai, service.NewPromptBuilder(), repos.aiHelpLog)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		solution: controller.NewSolutionController(s.solution, s.stats, s.storage),
		ai:       controller.NewAIController(s.tutor),
		progress: controller.NewProgressController(s.progress),
		health:   controller.NewHealthController(db, a.Config),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.ForceMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Store:  docstore.NewGormStore(db),
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(app.Store)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("studynova-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
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

	log.Println("Server exiting")
}
