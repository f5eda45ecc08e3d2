package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/config"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/controller"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/repository"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/service"
	"github.com/apichafoko/ExamenCarrera2025-sub000/pkg/database"
	"github.com/apichafoko/ExamenCarrera2025-sub000/pkg/logger"
	"github.com/apichafoko/ExamenCarrera2025-sub000/pkg/monitoring"
	"github.com/apichafoko/ExamenCarrera2025-sub000/pkg/security"
	"github.com/apichafoko/ExamenCarrera2025-sub000/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	tracerProvider *sdktrace.TracerProvider

	examRepo    *repository.ExamRepository
	sessionRepo *repository.SessionRepository

	queryService       *service.ExamQueryService
	syncService        *service.ExamSyncService
	duplicationService *service.ExamDuplicationService
	sessionService     *service.SessionService

	examController    *controller.ExamController
	sessionController *controller.SessionController
	healthController  *controller.HealthController
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("redis init: %w", err)
	}

	monitoring.Init()

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("examen-carrera", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Warn("Tracing disabled, collector unreachable", zap.Error(err))
		} else {
			app.tracerProvider = tp
		}
	}

	app.initRepositories()
	app.initServices()
	app.initControllers()
	app.setupRouter()

	return app, nil
}

func (a *App) initRepositories() {
	a.examRepo = repository.NewExamRepository(a.DB)
	a.sessionRepo = repository.NewSessionRepository(a.DB)
}

func (a *App) initServices() {
	a.queryService = service.NewExamQueryService(a.examRepo, a.Redis)
	a.syncService = service.NewExamSyncService(a.examRepo, a.queryService, a.DB)
	a.duplicationService = service.NewExamDuplicationService(a.examRepo, a.DB)
	a.sessionService = service.NewSessionService(a.sessionRepo, a.examRepo, a.DB)
}

func (a *App) initControllers() {
	a.examController = controller.NewExamController(a.syncService, a.duplicationService, a.queryService)
	a.sessionController = controller.NewSessionController(a.sessionService)
	a.healthController = controller.NewHealthController(a.DB)
}

func (a *App) setupMiddlewares(r *gin.Engine) {
	r.Use(gin.Recovery())
	r.Use(security.Secure())
	r.Use(security.CORS(a.Config.CORS.AllowedOrigins))
	r.Use(monitoring.MetricsMiddleware())

	if a.Config.Tracing.Enabled && a.tracerProvider != nil {
		r.Use(tracing.GinMiddleware())
	}

	if a.Config.RateLimit.MaxRequests > 0 {
		window := time.Duration(a.Config.RateLimit.WindowMinutes) * time.Minute
		r.Use(security.RateLimiter(a.Config.RateLimit.MaxRequests, window))
	}
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server starting", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}

	if err := a.Redis.Close(); err != nil {
		logger.Log.Warn("Redis close failed", zap.Error(err))
	}

	logger.Log.Info("Server exited")
	return nil
}
