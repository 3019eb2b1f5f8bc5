package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-portal-api/api/swagger"
	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/pkg/cache"
	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/database"
	"github.com/noah-isme/school-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// @title School Portal API
// @version 1.0.0
// @description Administration API for schools, teachers, syllabus and completion reports
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.MigrateUp(ctx, db.DB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	checks := map[string]handler.Pinger{"database": db}
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else if redisClient != nil {
		repo := repository.NewCacheRepository(redisClient)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
		checks["redis"] = handler.PingFunc(repo.Ping)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr)

	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	cleaner := service.NewUploadCleaner(objects, service.UploadCleanerConfig{
		Workers:    cfg.Cleanup.Workers,
		MaxRetries: cfg.Cleanup.MaxRetries,
		RetryDelay: cfg.Cleanup.RetryDelay,
	}, metrics, logr)
	cleaner.Start(ctx)
	defer cleaner.Stop()

	validate := validator.New()

	schoolRepo := repository.NewSchoolRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)

	authSvc := service.NewAuthService(repository.NewAdminUserRepository(db), validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	if err := authSvc.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	schoolSvc := service.NewSchoolService(schoolRepo, objects, cleaner, cacheSvc, validate, metrics, logr, cfg.Uploads.ImageMaxDim)
	registrationSvc := service.NewTeacherRegistrationService(teacherRepo, objects, cleaner, cacheSvc, validate, metrics, logr,
		service.TeacherRegistrationConfig{ImageMaxDim: cfg.Uploads.ImageMaxDim})
	reportSvc := service.NewReportService(repository.NewReportRepository(db), schoolRepo, logr)

	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Schools:  handler.NewSchoolHandler(schoolSvc, cfg.Uploads.ImageMaxBytes),
		Teachers: handler.NewTeacherHandler(registrationSvc, service.NewTeacherService(teacherRepo, cacheSvc, logr), cfg.Uploads.ImageMaxBytes),
		Subjects: handler.NewSubjectHandler(service.NewSubjectService(repository.NewSubjectRepository(db), cacheSvc, validate, logr)),
		Classes:  handler.NewClassHandler(service.NewClassService(repository.NewClassRepository(db), cacheSvc, validate, logr)),
		Syllabus: handler.NewSyllabusHandler(service.NewSyllabusService(repository.NewLessonRepository(db), objects, cleaner, cacheSvc, validate, metrics, logr, cfg.Uploads.SyllabusMaxBytes), cfg.Uploads.SyllabusMaxBytes),
		FAQ:      handler.NewFAQHandler(service.NewFAQService(repository.NewFAQRepository(db), validate, logr)),
		Bulletin: handler.NewBulletinHandler(service.NewBulletinService(repository.NewBulletinRepository(db), validate, logr)),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(repository.NewDashboardRepository(db),
			repository.NewActivityRepository(db), cacheSvc, cfg.Dashboard.CacheTTL, logr)),
		Reports: handler.NewReportHandler(reportSvc, service.NewExportService(reportSvc, logr), schoolSvc),
	}
	if local, ok := objects.(*storage.LocalStore); ok {
		handlers.Files = handler.NewFileHandler(local)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	ops := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handlers, middleware.JWT(authSvc))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
