package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"smartcareer-backend/config"
	_ "smartcareer-backend/docs" // Important for Swagger
	"smartcareer-backend/internal/delivery/http/middleware"
	v1 "smartcareer-backend/internal/delivery/http/v1"
	"smartcareer-backend/internal/domain"
	"smartcareer-backend/internal/repository/memory"
	"smartcareer-backend/internal/repository/postgres"
	"smartcareer-backend/internal/seed"
	"smartcareer-backend/internal/usecase"
	"smartcareer-backend/pkg/analyzer"
	"smartcareer-backend/pkg/auth"
	"smartcareer-backend/pkg/database"
	"smartcareer-backend/pkg/logger"
	"smartcareer-backend/pkg/metrics"
	"smartcareer-backend/pkg/redis"
	"smartcareer-backend/pkg/security"
	"smartcareer-backend/pkg/storage"
)

type repositories struct {
	users         domain.UserRepository
	vacancies     domain.VacancyRepository
	applications  domain.ApplicationRepository
	notifications domain.NotificationRepository
	resumes       domain.ResumeRepository
	analyses      domain.AnalysisRepository
}

// @title           SmartCareer API
// @version         1.0
// @description     Job search backend: vacancies, applications, resumes, notifications and AI matching.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting SmartCareer backend", "port", cfg.Port, "mode", cfg.GinMode)

	env := "development"
	if cfg.IsProduction() {
		env = "production"
	}
	secLog := security.InitSecurityLogger("smartcareer", env)
	defer func() { _ = secLog.Sync() }()

	ctx := context.Background()

	// 3. Setup Storage (Postgres when configured, memory otherwise)
	var repos repositories
	var dbPing usecase.Pinger
	if cfg.DBUrl != "" {
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := postgres.Migrate(ctx, dbPool); err != nil {
			logger.Log.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}

		repos = repositories{
			users:         postgres.NewUserRepository(dbPool),
			vacancies:     postgres.NewVacancyRepository(dbPool),
			applications:  postgres.NewApplicationRepository(dbPool),
			notifications: postgres.NewNotificationRepository(dbPool),
			resumes:       postgres.NewResumeRepository(dbPool),
			analyses:      postgres.NewAnalysisRepository(dbPool),
		}
		dbPing = dbPool.Ping
	} else {
		repos = repositories{
			users:         memory.NewUserRepository(),
			vacancies:     memory.NewVacancyRepository(),
			applications:  memory.NewApplicationRepository(),
			notifications: memory.NewNotificationRepository(),
			resumes:       memory.NewResumeRepository(),
			analyses:      memory.NewAnalysisRepository(),
		}
	}

	if cfg.SeedDemoData {
		err := seed.Demo(ctx, seed.Repositories{
			Users:         repos.users,
			Vacancies:     repos.vacancies,
			Applications:  repos.applications,
			Notifications: repos.notifications,
			Resumes:       repos.resumes,
		})
		if err != nil {
			logger.Log.Error("Failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	// 4. Setup Redis (optional)
	var redisClient *goredis.Client
	var redisPing usecase.Pinger
	if cfg.UpstashRedisURL != "" {
		err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory fallbacks", "error", err)
		} else {
			redisClient = redis.Client()
			redisPing = redis.HealthCheck
			defer func() { _ = redis.Close() }()
		}
	}

	// 5. Setup Object Storage
	var objects storage.ObjectStore
	var files storage.Getter
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Provider:        storage.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			PublicURL:       cfg.S3PublicURL,
		})
		if err != nil {
			logger.Log.Error("Failed to configure S3 storage", "error", err)
			os.Exit(1)
		}
		objects = s3Store
	} else {
		mem := storage.NewMemoryStore("http://localhost:" + cfg.Port + "/api/files")
		objects, files = mem, mem
	}

	// 6. Setup Auth
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	var revocations auth.RevocationStore
	if redisClient != nil {
		revocations = auth.NewRedisRevocationStore(redisClient)
	} else {
		revocations = auth.NewMemoryRevocationStore()
	}
	tracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		UseIPTracking: true,
	}, redisClient, secLog)

	// 7. Setup Analyzer
	keywords := analyzer.NewKeywordAnalyzer()
	var ai analyzer.Analyzer = keywords
	if cfg.OpenAIAPIKey != "" {
		ai = analyzer.NewOpenAIAnalyzer(analyzer.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		}, keywords)
		logger.Log.Info("OpenAI analyzer enabled", "model", cfg.OpenAIModel)
	}

	// 8. Setup UseCases
	m := metrics.NewManager()
	notificationUC := usecase.NewNotificationUsecase(repos.notifications, m)

	limiter := middleware.NewRateLimiter(redisClient, secLog)
	defer limiter.Close()

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         usecase.NewAuthUsecase(repos.users, tokens, revocations, tracker, secLog, notificationUC, m),
		ProfileUC:      usecase.NewProfileUsecase(repos.users, objects, secLog, cfg.MaxAvatarBytes),
		ResumeUC:       usecase.NewResumeUsecase(repos.resumes, objects, secLog, cfg.MaxResumeBytes),
		VacancyUC:      usecase.NewVacancyUsecase(repos.vacancies, repos.users, keywords),
		ApplicationUC:  usecase.NewApplicationUsecase(repos.applications, repos.vacancies, repos.resumes, notificationUC, m),
		NotificationUC: notificationUC,
		StatsUC:        usecase.NewStatsUsecase(repos.applications, repos.notifications, repos.resumes, repos.analyses),
		AIUC:           usecase.NewAIUsecase(ai, repos.users, repos.vacancies, repos.resumes, repos.analyses, notificationUC, m),
		HealthUC:       usecase.NewHealthUsecase(dbPing, redisPing),
		Authenticator:  middleware.NewAuthenticator(tokens, revocations, secLog),
		RateLimiter:    limiter,
		Metrics:        m,
		Files:          files,
		Config:         cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
