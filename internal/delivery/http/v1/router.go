package v1

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"smartcareer-backend/config"
	"smartcareer-backend/internal/delivery/http/middleware"
	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/logger"
	"smartcareer-backend/pkg/metrics"
	"smartcareer-backend/pkg/storage"
	"smartcareer-backend/pkg/validation"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	ProfileUC      domain.ProfileUsecase
	ResumeUC       domain.ResumeUsecase
	VacancyUC      domain.VacancyUsecase
	ApplicationUC  domain.ApplicationUsecase
	NotificationUC domain.NotificationUsecase
	StatsUC        domain.StatsUsecase
	AIUC           domain.AIUsecase
	HealthUC       domain.HealthUsecase

	Authenticator *middleware.Authenticator
	RateLimiter   *middleware.RateLimiter
	Metrics       *metrics.Manager

	// Files is set when uploads are kept in process and must be served by the API.
	Files storage.Getter

	Config *config.Config
}

var registerValidators sync.Once

func NewRouter(deps RouterDeps) *gin.Engine {
	registerValidators.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			validation.RegisterValidators(v)
		} else {
			logger.Log.Warn("gin validator engine is not go-playground/validator; custom rules disabled")
		}
	})

	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()
	r.HandleMethodNotAllowed = false

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins())) // CORS must be first!
	r.Use(middleware.RequestID())
	r.Use(middleware.Locale())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())
	r.NoRoute(middleware.NoRoute())

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.Use(deps.RateLimiter.Middleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	NewHealthHandler(api, deps.HealthUC)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if deps.Files != nil {
		NewFileHandler(api, deps.Files)
	}

	optional := api.Group("")
	optional.Use(deps.Authenticator.Optional())
	NewVacancyHandler(optional, deps.VacancyUC)

	authLimited := api.Group("")
	authLimited.Use(deps.RateLimiter.Middleware(middleware.AuthRateLimitConfig(cfg.RateLimitAuthThreshold, window)))

	protected := api.Group("")
	protected.Use(deps.Authenticator.Required())
	{
		NewAuthHandler(authLimited, protected, deps.AuthUC)
		NewProfileHandler(protected, deps.ProfileUC, cfg.MaxAvatarBytes)
		NewResumeHandler(protected, deps.ResumeUC, cfg.MaxResumeBytes)
		NewApplicationHandler(protected, deps.ApplicationUC)
		NewNotificationHandler(protected, deps.NotificationUC)
		NewStatsHandler(protected, deps.StatsUC)
		NewAIHandler(protected, deps.AIUC)
	}

	return r
}
