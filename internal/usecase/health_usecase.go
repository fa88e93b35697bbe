package usecase

import (
	"context"
	"time"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/logger"
)

// Pinger checks one backing service. A nil Pinger marks it disabled.
type Pinger func(ctx context.Context) error

type healthUsecase struct {
	database Pinger
	redis    Pinger
	timeout  time.Duration
}

func NewHealthUsecase(database, redis Pinger) domain.HealthUsecase {
	return &healthUsecase{database: database, redis: redis, timeout: 2 * time.Second}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	status := domain.HealthStatus{
		Status:   "ok",
		Database: u.probe(ctx, "database", u.database),
		Redis:    u.probe(ctx, "redis", u.redis),
	}
	if status.Database == domain.DependencyDown || status.Redis == domain.DependencyDown {
		status.Status = "degraded"
	}
	return status
}

func (u *healthUsecase) probe(ctx context.Context, name string, ping Pinger) string {
	if ping == nil {
		return domain.DependencyDisabled
	}
	if err := ping(ctx); err != nil {
		logger.Log.Warn("Health check failed", "dependency", name, "error", err)
		return domain.DependencyDown
	}
	return domain.DependencyUp
}
