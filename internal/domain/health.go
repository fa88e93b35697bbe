package domain

import "context"

// Dependency states reported by GET /health.
const (
	DependencyUp       = "up"
	DependencyDown     = "down"
	DependencyDisabled = "disabled"
)

type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}
