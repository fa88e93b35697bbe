package domain

import (
	"context"
	"time"
)

type VacancyAnalysis struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"userId"`
	VacancyID       *int64    `json:"vacancyId,omitempty"`
	VacancyTitle    string    `json:"vacancyTitle"`
	RequiredSkills  []string  `json:"requiredSkills"`
	MatchingSkills  []string  `json:"matchingSkills"`
	MissingSkills   []string  `json:"missingSkills"`
	MatchScore      int       `json:"matchScore"`
	Recommendations []string  `json:"recommendations"`
	Source          string    `json:"source"`
	CreatedAt       time.Time `json:"createdAt"`
}

// AnalyzeInput names a stored vacancy or carries free vacancy text.
type AnalyzeInput struct {
	VacancyID *int64
	Text      string
	ResumeID  *int64
}

type AdaptInput struct {
	ResumeID  int64
	VacancyID int64
}

type AnalysisRepository interface {
	Create(ctx context.Context, a *VacancyAnalysis) error
	GetByUserID(ctx context.Context, userID string, limit int) ([]VacancyAnalysis, error)
}

type AIUsecase interface {
	AnalyzeVacancy(ctx context.Context, userID string, in AnalyzeInput) (*VacancyAnalysis, error)
	AnalysisHistory(ctx context.Context, userID string, limit int) ([]VacancyAnalysis, error)
	AdaptResume(ctx context.Context, userID string, in AdaptInput) (*Resume, error)
}
