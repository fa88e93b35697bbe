package domain

import (
	"context"
	"time"
)

type Resume struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	IsOriginal   bool      `json:"isOriginal"`
	BaseResumeID *int64    `json:"baseResumeId,omitempty"`
	VacancyID    *int64    `json:"vacancyId,omitempty"`
	Content      string    `json:"content"`
	Skills       []string  `json:"skills"`
	Adaptations  []string  `json:"adaptations,omitempty"`
	MatchScore   *int      `json:"matchScore,omitempty"`
	FileURL      string    `json:"fileUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ResumeInput struct {
	Name    string
	Content string
	Skills  []string
}

type ResumeRepository interface {
	Create(ctx context.Context, r *Resume) error
	GetByID(ctx context.Context, id int64) (*Resume, error)
	GetByUserID(ctx context.Context, userID string) ([]Resume, error)
	Update(ctx context.Context, r *Resume) error
	Delete(ctx context.Context, id int64) error
}

type ResumeUsecase interface {
	ListResumes(ctx context.Context, userID string) ([]Resume, error)
	GetResume(ctx context.Context, userID string, id int64) (*Resume, error)
	CreateResume(ctx context.Context, userID string, in ResumeInput) (*Resume, error)
	UpdateResume(ctx context.Context, userID string, id int64, in ResumeInput) (*Resume, error)
	DeleteResume(ctx context.Context, userID string, id int64) error
	AttachFile(ctx context.Context, userID string, id int64, filename string, data []byte) (*Resume, error)
}
