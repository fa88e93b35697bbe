package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

// Application status constants. Any status may follow any other.
const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusInterview ApplicationStatus = "interview"
	ApplicationStatusResponse  ApplicationStatus = "response"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
)

var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusInterview,
	ApplicationStatusResponse,
	ApplicationStatusRejected,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Application struct {
	ID          int64             `json:"id"`
	UserID      string            `json:"userId"`
	VacancyID   int64             `json:"vacancyId"`
	ResumeID    *int64            `json:"resumeId,omitempty"`
	Position    string            `json:"position"`
	Company     string            `json:"company"`
	Status      ApplicationStatus `json:"status"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	Date        time.Time         `json:"date"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type ApplyInput struct {
	VacancyID   int64
	ResumeID    *int64
	CoverLetter string
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	GetByUserID(ctx context.Context, userID string, status ApplicationStatus) ([]Application, error)
	CheckExists(ctx context.Context, userID string, vacancyID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status ApplicationStatus) error
	Delete(ctx context.Context, id int64) error
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, userID string, in ApplyInput) (*Application, error)
	ListApplications(ctx context.Context, userID string, status ApplicationStatus) ([]Application, error)
	GetApplication(ctx context.Context, userID string, id int64) (*Application, error)
	UpdateStatus(ctx context.Context, userID string, id int64, status ApplicationStatus) (*Application, error)
	Withdraw(ctx context.Context, userID string, id int64) error
	Export(ctx context.Context, userID, format string) (*ExportFile, error)
}
