package usecase

import (
	"context"
	"math"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/apperror"
)

type statsUsecase struct {
	applicationRepo  domain.ApplicationRepository
	notificationRepo domain.NotificationRepository
	resumeRepo       domain.ResumeRepository
	analysisRepo     domain.AnalysisRepository
}

func NewStatsUsecase(
	appRepo domain.ApplicationRepository,
	notificationRepo domain.NotificationRepository,
	resumeRepo domain.ResumeRepository,
	analysisRepo domain.AnalysisRepository,
) domain.StatsUsecase {
	return &statsUsecase{
		applicationRepo:  appRepo,
		notificationRepo: notificationRepo,
		resumeRepo:       resumeRepo,
		analysisRepo:     analysisRepo,
	}
}

// GetStats only reads; calling it twice without writes in between yields
// equal results.
func (u *statsUsecase) GetStats(ctx context.Context, userID string) (*domain.Stats, error) {
	apps, err := u.applicationRepo.GetByUserID(ctx, userID, "")
	if err != nil {
		return nil, apperror.Internal(err)
	}
	unread, err := u.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	resumes, err := u.resumeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	analyses, err := u.analysisRepo.GetByUserID(ctx, userID, 0)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	stats := &domain.Stats{
		TotalApplications:   len(apps),
		ByStatus:            make(map[domain.ApplicationStatus]int, len(domain.ApplicationStatuses)),
		UnreadNotifications: unread,
		Resumes:             len(resumes),
		Analyses:            len(analyses),
	}
	for _, s := range domain.ApplicationStatuses {
		stats.ByStatus[s] = 0
	}
	for _, a := range apps {
		stats.ByStatus[a.Status]++
	}
	stats.Pending = stats.ByStatus[domain.ApplicationStatusPending]
	stats.Interviews = stats.ByStatus[domain.ApplicationStatusInterview]
	stats.Responses = stats.ByStatus[domain.ApplicationStatusResponse]
	stats.Rejected = stats.ByStatus[domain.ApplicationStatusRejected]

	// Anything that left "pending" counts as an employer reaction.
	if stats.TotalApplications > 0 {
		answered := stats.TotalApplications - stats.Pending
		rate := float64(answered) * 100 / float64(stats.TotalApplications)
		stats.ResponseRate = math.Round(rate*10) / 10
	}

	for _, r := range resumes {
		if !r.IsOriginal {
			stats.AdaptedResumes++
		}
	}

	if len(analyses) > 0 {
		sum := 0
		for _, a := range analyses {
			sum += a.MatchScore
		}
		stats.AverageMatch = int(math.Round(float64(sum) / float64(len(analyses))))
	}

	return stats, nil
}
