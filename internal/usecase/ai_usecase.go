package usecase

import (
	"context"
	"fmt"
	"strings"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/analyzer"
	"smartcareer-backend/pkg/apperror"
	"smartcareer-backend/pkg/logger"
	"smartcareer-backend/pkg/metrics"
)

const maxHistoryLimit = 100

type aiUsecase struct {
	analyzer      analyzer.Analyzer
	userRepo      domain.UserRepository
	vacancyRepo   domain.VacancyRepository
	resumeRepo    domain.ResumeRepository
	analysisRepo  domain.AnalysisRepository
	notifications domain.NotificationUsecase
	metrics       *metrics.Manager
}

func NewAIUsecase(
	a analyzer.Analyzer,
	userRepo domain.UserRepository,
	vacancyRepo domain.VacancyRepository,
	resumeRepo domain.ResumeRepository,
	analysisRepo domain.AnalysisRepository,
	notifications domain.NotificationUsecase,
	m *metrics.Manager,
) domain.AIUsecase {
	return &aiUsecase{
		analyzer:      a,
		userRepo:      userRepo,
		vacancyRepo:   vacancyRepo,
		resumeRepo:    resumeRepo,
		analysisRepo:  analysisRepo,
		notifications: notifications,
		metrics:       m,
	}
}

func (u *aiUsecase) ownResume(ctx context.Context, userID string, id int64) (*domain.Resume, error) {
	res, err := u.resumeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Resume not found")
	}
	if res.UserID != userID {
		return nil, apperror.NotFound("Resume not found")
	}
	return res, nil
}

// candidateSkills prefers the given resume's skills over the profile's.
func (u *aiUsecase) candidateSkills(ctx context.Context, userID string, resumeID *int64) ([]string, error) {
	if resumeID != nil {
		res, err := u.ownResume(ctx, userID, *resumeID)
		if err != nil {
			return nil, err
		}
		return res.Skills, nil
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user.Skills, nil
}

func (u *aiUsecase) AnalyzeVacancy(ctx context.Context, userID string, in domain.AnalyzeInput) (*domain.VacancyAnalysis, error) {
	text := strings.TrimSpace(in.Text)
	if in.VacancyID == nil && text == "" {
		return nil, apperror.BadRequest("vacancyId or text is required")
	}

	skills, err := u.candidateSkills(ctx, userID, in.ResumeID)
	if err != nil {
		return nil, err
	}

	var req analyzer.Request
	title := "Текст вакансии"
	if in.VacancyID != nil {
		v, err := u.vacancyRepo.GetByID(ctx, *in.VacancyID)
		if err != nil {
			return nil, notFoundOr(err, "Vacancy not found")
		}
		req = vacancyRequest(v, skills)
		title = v.Title
	} else {
		req = analyzer.Request{Text: text, Skills: skills}
	}

	res, err := u.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	u.metrics.RecordAnalysis(res.Source)

	analysis := &domain.VacancyAnalysis{
		UserID:          userID,
		VacancyID:       in.VacancyID,
		VacancyTitle:    title,
		RequiredSkills:  res.RequiredSkills,
		MatchingSkills:  res.MatchingSkills,
		MissingSkills:   res.MissingSkills,
		MatchScore:      res.MatchScore,
		Recommendations: res.Recommendations,
		Source:          res.Source,
	}
	if err := u.analysisRepo.Create(ctx, analysis); err != nil {
		return nil, apperror.Internal(err)
	}
	return analysis, nil
}

func (u *aiUsecase) AnalysisHistory(ctx context.Context, userID string, limit int) ([]domain.VacancyAnalysis, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = domain.DefaultPageLimit
	}
	list, err := u.analysisRepo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

// AdaptResume stores the adapted copy as a new, non-original resume.
func (u *aiUsecase) AdaptResume(ctx context.Context, userID string, in domain.AdaptInput) (*domain.Resume, error) {
	if in.ResumeID <= 0 || in.VacancyID <= 0 {
		return nil, apperror.BadRequest("resumeId and vacancyId are required")
	}

	base, err := u.ownResume(ctx, userID, in.ResumeID)
	if err != nil {
		return nil, err
	}
	v, err := u.vacancyRepo.GetByID(ctx, in.VacancyID)
	if err != nil {
		return nil, notFoundOr(err, "Vacancy not found")
	}

	ad, err := u.analyzer.Adapt(ctx, analyzer.AdaptRequest{
		Request:       vacancyRequest(v, base.Skills),
		ResumeName:    base.Name,
		ResumeContent: base.Content,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	u.metrics.RecordAnalysis(ad.Source)

	score := ad.MatchScore
	baseID, vacancyID := base.ID, v.ID
	adapted := &domain.Resume{
		UserID:       userID,
		Name:         fmt.Sprintf("%s — %s", base.Name, v.Title),
		IsOriginal:   false,
		BaseResumeID: &baseID,
		VacancyID:    &vacancyID,
		Content:      ad.Content,
		Skills:       ad.Skills,
		Adaptations:  ad.Adaptations,
		MatchScore:   &score,
	}
	if err := u.resumeRepo.Create(ctx, adapted); err != nil {
		return nil, apperror.Internal(err)
	}

	if u.notifications != nil {
		msg := fmt.Sprintf("Резюме адаптировано под вакансию «%s» в %s. Совпадение: %d%%", v.Title, v.Company, score)
		if err := u.notifications.Notify(ctx, userID, domain.NotificationAI, "Резюме адаптировано", msg); err != nil {
			logger.Log.Warn("Failed to create notification", "user_id", userID, "error", err)
		}
	}
	return adapted, nil
}
