package usecase

import (
	"context"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/analyzer"
	"smartcareer-backend/pkg/apperror"
	"smartcareer-backend/pkg/logger"
)

type vacancyUsecase struct {
	vacancyRepo domain.VacancyRepository
	userRepo    domain.UserRepository
	matcher     analyzer.Analyzer
}

// NewVacancyUsecase scores listings with matcher. It runs once per listed
// vacancy, so it should be the local keyword analyzer.
func NewVacancyUsecase(vacancyRepo domain.VacancyRepository, userRepo domain.UserRepository, matcher analyzer.Analyzer) domain.VacancyUsecase {
	return &vacancyUsecase{
		vacancyRepo: vacancyRepo,
		userRepo:    userRepo,
		matcher:     matcher,
	}
}

func (u *vacancyUsecase) ListVacancies(ctx context.Context, userID string, filter domain.VacancyFilter) ([]domain.Vacancy, domain.PageMeta, error) {
	filter.Page = filter.Page.Normalize()

	vacancies, total, err := u.vacancyRepo.Fetch(ctx, filter)
	if err != nil {
		return nil, domain.PageMeta{}, apperror.Internal(err)
	}

	skills := u.userSkills(ctx, userID)
	for i := range vacancies {
		vacancies[i].AIMatch = u.score(ctx, &vacancies[i], skills)
	}
	return vacancies, domain.NewPageMeta(filter.Page, total), nil
}

func (u *vacancyUsecase) GetVacancy(ctx context.Context, userID string, id int64) (*domain.Vacancy, error) {
	v, err := u.vacancyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Vacancy not found")
	}
	v.AIMatch = u.score(ctx, v, u.userSkills(ctx, userID))
	return v, nil
}

// userSkills is nil for anonymous callers.
func (u *vacancyUsecase) userSkills(ctx context.Context, userID string) []string {
	if userID == "" {
		return nil
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Warn("Could not load user for vacancy scoring", "user_id", userID, "error", err)
		return nil
	}
	return user.Skills
}

func (u *vacancyUsecase) score(ctx context.Context, v *domain.Vacancy, skills []string) int {
	if len(skills) == 0 {
		return 0
	}
	res, err := u.matcher.Analyze(ctx, vacancyRequest(v, skills))
	if err != nil {
		return 0
	}
	return res.MatchScore
}

func vacancyRequest(v *domain.Vacancy, skills []string) analyzer.Request {
	text := v.Description
	for _, r := range v.Requirements {
		text += "\n" + r
	}
	return analyzer.Request{
		Title:  v.Title,
		Text:   text,
		Tags:   v.Tags,
		Skills: skills,
	}
}
