package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"smartcareer-backend/internal/domain"
)

type analysisRepository struct {
	mu     sync.RWMutex
	items  []domain.VacancyAnalysis
	nextID int64
}

func NewAnalysisRepository() domain.AnalysisRepository {
	return &analysisRepository{}
}

func cloneAnalysis(a domain.VacancyAnalysis) domain.VacancyAnalysis {
	a.VacancyID = cloneInt64(a.VacancyID)
	a.RequiredSkills = cloneStrings(a.RequiredSkills)
	a.MatchingSkills = cloneStrings(a.MatchingSkills)
	a.MissingSkills = cloneStrings(a.MissingSkills)
	a.Recommendations = cloneStrings(a.Recommendations)
	return a
}

func (r *analysisRepository) Create(ctx context.Context, a *domain.VacancyAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	a.ID = r.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	r.items = append(r.items, cloneAnalysis(*a))
	return nil
}

// GetByUserID returns newest first; limit <= 0 means no limit.
func (r *analysisRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]domain.VacancyAnalysis, error) {
	r.mu.RLock()
	out := make([]domain.VacancyAnalysis, 0)
	for _, a := range r.items {
		if a.UserID == userID {
			out = append(out, cloneAnalysis(a))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
