package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"smartcareer-backend/internal/domain"
)

type resumeRepository struct {
	mu     sync.RWMutex
	items  map[int64]domain.Resume
	nextID int64
}

func NewResumeRepository() domain.ResumeRepository {
	return &resumeRepository{items: make(map[int64]domain.Resume)}
}

func cloneResume(r domain.Resume) domain.Resume {
	r.BaseResumeID = cloneInt64(r.BaseResumeID)
	r.VacancyID = cloneInt64(r.VacancyID)
	r.Skills = cloneStrings(r.Skills)
	r.Adaptations = cloneStrings(r.Adaptations)
	r.MatchScore = cloneInt(r.MatchScore)
	return r
}

func (r *resumeRepository) Create(ctx context.Context, res *domain.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	res.ID = r.nextID
	now := time.Now().UTC()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = res.CreatedAt

	r.items[res.ID] = cloneResume(*res)
	return nil
}

func (r *resumeRepository) GetByID(ctx context.Context, id int64) (*domain.Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneResume(res)
	return &out, nil
}

func (r *resumeRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Resume, error) {
	r.mu.RLock()
	out := make([]domain.Resume, 0)
	for _, res := range r.items {
		if res.UserID == userID {
			out = append(out, cloneResume(res))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *resumeRepository) Update(ctx context.Context, res *domain.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[res.ID]
	if !ok {
		return domain.ErrNotFound
	}
	res.UserID = existing.UserID
	res.CreatedAt = existing.CreatedAt
	res.UpdatedAt = time.Now().UTC()

	r.items[res.ID] = cloneResume(*res)
	return nil
}

func (r *resumeRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
