package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"smartcareer-backend/internal/domain"
)

type applicationRepository struct {
	mu     sync.RWMutex
	items  map[int64]domain.Application
	nextID int64
}

func NewApplicationRepository() domain.ApplicationRepository {
	return &applicationRepository{items: make(map[int64]domain.Application)}
}

func cloneApplication(a domain.Application) domain.Application {
	a.ResumeID = cloneInt64(a.ResumeID)
	return a
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.UserID == app.UserID && existing.VacancyID == app.VacancyID {
			return domain.ErrConflict
		}
	}

	r.nextID++
	app.ID = r.nextID
	now := time.Now().UTC()
	if app.Date.IsZero() {
		app.Date = now
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = app.Date
	}

	r.items[app.ID] = cloneApplication(*app)
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneApplication(a)
	return &out, nil
}

// GetByUserID lists newest first. An empty status means all statuses.
func (r *applicationRepository) GetByUserID(ctx context.Context, userID string, status domain.ApplicationStatus) ([]domain.Application, error) {
	r.mu.RLock()
	apps := make([]domain.Application, 0)
	for _, a := range r.items {
		if a.UserID != userID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		apps = append(apps, cloneApplication(a))
	}
	r.mu.RUnlock()

	sort.Slice(apps, func(i, j int) bool {
		if !apps[i].Date.Equal(apps[j].Date) {
			return apps[i].Date.After(apps[j].Date)
		}
		return apps[i].ID > apps[j].ID
	})
	return apps, nil
}

func (r *applicationRepository) CheckExists(ctx context.Context, userID string, vacancyID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.items {
		if a.UserID == userID && a.VacancyID == vacancyID {
			return true, nil
		}
	}
	return false, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	r.items[id] = a
	return nil
}

func (r *applicationRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
