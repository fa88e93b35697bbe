package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"smartcareer-backend/internal/domain"
)

type vacancyRepository struct {
	mu     sync.RWMutex
	items  map[int64]domain.Vacancy
	nextID int64
}

func NewVacancyRepository() domain.VacancyRepository {
	return &vacancyRepository{items: make(map[int64]domain.Vacancy)}
}

func cloneVacancy(v domain.Vacancy) domain.Vacancy {
	v.SalaryFrom = cloneInt64(v.SalaryFrom)
	v.Tags = cloneStrings(v.Tags)
	v.Requirements = cloneStrings(v.Requirements)
	return v
}

func (r *vacancyRepository) Create(ctx context.Context, v *domain.Vacancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == 0 {
		r.nextID++
		v.ID = r.nextID
	} else if _, exists := r.items[v.ID]; exists {
		return domain.ErrConflict
	} else if v.ID > r.nextID {
		r.nextID = v.ID
	}
	if v.SalaryFrom == nil {
		v.SalaryFrom = domain.SalaryFloorPtr(v.Salary)
	}
	if v.PostedAt.IsZero() {
		v.PostedAt = time.Now().UTC()
	}

	r.items[v.ID] = cloneVacancy(*v)
	return nil
}

func (r *vacancyRepository) GetByID(ctx context.Context, id int64) (*domain.Vacancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneVacancy(v)
	return &out, nil
}

// Fetch applies the filter, orders by id and cuts the requested page.
func (r *vacancyRepository) Fetch(ctx context.Context, filter domain.VacancyFilter) ([]domain.Vacancy, int64, error) {
	r.mu.RLock()
	matched := make([]domain.Vacancy, 0, len(r.items))
	for _, v := range r.items {
		if matchesFilter(&v, filter) {
			matched = append(matched, cloneVacancy(v))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	start, end := filter.Page.Normalize().Bounds(total)
	return matched[start:end], int64(total), nil
}

func matchesFilter(v *domain.Vacancy, f domain.VacancyFilter) bool {
	if f.Remote != nil && v.Remote != *f.Remote {
		return false
	}
	if f.SalaryMin != nil && !v.MatchesSalary(*f.SalaryMin) {
		return false
	}
	if f.Location != "" && !containsFold(v.Location, f.Location) {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, t := range v.Tags {
			if strings.EqualFold(t, f.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" {
		haystack := v.Title + "\n" + v.Company + "\n" + v.Description + "\n" + strings.Join(v.Tags, " ")
		if !containsFold(haystack, f.Search) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}
