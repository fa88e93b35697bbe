package domain

import (
	"context"
	"time"
)

type Vacancy struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	Salary         string    `json:"salary"`
	SalaryFrom     *int64    `json:"salaryFrom"`
	Remote         bool      `json:"remote"`
	Tags           []string  `json:"tags"`
	AIMatch        int       `json:"aiMatch"`
	Requirements   []string  `json:"requirements"`
	Description    string    `json:"description"`
	EmploymentType string    `json:"employmentType"`
	PostedAt       time.Time `json:"postedAt"`
}

// VacancyFilter narrows GET /vacancies. Nil pointers mean "no constraint".
type VacancyFilter struct {
	Remote    *bool
	SalaryMin *int64
	Search    string
	Tag       string
	Location  string
	Page      Page
}

// MatchesSalary keeps vacancies whose lower bound reaches min. Vacancies
// without a parsable lower bound are passed through.
func (v *Vacancy) MatchesSalary(min int64) bool {
	if v.SalaryFrom == nil {
		return true
	}
	return *v.SalaryFrom >= min
}

type VacancyRepository interface {
	Create(ctx context.Context, v *Vacancy) error
	GetByID(ctx context.Context, id int64) (*Vacancy, error)
	Fetch(ctx context.Context, filter VacancyFilter) ([]Vacancy, int64, error)
}

type VacancyUsecase interface {
	ListVacancies(ctx context.Context, userID string, filter VacancyFilter) ([]Vacancy, PageMeta, error)
	GetVacancy(ctx context.Context, userID string, id int64) (*Vacancy, error)
}
