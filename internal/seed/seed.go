// Package seed fills empty repositories with the demo account and vacancy board.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/logger"
)

const (
	DemoUserID   = "00000000-0000-4000-8000-000000000001"
	DemoEmail    = "demo@smartcareer.ru"
	DemoPassword = "demo123"
)

type Repositories struct {
	Users         domain.UserRepository
	Vacancies     domain.VacancyRepository
	Applications  domain.ApplicationRepository
	Notifications domain.NotificationRepository
	Resumes       domain.ResumeRepository
}

// Vacancies is the demo board. Salaries mix the formats seen on Russian job sites.
func Vacancies(now time.Time) []domain.Vacancy {
	day := 24 * time.Hour
	return []domain.Vacancy{
		{
			Title: "Senior Go Developer", Company: "Яндекс", Location: "Москва",
			Salary: "от 350 000 ₽", Remote: true, EmploymentType: "Полная занятость",
			Tags:         []string{"Go", "PostgreSQL", "Kafka", "Kubernetes"},
			Requirements: []string{"Опыт коммерческой разработки на Go от 4 лет", "Понимание устройства PostgreSQL", "Опыт с брокерами сообщений"},
			Description:  "Разработка высоконагруженных микросервисов для платформы поиска. Go, PostgreSQL, Kafka, gRPC, Docker, Kubernetes.",
			PostedAt:     now.Add(-1 * day),
		},
		{
			Title: "Frontend Developer (React)", Company: "VK", Location: "Санкт-Петербург",
			Salary: "180 000 – 250 000 ₽", Remote: false, EmploymentType: "Полная занятость",
			Tags:         []string{"React", "TypeScript", "Redux"},
			Requirements: []string{"React и TypeScript от 2 лет", "Опыт оптимизации производительности интерфейсов"},
			Description:  "Развитие веб-интерфейсов соцсети. React, TypeScript, CSS, REST API, CI/CD.",
			PostedAt:     now.Add(-2 * day),
		},
		{
			Title: "Data Scientist", Company: "Сбер", Location: "Москва",
			Salary: "По договорённости", Remote: true, EmploymentType: "Полная занятость",
			Tags:         []string{"Python", "Machine Learning", "SQL"},
			Requirements: []string{"Python, pandas, scikit-learn", "Опыт вывода моделей в прод"},
			Description:  "Построение скоринговых моделей. Python, Pandas, машинное обучение, SQL, Airflow.",
			PostedAt:     now.Add(-3 * day),
		},
		{
			Title: "QA Automation Engineer", Company: "Ozon", Location: "Казань",
			Salary: "до 200 000 ₽", Remote: false, EmploymentType: "Полная занятость",
			Tags:         []string{"Python", "Selenium", "CI/CD"},
			Requirements: []string{"Автотесты на Python", "Опыт с Selenium или Playwright"},
			Description:  "Автоматизация тестирования маркетплейса. Python, Selenium, Docker, GitLab CI.",
			PostedAt:     now.Add(-4 * day),
		},
		{
			Title: "DevOps Engineer", Company: "Тинькофф", Location: "Москва",
			Salary: "300k+ ₽", Remote: true, EmploymentType: "Полная занятость",
			Tags:         []string{"Kubernetes", "Terraform", "AWS"},
			Requirements: []string{"Kubernetes в проде", "Infrastructure as Code"},
			Description:  "Сопровождение платформы. Kubernetes, Terraform, Ansible, Prometheus, Grafana, Linux.",
			PostedAt:     now.Add(-5 * day),
		},
		{
			Title: "Backend Developer (Python)", Company: "Авито", Location: "Москва",
			Salary: "220 000 – 320 000 ₽", Remote: false, EmploymentType: "Полная занятость",
			Tags:         []string{"Python", "Django", "PostgreSQL"},
			Requirements: []string{"Python от 3 лет", "Django или FastAPI", "Оптимизация SQL-запросов"},
			Description:  "Сервисы объявлений. Python, Django, FastAPI, PostgreSQL, Redis, RabbitMQ.",
			PostedAt:     now.Add(-6 * day),
		},
		{
			Title: "Junior Frontend Developer", Company: "Лаборатория Касперского", Location: "Москва",
			Salary: "90 тыс. ₽", Remote: false, EmploymentType: "Стажировка",
			Tags:         []string{"JavaScript", "Vue", "HTML"},
			Requirements: []string{"Базовые знания JavaScript", "Желание учиться"},
			Description:  "Стажировка в команде веб-консоли. JavaScript, Vue, HTML, CSS, Git.",
			PostedAt:     now.Add(-7 * day),
		},
		{
			Title: "iOS Developer", Company: "Kaspi", Location: "Алматы",
			Salary: "3k-5k $", Remote: true, EmploymentType: "Полная занятость",
			Tags:         []string{"Swift", "iOS"},
			Requirements: []string{"Swift от 3 лет", "UIKit и SwiftUI"},
			Description:  "Мобильное приложение суперсервиса. Swift, REST, CI/CD, Git.",
			PostedAt:     now.Add(-8 * day),
		},
		{
			Title: "Product Designer", Company: "Контур", Location: "Екатеринбург",
			Salary: "150 000 ₽", Remote: true, EmploymentType: "Частичная занятость",
			Tags:         []string{"Figma", "UX"},
			Requirements: []string{"Портфолио продуктовых кейсов", "Figma, прототипирование"},
			Description:  "Проектирование интерфейсов бухгалтерских сервисов. Figma, исследования, Agile.",
			PostedAt:     now.Add(-9 * day),
		},
		{
			Title: "Java Developer", Company: "Альфа-Банк", Location: "Москва",
			Salary: "от 280 000 руб.", Remote: false, EmploymentType: "Полная занятость",
			Tags:         []string{"Java", "Spring", "Kafka"},
			Requirements: []string{"Java 17, Spring Boot", "Микросервисная архитектура"},
			Description:  "Платёжные сервисы банка. Java, Spring, Kafka, PostgreSQL, микросервисы, Docker.",
			PostedAt:     now.Add(-10 * day),
		},
	}
}

// Demo seeds the repositories once: nothing happens when the demo user exists.
func Demo(ctx context.Context, repos Repositories) error {
	if _, err := repos.Users.GetByID(ctx, DemoUserID); err == nil {
		logger.Log.Info("Demo data already present")
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	now := time.Now().UTC()

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &domain.User{
		ID:           DemoUserID,
		Name:         "Алексей Смирнов",
		Email:        DemoEmail,
		PasswordHash: string(hash),
		Position:     "Go разработчик",
		Skills:       []string{"Go", "PostgreSQL", "Docker", "Redis", "Git"},
		Salary:       "от 250 000 ₽",
		Remote:       true,
		Location:     "Москва",
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	vacancies := Vacancies(now)
	for i := range vacancies {
		if err := repos.Vacancies.Create(ctx, &vacancies[i]); err != nil {
			return fmt.Errorf("seed vacancy %q: %w", vacancies[i].Title, err)
		}
	}

	resume := &domain.Resume{
		UserID:     user.ID,
		Name:       "Основное резюме",
		IsOriginal: true,
		Content:    "Backend-разработчик, 4 года опыта. Проектировал сервисы на Go, работал с PostgreSQL, Redis и Docker.",
		Skills:     []string{"Go", "PostgreSQL", "Docker", "Redis", "Git"},
	}
	if err := repos.Resumes.Create(ctx, resume); err != nil {
		return fmt.Errorf("seed resume: %w", err)
	}

	apps := []struct {
		vacancy domain.Vacancy
		status  domain.ApplicationStatus
		age     time.Duration
	}{
		{vacancies[0], domain.ApplicationStatusInterview, 20 * time.Hour},
		{vacancies[4], domain.ApplicationStatusPending, 44 * time.Hour},
		{vacancies[5], domain.ApplicationStatusRejected, 70 * time.Hour},
	}
	for _, a := range apps {
		app := &domain.Application{
			UserID:    user.ID,
			VacancyID: a.vacancy.ID,
			ResumeID:  &resume.ID,
			Position:  a.vacancy.Title,
			Company:   a.vacancy.Company,
			Status:    a.status,
			Date:      now.Add(-a.age),
		}
		if err := repos.Applications.Create(ctx, app); err != nil {
			return fmt.Errorf("seed application: %w", err)
		}
	}

	notifications := []domain.Notification{
		{Type: domain.NotificationInterview, Title: "Приглашение на собеседование", Message: "Яндекс приглашает вас на собеседование на позицию Senior Go Developer", Timestamp: now.Add(-2 * time.Hour)},
		{Type: domain.NotificationVacancy, Title: "Новые вакансии", Message: "Появились 3 вакансии, подходящие под ваш профиль", Timestamp: now.Add(-5 * time.Hour)},
		{Type: domain.NotificationAI, Title: "Анализ готов", Message: "Мы сравнили ваше резюме с вакансией DevOps Engineer", Timestamp: now.Add(-26 * time.Hour), Read: true},
		{Type: domain.NotificationSystem, Title: "Добро пожаловать в SmartCareer", Message: "Заполните профиль, чтобы получать точные рекомендации", Timestamp: now.Add(-72 * time.Hour), Read: true},
	}
	for i := range notifications {
		notifications[i].UserID = user.ID
		if err := repos.Notifications.Create(ctx, &notifications[i]); err != nil {
			return fmt.Errorf("seed notification: %w", err)
		}
	}

	logger.Log.Info("Demo data seeded", "vacancies", len(vacancies), "email", DemoEmail)
	return nil
}
