package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcareer-backend/internal/domain"
)

func boolPtr(b bool) *bool    { return &b }
func int64Ptr(n int64) *int64 { return &n }

func seedVacancies(t *testing.T) domain.VacancyRepository {
	t.Helper()
	repo := NewVacancyRepository()
	ctx := context.Background()
	for _, v := range []domain.Vacancy{
		{Title: "Go Developer", Company: "Яндекс", Location: "Москва", Salary: "от 250 000 ₽", Remote: true, Tags: []string{"Go", "Kafka"}},
		{Title: "Frontend Developer", Company: "VK", Location: "Санкт-Петербург", Salary: "150 000 – 200 000 ₽", Tags: []string{"React"}},
		{Title: "Data Scientist", Company: "Сбер", Location: "Москва", Salary: "По договорённости", Remote: true, Tags: []string{"Python"}},
		{Title: "QA Engineer", Company: "Ozon", Location: "Казань", Salary: "до 180 000 ₽", Tags: []string{"Python", "Selenium"}},
		{Title: "DevOps Engineer", Company: "Тинькофф", Location: "Москва", Salary: "300k+", Tags: []string{"Kubernetes"}},
	} {
		v := v
		require.NoError(t, repo.Create(ctx, &v))
	}
	return repo
}

func TestVacancyFetchFilters(t *testing.T) {
	repo := seedVacancies(t)
	ctx := context.Background()

	remote, total, err := repo.Fetch(ctx, domain.VacancyFilter{Remote: boolPtr(true)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, v := range remote {
		assert.True(t, v.Remote)
	}

	onsite, _, _ := repo.Fetch(ctx, domain.VacancyFilter{Remote: boolPtr(false)})
	assert.Len(t, onsite, 3)
	for _, v := range onsite {
		assert.False(t, v.Remote)
	}

	// lower bound >= 200000, or unparsable
	rich, _, _ := repo.Fetch(ctx, domain.VacancyFilter{SalaryMin: int64Ptr(200000)})
	var titles []string
	for _, v := range rich {
		titles = append(titles, v.Title)
	}
	assert.Equal(t, []string{"Go Developer", "Data Scientist", "QA Engineer", "DevOps Engineer"}, titles)

	byTag, _, _ := repo.Fetch(ctx, domain.VacancyFilter{Tag: "python"})
	assert.Len(t, byTag, 2)

	bySearch, _, _ := repo.Fetch(ctx, domain.VacancyFilter{Search: "яндекс"})
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Go Developer", bySearch[0].Title)

	byLocation, _, _ := repo.Fetch(ctx, domain.VacancyFilter{Location: "моск"})
	assert.Len(t, byLocation, 3)
}

func TestVacancyFetchPagination(t *testing.T) {
	repo := seedVacancies(t)

	page, total, err := repo.Fetch(context.Background(), domain.VacancyFilter{Page: domain.Page{Limit: 2, Offset: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.EqualValues(t, 2, page[0].ID)
	assert.EqualValues(t, 3, page[1].ID)

	tail, _, _ := repo.Fetch(context.Background(), domain.VacancyFilter{Page: domain.Page{Limit: 10, Offset: 4}})
	assert.Len(t, tail, 1)

	empty, _, _ := repo.Fetch(context.Background(), domain.VacancyFilter{Page: domain.Page{Limit: 10, Offset: 40}})
	assert.Empty(t, empty)
}

func TestVacancyReturnsCopies(t *testing.T) {
	repo := seedVacancies(t)
	v, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	v.Tags[0] = "mutated"

	again, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, "Go", again.Tags[0])

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	u := &domain.User{ID: "u1", Email: "Demo@SmartCareer.ru", Name: "Demo", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{ID: "u2", Email: "demo@smartcareer.ru"}), domain.ErrConflict)

	got, err := repo.GetByEmail(ctx, "demo@smartcareer.ru")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	got.Name = "Renamed"
	got.PasswordHash = "overwritten"
	require.NoError(t, repo.Update(ctx, got))

	got, _ = repo.GetByID(ctx, "u1")
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "hash", got.PasswordHash)

	assert.ErrorIs(t, repo.Update(ctx, &domain.User{ID: "missing"}), domain.ErrNotFound)
}

func TestApplicationRepository(t *testing.T) {
	repo := NewApplicationRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a1 := &domain.Application{UserID: "u1", VacancyID: 1, Status: domain.ApplicationStatusPending, Date: base}
	a2 := &domain.Application{UserID: "u1", VacancyID: 2, Status: domain.ApplicationStatusInterview, Date: base.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, a1))
	require.NoError(t, repo.Create(ctx, a2))
	require.NoError(t, repo.Create(ctx, &domain.Application{UserID: "u2", VacancyID: 1}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Application{UserID: "u1", VacancyID: 1}), domain.ErrConflict)

	apps, err := repo.GetByUserID(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, a2.ID, apps[0].ID)

	interviews, _ := repo.GetByUserID(ctx, "u1", domain.ApplicationStatusInterview)
	assert.Len(t, interviews, 1)

	exists, _ := repo.CheckExists(ctx, "u1", 2)
	assert.True(t, exists)

	require.NoError(t, repo.UpdateStatus(ctx, a1.ID, domain.ApplicationStatusRejected))
	got, _ := repo.GetByID(ctx, a1.ID)
	assert.Equal(t, domain.ApplicationStatusRejected, got.Status)
	assert.True(t, got.UpdatedAt.After(base))

	require.NoError(t, repo.Delete(ctx, a1.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a1.ID), domain.ErrNotFound)
}

func TestNotificationRepository(t *testing.T) {
	repo := NewNotificationRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Notification{UserID: "u1", Title: "n", Timestamp: base.Add(time.Duration(i) * time.Minute)}))
	}
	require.NoError(t, repo.Create(ctx, &domain.Notification{UserID: "u2", Title: "other"}))

	list, err := repo.GetByUserID(ctx, "u1", false)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.EqualValues(t, 3, list[0].ID)

	require.NoError(t, repo.MarkRead(ctx, 3))
	unread, _ := repo.CountUnread(ctx, "u1")
	assert.EqualValues(t, 2, unread)

	onlyUnread, _ := repo.GetByUserID(ctx, "u1", true)
	assert.Len(t, onlyUnread, 2)

	updated, _ := repo.MarkAllRead(ctx, "u1")
	assert.EqualValues(t, 2, updated)
	unread, _ = repo.CountUnread(ctx, "u1")
	assert.Zero(t, unread)

	otherUnread, _ := repo.CountUnread(ctx, "u2")
	assert.EqualValues(t, 1, otherUnread)
}

func TestAnalysisRepositoryLimit(t *testing.T) {
	repo := NewAnalysisRepository()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &domain.VacancyAnalysis{UserID: "u1", MatchScore: i * 10}))
	}

	list, err := repo.GetByUserID(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.EqualValues(t, 5, list[0].ID)

	all, _ := repo.GetByUserID(ctx, "u1", 0)
	assert.Len(t, all, 5)
}
