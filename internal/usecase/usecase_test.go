package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/internal/repository/memory"
	"smartcareer-backend/internal/usecase"
	"smartcareer-backend/pkg/analyzer"
	"smartcareer-backend/pkg/apperror"
	"smartcareer-backend/pkg/auth"
	"smartcareer-backend/pkg/metrics"
	"smartcareer-backend/pkg/security"
	"smartcareer-backend/pkg/storage"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID string, kind domain.NotificationType, title, message string) error {
	return m.Called(ctx, userID, kind, title, message).Error(0)
}
func (m *MockNotifier) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, userID, unreadOnly)
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}
func (m *MockNotifier) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotifier) MarkRead(ctx context.Context, userID string, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(*domain.Notification), args.Error(1)
}
func (m *MockNotifier) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotifier) Delete(ctx context.Context, userID string, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req analyzer.Request) (*analyzer.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analyzer.Result), args.Error(1)
}
func (m *MockAnalyzer) Adapt(ctx context.Context, req analyzer.AdaptRequest) (*analyzer.Adaptation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analyzer.Adaptation), args.Error(1)
}

const (
	alice = "user-alice"
	bob   = "user-bob"
)

type fixture struct {
	users         domain.UserRepository
	vacancies     domain.VacancyRepository
	applications  domain.ApplicationRepository
	notifications domain.NotificationRepository
	resumes       domain.ResumeRepository
	analyses      domain.AnalysisRepository

	secLog   *security.SecurityLogger
	metrics  *metrics.Manager
	notifyUC domain.NotificationUsecase
	store    *storage.MemoryStore

	goVacancy    *domain.Vacancy
	reactVacancy *domain.Vacancy
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		users:         memory.NewUserRepository(),
		vacancies:     memory.NewVacancyRepository(),
		applications:  memory.NewApplicationRepository(),
		notifications: memory.NewNotificationRepository(),
		resumes:       memory.NewResumeRepository(),
		analyses:      memory.NewAnalysisRepository(),
		secLog:        security.NewSecurityLogger(zap.NewNop(), "smartcareer", "test"),
		metrics:       metrics.NewManager(),
		store:         storage.NewMemoryStore("http://localhost/api/files"),
	}
	f.notifyUC = usecase.NewNotificationUsecase(f.notifications, f.metrics)

	for _, id := range []string{alice, bob} {
		require.NoError(t, f.users.Create(ctx, &domain.User{
			ID: id, Name: id, Email: id + "@example.com", Skills: []string{"Go", "PostgreSQL"},
		}))
	}

	f.goVacancy = &domain.Vacancy{
		Title: "Go Developer", Company: "Яндекс", Salary: "от 300 000 ₽",
		Tags: []string{"Go", "PostgreSQL", "Kafka"}, Description: "Микросервисы на Go",
	}
	f.reactVacancy = &domain.Vacancy{
		Title: "Frontend Developer", Company: "Ozon", Salary: "200 000 ₽",
		Tags: []string{"React", "TypeScript"}, Description: "SPA на React",
	}
	require.NoError(t, f.vacancies.Create(ctx, f.goVacancy))
	require.NoError(t, f.vacancies.Create(ctx, f.reactVacancy))
	return f
}

func (f *fixture) applicationUC() domain.ApplicationUsecase {
	return usecase.NewApplicationUsecase(f.applications, f.vacancies, f.resumes, f.notifyUC, f.metrics)
}

func (f *fixture) aiUC(a analyzer.Analyzer) domain.AIUsecase {
	return usecase.NewAIUsecase(a, f.users, f.vacancies, f.resumes, f.analyses, f.notifyUC, f.metrics)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestAuthRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	tracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts: 2, AttemptWindow: time.Minute, BlockDuration: 15 * time.Minute,
	}, nil, f.secLog)
	uc := usecase.NewAuthUsecase(f.users, tokens, auth.NewMemoryRevocationStore(), tracker, f.secLog, f.notifyUC, f.metrics)

	res, err := uc.Register(ctx, domain.RegisterInput{Name: " Анна ", Email: "Anna@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", res.User.Email)
	assert.Equal(t, "Анна", res.User.Name)
	assert.NotEmpty(t, res.Token)

	welcome, _ := f.notifications.CountUnread(ctx, res.User.ID)
	assert.EqualValues(t, 1, welcome)

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		_, err := uc.Register(ctx, domain.RegisterInput{Name: "Anna", Email: "ANNA@example.com", Password: "secret1"})
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("login issues a token with the user id", func(t *testing.T) {
		out, err := uc.Login(ctx, domain.LoginInput{Email: "anna@example.com", Password: "secret1", IP: "10.0.0.1"})
		require.NoError(t, err)
		claims, err := tokens.Parse(out.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, claims.Subject)
	})

	t.Run("bad password is 401 then blocked with 429", func(t *testing.T) {
		in := domain.LoginInput{Email: "anna@example.com", Password: "wrong", IP: "10.0.0.2"}
		_, err := uc.Login(ctx, in)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

		_, err = uc.Login(ctx, in)
		assert.Equal(t, http.StatusTooManyRequests, statusOf(t, err))
		assert.Contains(t, err.Error(), "15 minutes")

		in.Password = "secret1"
		_, err = uc.Login(ctx, in)
		assert.Equal(t, http.StatusTooManyRequests, statusOf(t, err))
	})

	t.Run("unknown email looks like a bad password", func(t *testing.T) {
		_, err := uc.Login(ctx, domain.LoginInput{Email: "nobody@example.com", Password: "x", IP: "10.0.0.3"})
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		assert.Equal(t, "Invalid email or password", err.Error())
	})
}

func TestAuthLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	revocations := auth.NewMemoryRevocationStore()
	uc := usecase.NewAuthUsecase(f.users, auth.NewTokenManager("s", time.Hour), revocations,
		security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil, f.secLog), f.secLog, nil, nil)

	require.NoError(t, uc.Logout(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err := revocations.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.NoError(t, uc.Logout(ctx, "", time.Now()))
}

func TestApplyFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.applicationUC()

	t.Run("missing vacancy id is a bad request", func(t *testing.T) {
		_, err := uc.Apply(ctx, alice, domain.ApplyInput{})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("unknown vacancy is not found", func(t *testing.T) {
		_, err := uc.Apply(ctx, alice, domain.ApplyInput{VacancyID: 999})
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	app, err := uc.Apply(ctx, alice, domain.ApplyInput{VacancyID: f.goVacancy.ID, CoverLetter: "  Здравствуйте  "})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)
	assert.Equal(t, "Go Developer", app.Position)
	assert.Equal(t, "Яндекс", app.Company)
	assert.Equal(t, "Здравствуйте", app.CoverLetter)

	list, _ := f.notifications.GetByUserID(ctx, alice, false)
	require.Len(t, list, 1)
	assert.Equal(t, domain.NotificationApplication, list[0].Type)
	assert.Equal(t, "Отклик отправлен", list[0].Title)

	t.Run("second application to the same vacancy conflicts", func(t *testing.T) {
		_, err := uc.Apply(ctx, alice, domain.ApplyInput{VacancyID: f.goVacancy.ID})
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("another user's resume cannot be attached", func(t *testing.T) {
		foreign := &domain.Resume{UserID: bob, Name: "Bob CV", IsOriginal: true}
		require.NoError(t, f.resumes.Create(ctx, foreign))
		_, err := uc.Apply(ctx, alice, domain.ApplyInput{VacancyID: f.reactVacancy.ID, ResumeID: &foreign.ID})
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("other users cannot read it", func(t *testing.T) {
		_, err := uc.GetApplication(ctx, bob, app.ID)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}

func TestUpdateStatusNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.applicationUC()

	app, err := uc.Apply(ctx, alice, domain.ApplyInput{VacancyID: f.goVacancy.ID})
	require.NoError(t, err)

	cases := []struct {
		status domain.ApplicationStatus
		kind   domain.NotificationType
		title  string
	}{
		{domain.ApplicationStatusInterview, domain.NotificationInterview, "Приглашение на собеседование"},
		{domain.ApplicationStatusResponse, domain.NotificationResponse, "Ответ работодателя"},
		{domain.ApplicationStatusRejected, domain.NotificationApplication, "Отклик отклонён"},
		{domain.ApplicationStatusPending, "", ""},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			before, _ := f.notifications.GetByUserID(ctx, alice, false)
			updated, err := uc.UpdateStatus(ctx, alice, app.ID, tc.status)
			require.NoError(t, err)
			assert.Equal(t, tc.status, updated.Status)

			after, _ := f.notifications.GetByUserID(ctx, alice, false)
			if tc.title == "" {
				assert.Len(t, after, len(before))
				return
			}
			require.Len(t, after, len(before)+1)
			assert.Equal(t, tc.kind, after[0].Type)
			assert.Equal(t, tc.title, after[0].Title)
		})
	}

	t.Run("same status again does not notify", func(t *testing.T) {
		before, _ := f.notifications.GetByUserID(ctx, alice, false)
		_, err := uc.UpdateStatus(ctx, alice, app.ID, domain.ApplicationStatusPending)
		require.NoError(t, err)
		after, _ := f.notifications.GetByUserID(ctx, alice, false)
		assert.Len(t, after, len(before))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := uc.UpdateStatus(ctx, alice, app.ID, "hired")
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}

func TestApplySurvivesNotificationFailure(t *testing.T) {
	f := newFixture(t)
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, alice, domain.NotificationApplication, "Отклик отправлен", mock.Anything).
		Return(errors.New("db down"))
	uc := usecase.NewApplicationUsecase(f.applications, f.vacancies, f.resumes, notifier, nil)

	app, err := uc.Apply(context.Background(), alice, domain.ApplyInput{VacancyID: f.goVacancy.ID})
	require.NoError(t, err)
	assert.NotZero(t, app.ID)
	notifier.AssertExpectations(t)
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.applicationUC()

	app, err := uc.Apply(ctx, alice, domain.ApplyInput{VacancyID: f.goVacancy.ID})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, statusOf(t, uc.Withdraw(ctx, bob, app.ID)))
	require.NoError(t, uc.Withdraw(ctx, alice, app.ID))
	assert.Equal(t, http.StatusNotFound, statusOf(t, uc.Withdraw(ctx, alice, app.ID)))
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.applicationUC()
	_, err := uc.Apply(ctx, alice, domain.ApplyInput{VacancyID: f.goVacancy.ID})
	require.NoError(t, err)

	t.Run("xlsx", func(t *testing.T) {
		file, err := uc.Export(ctx, alice, "")
		require.NoError(t, err)
		assert.Contains(t, file.Filename, ".xlsx")

		book, err := excelize.OpenReader(bytes.NewReader(file.Data))
		require.NoError(t, err)
		rows, err := book.GetRows("Отклики")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Должность", rows[0][1])
		assert.Equal(t, "Go Developer", rows[1][1])
		assert.Equal(t, "На рассмотрении", rows[1][3])
	})

	t.Run("csv", func(t *testing.T) {
		file, err := uc.Export(ctx, alice, "CSV")
		require.NoError(t, err)
		assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
		assert.True(t, bytes.HasPrefix(file.Data, []byte{0xEF, 0xBB, 0xBF}))
		assert.Contains(t, string(file.Data), "Go Developer,Яндекс,На рассмотрении")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := uc.Export(ctx, alice, "pdf")
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}

func TestNotificationOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.notifyUC

	require.NoError(t, uc.Notify(ctx, alice, domain.NotificationSystem, "a", "1"))
	require.NoError(t, uc.Notify(ctx, alice, domain.NotificationVacancy, "b", "2"))
	list, unread, err := uc.ListNotifications(ctx, alice, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.EqualValues(t, 2, unread)

	_, err = uc.MarkRead(ctx, bob, list[0].ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.Equal(t, http.StatusNotFound, statusOf(t, uc.Delete(ctx, bob, list[0].ID)))

	n, err := uc.MarkRead(ctx, alice, list[0].ID)
	require.NoError(t, err)
	assert.True(t, n.Read)

	count, _ := uc.UnreadCount(ctx, alice)
	assert.EqualValues(t, 1, count)

	updated, err := uc.MarkAllRead(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	require.NoError(t, uc.Delete(ctx, alice, list[1].ID))
	list, _, _ = uc.ListNotifications(ctx, alice, false)
	assert.Len(t, list, 1)
}

func TestResumeLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.NewResumeUsecase(f.resumes, f.store, f.secLog, 1<<20)

	_, err := uc.CreateResume(ctx, alice, domain.ResumeInput{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	res, err := uc.CreateResume(ctx, alice, domain.ResumeInput{Name: "Основное", Skills: []string{" Go ", "go", "SQL"}})
	require.NoError(t, err)
	assert.True(t, res.IsOriginal)
	assert.Equal(t, []string{"Go", "SQL"}, res.Skills)

	_, err = uc.GetResume(ctx, bob, res.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	updated, err := uc.UpdateResume(ctx, alice, res.ID, domain.ResumeInput{Content: "Опыт 5 лет"})
	require.NoError(t, err)
	assert.Equal(t, "Основное", updated.Name)
	assert.Equal(t, "Опыт 5 лет", updated.Content)

	t.Run("attach a text file", func(t *testing.T) {
		out, err := uc.AttachFile(ctx, alice, res.ID, "cv.txt", []byte("Go developer, 5 years"))
		require.NoError(t, err)
		assert.Contains(t, out.FileURL, "/resumes/"+alice+"/")

		obj, err := f.store.Get(ctx, out.FileURL[len("http://localhost/api/files/"):])
		require.NoError(t, err)
		assert.Equal(t, "Go developer, 5 years", string(obj.Data))
	})

	t.Run("replacing the file drops the old object", func(t *testing.T) {
		before, err := uc.GetResume(ctx, alice, res.ID)
		require.NoError(t, err)
		out, err := uc.AttachFile(ctx, alice, res.ID, "cv2.txt", []byte("Go developer, 6 years"))
		require.NoError(t, err)

		_, err = f.store.Get(ctx, before.FileURL[len("http://localhost/api/files/"):])
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
		_, err = f.store.Get(ctx, out.FileURL[len("http://localhost/api/files/"):])
		assert.NoError(t, err)
	})

	t.Run("reject spoofed document", func(t *testing.T) {
		_, err := uc.AttachFile(ctx, alice, res.ID, "cv.pdf", []byte("not a pdf at all"))
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	attached, err := uc.GetResume(ctx, alice, res.ID)
	require.NoError(t, err)
	require.NoError(t, uc.DeleteResume(ctx, alice, res.ID))
	list, _ := uc.ListResumes(ctx, alice)
	assert.Empty(t, list)
	_, err = f.store.Get(ctx, attached.FileURL[len("http://localhost/api/files/"):])
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.NewProfileUsecase(f.users, f.store, f.secLog, 1<<20)

	name := "  Алиса  "
	remote := true
	user, err := uc.UpdateProfile(ctx, alice, domain.ProfileUpdate{Name: &name, Remote: &remote})
	require.NoError(t, err)
	assert.Equal(t, "Алиса", user.Name)
	assert.True(t, user.Remote)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, user.Skills)

	user, err = uc.UploadAvatar(ctx, alice, "me.png", pngBytes(t, 600, 300))
	require.NoError(t, err)
	assert.Contains(t, user.Avatar, "/avatars/"+alice+"/")

	first := user.Avatar
	user, err = uc.UploadAvatar(ctx, alice, "me.png", pngBytes(t, 200, 200))
	require.NoError(t, err)
	assert.NotEqual(t, first, user.Avatar)
	_, err = f.store.Get(ctx, first[len("http://localhost/api/files/"):])
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	_, err = uc.UploadAvatar(ctx, alice, "me.png", []byte("GIF89a but not really"))
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestVacancyMatchIsPersonal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.NewVacancyUsecase(f.vacancies, f.users, analyzer.NewKeywordAnalyzer())

	anon, err := uc.GetVacancy(ctx, "", f.goVacancy.ID)
	require.NoError(t, err)
	assert.Zero(t, anon.AIMatch)

	mine, err := uc.GetVacancy(ctx, alice, f.goVacancy.ID)
	require.NoError(t, err)
	assert.Greater(t, mine.AIMatch, 0)

	list, meta, err := uc.ListVacancies(ctx, alice, domain.VacancyFilter{Page: domain.Page{Limit: 1}})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.EqualValues(t, 2, meta.Total)
	assert.True(t, meta.HasMore)

	_, err = uc.GetVacancy(ctx, alice, 999)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestAnalyzeVacancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.aiUC(analyzer.NewKeywordAnalyzer())

	_, err := uc.AnalyzeVacancy(ctx, alice, domain.AnalyzeInput{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Equal(t, "vacancyId or text is required", err.Error())

	res, err := uc.AnalyzeVacancy(ctx, alice, domain.AnalyzeInput{VacancyID: &f.goVacancy.ID})
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", res.VacancyTitle)
	assert.Contains(t, res.MatchingSkills, "Go")
	assert.Contains(t, res.MissingSkills, "Kafka")
	assert.Equal(t, analyzer.SourceKeyword, res.Source)

	text, err := uc.AnalyzeVacancy(ctx, alice, domain.AnalyzeInput{Text: "Ищем React разработчика"})
	require.NoError(t, err)
	assert.Nil(t, text.VacancyID)

	history, err := uc.AnalysisHistory(ctx, alice, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, text.ID, history[0].ID)

	missing := int64(404)
	_, err = uc.AnalyzeVacancy(ctx, alice, domain.AnalyzeInput{VacancyID: &missing})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestAnalyzeUsesResumeSkills(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resume := &domain.Resume{UserID: alice, Name: "Frontend", IsOriginal: true, Skills: []string{"React"}}
	require.NoError(t, f.resumes.Create(ctx, resume))

	a := new(MockAnalyzer)
	a.On("Analyze", mock.Anything, mock.MatchedBy(func(req analyzer.Request) bool {
		return len(req.Skills) == 1 && req.Skills[0] == "React"
	})).Return(&analyzer.Result{MatchScore: 50, Source: analyzer.SourceOpenAI}, nil)

	res, err := f.aiUC(a).AnalyzeVacancy(ctx, alice, domain.AnalyzeInput{VacancyID: &f.reactVacancy.ID, ResumeID: &resume.ID})
	require.NoError(t, err)
	assert.Equal(t, 50, res.MatchScore)
	a.AssertExpectations(t)
}

func TestAdaptResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := &domain.Resume{UserID: alice, Name: "Основное резюме", IsOriginal: true, Content: "Go, PostgreSQL", Skills: []string{"PostgreSQL", "Go"}}
	require.NoError(t, f.resumes.Create(ctx, base))
	uc := f.aiUC(analyzer.NewKeywordAnalyzer())

	adapted, err := uc.AdaptResume(ctx, alice, domain.AdaptInput{ResumeID: base.ID, VacancyID: f.goVacancy.ID})
	require.NoError(t, err)
	assert.False(t, adapted.IsOriginal)
	assert.Equal(t, "Основное резюме — Go Developer", adapted.Name)
	require.NotNil(t, adapted.BaseResumeID)
	assert.Equal(t, base.ID, *adapted.BaseResumeID)
	require.NotNil(t, adapted.MatchScore)
	assert.NotEmpty(t, adapted.Adaptations)

	list, _ := f.notifications.GetByUserID(ctx, alice, false)
	require.NotEmpty(t, list)
	assert.Equal(t, domain.NotificationAI, list[0].Type)

	_, err = uc.AdaptResume(ctx, bob, domain.AdaptInput{ResumeID: base.ID, VacancyID: f.goVacancy.ID})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = uc.AdaptResume(ctx, alice, domain.AdaptInput{ResumeID: base.ID})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestStatsAreDerivedAndStable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	apps := f.applicationUC()
	stats := usecase.NewStatsUsecase(f.applications, f.notifications, f.resumes, f.analyses)

	empty, err := stats.GetStats(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, empty.ResponseRate)
	assert.Len(t, empty.ByStatus, 4)

	a1, _ := apps.Apply(ctx, alice, domain.ApplyInput{VacancyID: f.goVacancy.ID})
	_, _ = apps.Apply(ctx, alice, domain.ApplyInput{VacancyID: f.reactVacancy.ID})
	_, err = apps.UpdateStatus(ctx, alice, a1.ID, domain.ApplicationStatusInterview)
	require.NoError(t, err)
	require.NoError(t, f.analyses.Create(ctx, &domain.VacancyAnalysis{UserID: alice, MatchScore: 40}))
	require.NoError(t, f.analyses.Create(ctx, &domain.VacancyAnalysis{UserID: alice, MatchScore: 81}))

	first, err := stats.GetStats(ctx, alice)
	require.NoError(t, err)
	second, err := stats.GetStats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, 2, first.TotalApplications)
	assert.Equal(t, 1, first.Pending)
	assert.Equal(t, 1, first.Interviews)
	assert.Equal(t, 50.0, first.ResponseRate)
	assert.EqualValues(t, 3, first.UnreadNotifications)
	assert.Equal(t, 61, first.AverageMatch)
	assert.Equal(t, 2, first.Analyses)
}

func TestHealth(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("refused") }

	assert.Equal(t, domain.HealthStatus{Status: "ok", Database: "disabled", Redis: "disabled"},
		usecase.NewHealthUsecase(nil, nil).Check(context.Background()))
	assert.Equal(t, domain.HealthStatus{Status: "ok", Database: "up", Redis: "disabled"},
		usecase.NewHealthUsecase(up, nil).Check(context.Background()))
	assert.Equal(t, domain.HealthStatus{Status: "degraded", Database: "up", Redis: "down"},
		usecase.NewHealthUsecase(up, down).Check(context.Background()))
}
