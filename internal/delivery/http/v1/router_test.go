package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartcareer-backend/config"
	"smartcareer-backend/internal/delivery/http/middleware"
	v1 "smartcareer-backend/internal/delivery/http/v1"
	"smartcareer-backend/internal/domain"
	"smartcareer-backend/internal/repository/memory"
	"smartcareer-backend/internal/seed"
	"smartcareer-backend/internal/usecase"
	"smartcareer-backend/pkg/analyzer"
	"smartcareer-backend/pkg/auth"
	"smartcareer-backend/pkg/metrics"
	"smartcareer-backend/pkg/security"
	"smartcareer-backend/pkg/storage"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	Meta      json.RawMessage `json:"meta"`
	RequestID string          `json:"requestId"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Defaults()
	cfg.RateLimitGlobalThreshold = 1000
	cfg.RateLimitAuthThreshold = 1000
	if mutate != nil {
		mutate(cfg)
	}

	users := memory.NewUserRepository()
	vacancies := memory.NewVacancyRepository()
	applications := memory.NewApplicationRepository()
	notifications := memory.NewNotificationRepository()
	resumes := memory.NewResumeRepository()
	analyses := memory.NewAnalysisRepository()
	require.NoError(t, seed.Demo(context.Background(), seed.Repositories{
		Users: users, Vacancies: vacancies, Applications: applications,
		Notifications: notifications, Resumes: resumes,
	}))

	secLog := security.NewSecurityLogger(zap.NewNop(), "smartcareer", "test")
	m := metrics.NewManager()
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Hour)
	revocations := auth.NewMemoryRevocationStore()
	tracker := security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil, secLog)
	store := storage.NewMemoryStore("http://localhost:8080/api/files")
	keywords := analyzer.NewKeywordAnalyzer()

	notificationUC := usecase.NewNotificationUsecase(notifications, m)
	limiter := middleware.NewRateLimiter(nil, secLog)
	t.Cleanup(limiter.Close)

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         usecase.NewAuthUsecase(users, tokens, revocations, tracker, secLog, notificationUC, m),
		ProfileUC:      usecase.NewProfileUsecase(users, store, secLog, cfg.MaxAvatarBytes),
		ResumeUC:       usecase.NewResumeUsecase(resumes, store, secLog, cfg.MaxResumeBytes),
		VacancyUC:      usecase.NewVacancyUsecase(vacancies, users, keywords),
		ApplicationUC:  usecase.NewApplicationUsecase(applications, vacancies, resumes, notificationUC, m),
		NotificationUC: notificationUC,
		StatsUC:        usecase.NewStatsUsecase(applications, notifications, resumes, analyses),
		AIUC:           usecase.NewAIUsecase(keywords, users, vacancies, resumes, analyses, notificationUC, m),
		HealthUC:       usecase.NewHealthUsecase(nil, nil),
		Authenticator:  middleware.NewAuthenticator(tokens, revocations, secLog),
		RateLimiter:    limiter,
		Metrics:        m,
		Files:          store,
		Config:         cfg,
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
		if env.Success {
			assert.Empty(s.t, env.Error)
		} else {
			assert.NotEmpty(s.t, env.Error, "failure without error: %s", w.Body.String())
			assert.Empty(s.t, env.Data, "failure with data: %s", w.Body.String())
		}
	}
	return w, env
}

func (s *testServer) login() string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": seed.DemoEmail, "password": seed.DemoPassword,
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var res domain.AuthResult
	require.NoError(s.t, json.Unmarshal(env.Data, &res))
	return res.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w, env := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, env.RequestID, w.Header().Get("X-Request-ID"))

	health := decode[domain.HealthStatus](t, env.Data)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "disabled", health.Database)
}

func TestUnknownRouteIsEnvelope(t *testing.T) {
	s := newTestServer(t, nil)
	w, env := s.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Маршрут не найден", env.Error)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "Route not found")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/api/profile", "/api/applications", "/api/notifications", "/api/stats", "/api/resumes"} {
		w, env := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.False(t, env.Success)
	}

	w, _ := s.do(http.MethodGet, "/api/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginValidateLogout(t *testing.T) {
	s := newTestServer(t, nil)

	w, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": seed.DemoEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", env.Error)

	token := s.login()

	w, env = s.do(http.MethodGet, "/api/auth/validate", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	validated := decode[v1.ValidateResponse](t, env.Data)
	assert.True(t, validated.Valid)
	assert.Equal(t, seed.DemoEmail, validated.User.Email)

	w, _ = s.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/auth/validate", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t, nil)
	body := map[string]string{"name": "Мария Иванова", "email": "maria@example.com", "password": "secret1"}

	w, env := s.do(http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[domain.AuthResult](t, env.Data)
	assert.NotEmpty(t, res.Token)
	assert.Contains(t, w.Body.String(), `"createdAt"`)
	assert.NotContains(t, w.Body.String(), "PasswordHash")

	w, _ = s.do(http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"name": "М", "email": "bad", "password": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "Email")
}

func TestApplyWithoutVacancyID(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login()

	w, env := s.do(http.MethodPost, "/api/applications", token, map[string]string{"coverLetter": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Empty(t, env.Data)

	w, env = s.do(http.MethodPost, "/api/applications", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.Data)
}

func TestApplyAndChangeStatus(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login()

	w, env := s.do(http.MethodPost, "/api/applications", token, map[string]interface{}{"vacancyId": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	app := decode[domain.Application](t, env.Data)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)

	w, _ = s.do(http.MethodPost, "/api/applications", token, map[string]interface{}{"vacancyId": 2})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodPost, "/api/applications", token, map[string]interface{}{"vacancyId": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	path := "/api/applications/" + strconv.FormatInt(app.ID, 10)
	w, env = s.do(http.MethodPut, path, token, map[string]string{"status": "interview"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ApplicationStatusInterview, decode[domain.Application](t, env.Data).Status)

	w, _ = s.do(http.MethodPut, path, token, map[string]string{"status": "hired"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/applications/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVacancyRemoteFilter(t *testing.T) {
	s := newTestServer(t, nil)

	total := 0
	for _, remote := range []bool{true, false} {
		w, env := s.do(http.MethodGet, "/api/vacancies?limit=100&remote="+strconv.FormatBool(remote), "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[[]domain.Vacancy](t, env.Data)
		require.NotEmpty(t, list)
		for _, v := range list {
			assert.Equal(t, remote, v.Remote, v.Title)
		}
		total += len(list)
	}

	_, env := s.do(http.MethodGet, "/api/vacancies?limit=100", "", nil)
	assert.Len(t, decode[[]domain.Vacancy](t, env.Data), total)

	w, _ := s.do(http.MethodGet, "/api/vacancies?remote=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVacancySalaryFilter(t *testing.T) {
	s := newTestServer(t, nil)
	w, env := s.do(http.MethodGet, "/api/vacancies?limit=100&salary_min=200000", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	unparsable := 0
	for _, v := range decode[[]domain.Vacancy](t, env.Data) {
		floor, ok := domain.ParseSalaryFloor(v.Salary)
		if !ok {
			unparsable++
			continue
		}
		assert.GreaterOrEqual(t, floor, int64(200000), v.Salary)
	}
	assert.Equal(t, 2, unparsable)
}

func TestVacancyPagination(t *testing.T) {
	s := newTestServer(t, nil)

	_, all := s.do(http.MethodGet, "/api/vacancies?limit=100", "", nil)
	everything := decode[[]domain.Vacancy](t, all.Data)

	w, env := s.do(http.MethodGet, "/api/vacancies?limit=2&offset=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[[]domain.Vacancy](t, env.Data)
	meta := decode[domain.PageMeta](t, env.Meta)

	require.Len(t, page, 2)
	assert.Equal(t, everything[1].ID, page[0].ID)
	assert.Equal(t, everything[2].ID, page[1].ID)
	assert.EqualValues(t, len(everything), meta.Total)
	assert.Equal(t, 2, meta.Limit)
	assert.Equal(t, 1, meta.Offset)
	assert.Equal(t, int64(1+2) < meta.Total, meta.HasMore)

	_, env = s.do(http.MethodGet, "/api/vacancies?limit=5&offset="+strconv.Itoa(len(everything)-1), "", nil)
	meta = decode[domain.PageMeta](t, env.Meta)
	assert.False(t, meta.HasMore)
	assert.Len(t, decode[[]domain.Vacancy](t, env.Data), 1)
}

func TestVacancyMatchNeedsToken(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login()

	_, anon := s.do(http.MethodGet, "/api/vacancies/1", "", nil)
	assert.Zero(t, decode[domain.Vacancy](t, anon.Data).AIMatch)

	_, mine := s.do(http.MethodGet, "/api/vacancies/1", token, nil)
	assert.Positive(t, decode[domain.Vacancy](t, mine.Data).AIMatch)

	w, _ := s.do(http.MethodGet, "/api/vacancies/1", "garbage", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatsAreIdempotent(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login()

	w1, first := s.do(http.MethodGet, "/api/stats", token, nil)
	w2, second := s.do(http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, w1.Code)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.JSONEq(t, string(first.Data), string(second.Data))

	stats := decode[domain.Stats](t, first.Data)
	assert.Equal(t, 3, stats.TotalApplications)
	assert.EqualValues(t, 2, stats.UnreadNotifications)
}

func TestNotificationsUnreadCount(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login()

	_, env := s.do(http.MethodGet, "/api/notifications/unread-count", token, nil)
	assert.EqualValues(t, 2, decode[v1.CountResponse](t, env.Data).Count)

	_, env = s.do(http.MethodGet, "/api/notifications?unread=true", token, nil)
	unread := decode[[]domain.Notification](t, env.Data)
	require.Len(t, unread, 2)
	assert.EqualValues(t, 2, decode[v1.NotificationMeta](t, env.Meta).Unread)

	w, _ := s.do(http.MethodPut, "/api/notifications/"+strconv.FormatInt(unread[0].ID, 10)+"/read", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env = s.do(http.MethodGet, "/api/notifications/unread-count", token, nil)
	assert.EqualValues(t, 1, decode[v1.CountResponse](t, env.Data).Count)

	_, env = s.do(http.MethodPut, "/api/notifications/read-all", token, nil)
	assert.EqualValues(t, 1, decode[v1.UpdatedResponse](t, env.Data).Updated)
}

func TestAnalyzeRequiresInput(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login()

	w, env := s.do(http.MethodPost, "/api/ai/analyze-vacancy", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "vacancyId or text is required", env.Error)

	w, env = s.do(http.MethodPost, "/api/ai/analyze-vacancy", token, map[string]interface{}{"vacancyId": 1})
	require.Equal(t, http.StatusOK, w.Code)
	analysis := decode[domain.VacancyAnalysis](t, env.Data)
	assert.Equal(t, analyzer.SourceKeyword, analysis.Source)

	_, env = s.do(http.MethodGet, "/api/ai/analysis-history", token, nil)
	assert.Len(t, decode[[]domain.VacancyAnalysis](t, env.Data), 1)
}

func TestExportDownload(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login()

	w, _ := s.do(http.MethodGet, "/api/applications/export?format=csv", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "Senior Go Developer")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimitGlobalThreshold = 3
	})
	for i := 0; i < 3; i++ {
		w, _ := s.do(http.MethodGet, "/api/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, env := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/vacancies", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/vacancies", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(http.MethodGet, "/api/health", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "smartcareer_http_requests_total")
}
