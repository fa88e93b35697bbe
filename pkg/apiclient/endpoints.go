package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"smartcareer-backend/internal/domain"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResumeRequest struct {
	Name    string   `json:"name,omitempty"`
	Content string   `json:"content,omitempty"`
	Skills  []string `json:"skills,omitempty"`
}

type ApplyRequest struct {
	VacancyID   int64  `json:"vacancyId"`
	ResumeID    *int64 `json:"resumeId,omitempty"`
	CoverLetter string `json:"coverLetter,omitempty"`
}

type AnalyzeRequest struct {
	VacancyID *int64 `json:"vacancyId,omitempty"`
	Text      string `json:"text,omitempty"`
	ResumeID  *int64 `json:"resumeId,omitempty"`
}

// VacancyQuery holds the /vacancies filters; zero values are not sent.
type VacancyQuery struct {
	Remote    *bool
	SalaryMin int64
	Search    string
	Tag       string
	Location  string
	Limit     int
	Offset    int
}

func (q VacancyQuery) values() url.Values {
	v := url.Values{}
	if q.Remote != nil {
		v.Set("remote", strconv.FormatBool(*q.Remote))
	}
	if q.SalaryMin > 0 {
		v.Set("salary_min", strconv.FormatInt(q.SalaryMin, 10))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

// NotificationMeta is the meta block of the notification list.
type NotificationMeta struct {
	Total  int   `json:"total"`
	Unread int64 `json:"unread"`
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}

// Health

func (c *Client) Health(ctx context.Context) (*domain.HealthStatus, error) {
	var out domain.HealthStatus
	if err := c.do(ctx, call{method: http.MethodGet, path: "/health", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Auth. These calls do not touch the token store; Session does.

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/logout"})
}

// Validate returns the user owning the current token.
func (c *Client) Validate(ctx context.Context) (*domain.User, error) {
	var out struct {
		Valid bool         `json:"valid"`
		User  *domain.User `json:"user"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/validate", out: &out}); err != nil {
		return nil, err
	}
	if !out.Valid || out.User == nil {
		return nil, &Error{Kind: KindUnauthorized, Status: http.StatusOK, Message: "token is not valid"}
	}
	return out.User, nil
}

// Profile

func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/profile", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, call{method: http.MethodPut, path: "/profile", body: update, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*domain.User, error) {
	var out domain.User
	if err := c.upload(ctx, "/profile/avatar", "avatar", filename, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Resumes

func (c *Client) Resumes(ctx context.Context) ([]domain.Resume, error) {
	var out []domain.Resume
	if err := c.do(ctx, call{method: http.MethodGet, path: "/resumes", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Resume(ctx context.Context, resumeID int64) (*domain.Resume, error) {
	var out domain.Resume
	if err := c.do(ctx, call{method: http.MethodGet, path: "/resumes/" + itoa64(resumeID), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateResume(ctx context.Context, req ResumeRequest) (*domain.Resume, error) {
	var out domain.Resume
	if err := c.do(ctx, call{method: http.MethodPost, path: "/resumes", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateResume(ctx context.Context, resumeID int64, req ResumeRequest) (*domain.Resume, error) {
	var out domain.Resume
	if err := c.do(ctx, call{method: http.MethodPut, path: "/resumes/" + itoa64(resumeID), body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteResume(ctx context.Context, resumeID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/resumes/" + itoa64(resumeID)})
}

func (c *Client) UploadResumeFile(ctx context.Context, resumeID int64, filename string, r io.Reader) (*domain.Resume, error) {
	var out domain.Resume
	if err := c.upload(ctx, "/resumes/"+itoa64(resumeID)+"/file", "file", filename, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Vacancies

func (c *Client) Vacancies(ctx context.Context, q VacancyQuery) ([]domain.Vacancy, domain.PageMeta, error) {
	var (
		out  []domain.Vacancy
		meta domain.PageMeta
	)
	err := c.do(ctx, call{method: http.MethodGet, path: "/vacancies", query: q.values(), out: &out, meta: &meta})
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return out, meta, nil
}

func (c *Client) Vacancy(ctx context.Context, vacancyID int64) (*domain.Vacancy, error) {
	var out domain.Vacancy
	if err := c.do(ctx, call{method: http.MethodGet, path: "/vacancies/" + itoa64(vacancyID), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Applications

// Applications lists the user's applications; an empty status lists all.
func (c *Client) Applications(ctx context.Context, status domain.ApplicationStatus) ([]domain.Application, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	var out []domain.Application
	if err := c.do(ctx, call{method: http.MethodGet, path: "/applications", query: q, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Application(ctx context.Context, applicationID int64) (*domain.Application, error) {
	var out domain.Application
	if err := c.do(ctx, call{method: http.MethodGet, path: "/applications/" + itoa64(applicationID), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Apply(ctx context.Context, req ApplyRequest) (*domain.Application, error) {
	var out domain.Application
	if err := c.do(ctx, call{method: http.MethodPost, path: "/applications", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, applicationID int64, status domain.ApplicationStatus) (*domain.Application, error) {
	body := map[string]string{"status": string(status)}
	var out domain.Application
	if err := c.do(ctx, call{method: http.MethodPut, path: "/applications/" + itoa64(applicationID), body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) WithdrawApplication(ctx context.Context, applicationID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/applications/" + itoa64(applicationID)})
}

// ExportApplications downloads the application list as "xlsx" or "csv".
func (c *Client) ExportApplications(ctx context.Context, format string) (*Download, error) {
	q := url.Values{}
	if format != "" {
		q.Set("format", format)
	}
	return c.download(ctx, "/applications/export", q)
}

// Notifications

func (c *Client) Notifications(ctx context.Context, unreadOnly bool) ([]domain.Notification, NotificationMeta, error) {
	q := url.Values{}
	if unreadOnly {
		q.Set("unread", "true")
	}
	var (
		out  []domain.Notification
		meta NotificationMeta
	)
	err := c.do(ctx, call{method: http.MethodGet, path: "/notifications", query: q, out: &out, meta: &meta})
	if err != nil {
		return nil, NotificationMeta{}, err
	}
	return out, meta, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var out struct {
		Count int64 `json:"count"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/notifications/unread-count", out: &out}); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, notificationID int64) (*domain.Notification, error) {
	var out domain.Notification
	path := "/notifications/" + itoa64(notificationID) + "/read"
	if err := c.do(ctx, call{method: http.MethodPut, path: path, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkAllNotificationsRead returns how many notifications changed.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	var out struct {
		Updated int64 `json:"updated"`
	}
	if err := c.do(ctx, call{method: http.MethodPut, path: "/notifications/read-all", out: &out}); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

func (c *Client) DeleteNotification(ctx context.Context, notificationID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/notifications/" + itoa64(notificationID)})
}

// Stats

func (c *Client) Stats(ctx context.Context) (*domain.Stats, error) {
	var out domain.Stats
	if err := c.do(ctx, call{method: http.MethodGet, path: "/stats", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// AI

func (c *Client) AnalyzeVacancy(ctx context.Context, req AnalyzeRequest) (*domain.VacancyAnalysis, error) {
	var out domain.VacancyAnalysis
	if err := c.do(ctx, call{method: http.MethodPost, path: "/ai/analyze-vacancy", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalysisHistory returns the newest analyses first; limit <= 0 uses the
// server default.
func (c *Client) AnalysisHistory(ctx context.Context, limit int) ([]domain.VacancyAnalysis, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []domain.VacancyAnalysis
	if err := c.do(ctx, call{method: http.MethodGet, path: "/ai/analysis-history", query: q, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdaptResume(ctx context.Context, resumeID, vacancyID int64) (*domain.Resume, error) {
	body := map[string]int64{"resumeId": resumeID, "vacancyId": vacancyID}
	var out domain.Resume
	if err := c.do(ctx, call{method: http.MethodPost, path: "/ai/adapt-resume", body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) upload(ctx context.Context, path, field, filename string, r io.Reader, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.do(ctx, call{
		method:      http.MethodPost,
		path:        path,
		body:        &buf,
		contentType: w.FormDataContentType(),
		out:         out,
	})
}
