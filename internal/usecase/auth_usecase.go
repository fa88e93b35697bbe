package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/apperror"
	"smartcareer-backend/pkg/auth"
	"smartcareer-backend/pkg/logger"
	"smartcareer-backend/pkg/metrics"
	"smartcareer-backend/pkg/security"
)

const invalidCredentials = "Invalid email or password"

// missingUserHash is compared against when the email is unknown so both
// failure paths pay for one bcrypt comparison.
var missingUserHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

func passwordMatches(user *domain.User, password string) bool {
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(missingUserHash(), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

type authUsecase struct {
	userRepo      domain.UserRepository
	tokens        *auth.TokenManager
	revocations   auth.RevocationStore
	tracker       *security.LoginTracker
	secLog        *security.SecurityLogger
	notifications domain.NotificationUsecase
	metrics       *metrics.Manager
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	tokens *auth.TokenManager,
	revocations auth.RevocationStore,
	tracker *security.LoginTracker,
	secLog *security.SecurityLogger,
	notifications domain.NotificationUsecase,
	m *metrics.Manager,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:      userRepo,
		tokens:        tokens,
		revocations:   revocations,
		tracker:       tracker,
		secLog:        secLog,
		notifications: notifications,
		metrics:       m,
	}
}

func (u *authUsecase) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := u.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("User with this email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Skills:       []string{},
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.Conflict("User with this email already exists")
		}
		return nil, apperror.Internal(err)
	}

	u.secLog.LogRegistered(ctx, user.ID)

	if u.notifications != nil {
		err := u.notifications.Notify(ctx, user.ID, domain.NotificationSystem,
			"Добро пожаловать в SmartCareer",
			"Заполните профиль и навыки, чтобы получать точные рекомендации вакансий")
		if err != nil {
			logger.Log.Warn("Failed to create welcome notification", "user_id", user.ID, "error", err)
		}
	}

	return u.issue(user)
}

func (u *authUsecase) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	blocked, err := u.tracker.IsBlocked(ctx, email, in.IP)
	if err != nil {
		// fail open
		logger.Log.Warn("Login tracker unavailable", "error", err)
	}
	if blocked {
		u.secLog.LogLoginBlocked(ctx, email, in.IP, in.UserAgent, in.RequestID)
		u.metrics.RecordLogin(metrics.LoginBlocked)
		return nil, u.blockedError()
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if !passwordMatches(user, in.Password) {
		u.metrics.RecordLogin(metrics.LoginFailed)
		nowBlocked, _, trackErr := u.tracker.RecordFailedAttempt(ctx, email, in.IP, in.UserAgent, in.RequestID)
		if trackErr != nil {
			logger.Log.Warn("Failed to record login attempt", "error", trackErr)
		}
		if nowBlocked {
			return nil, u.blockedError()
		}
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	if err := u.tracker.ClearAttempts(ctx, email, in.IP); err != nil {
		logger.Log.Warn("Failed to clear login attempts", "error", err)
	}
	u.secLog.LogLoginSuccess(ctx, user.ID, in.IP, in.UserAgent, in.RequestID)
	u.metrics.RecordLogin(metrics.LoginSuccess)

	return u.issue(user)
}

func (u *authUsecase) blockedError() error {
	minutes := int(u.tracker.BlockDuration().Minutes())
	return apperror.TooManyRequests(fmt.Sprintf("Too many failed login attempts. Try again in %d minutes", minutes))
}

func (u *authUsecase) issue(user *domain.User) (*domain.AuthResult, error) {
	token, claims, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	if err := u.revocations.Revoke(ctx, tokenID, expiresAt); err != nil {
		return apperror.Internal(err)
	}
	u.secLog.LogLogout(ctx, tokenID)
	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}
