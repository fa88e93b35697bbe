package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	Position     string    `json:"position"`
	Skills       []string  `json:"skills"`
	Salary       string    `json:"salary"`
	Remote       bool      `json:"remote"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileUpdate carries a partial profile change; nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string  `json:"name" binding:"omitempty,min=2,max=100,valid_name"`
	Avatar   *string  `json:"avatar" binding:"omitempty,max=500"`
	Position *string  `json:"position" binding:"omitempty,max=120,no_emoji"`
	Skills   []string `json:"skills" binding:"omitempty,max=50,dive,min=1,max=50,valid_skill"`
	Salary   *string  `json:"salary" binding:"omitempty,max=60"`
	Remote   *bool    `json:"remote"`
	Location *string  `json:"location" binding:"omitempty,max=120"`
}

// Apply copies the set fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Position != nil {
		u.Position = *p.Position
	}
	if p.Skills != nil {
		u.Skills = p.Skills
	}
	if p.Salary != nil {
		u.Salary = *p.Salary
	}
	if p.Remote != nil {
		u.Remote = *p.Remote
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
}

// AuthResult is returned by login and register.
type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput carries client metadata for the failed-login tracker.
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
	RequestID string
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error)
	UploadAvatar(ctx context.Context, userID, filename string, data []byte) (*User, error)
}
