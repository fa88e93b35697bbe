package domain

import (
	"context"
	"time"
)

type NotificationType string

const (
	NotificationApplication NotificationType = "application"
	NotificationInterview   NotificationType = "interview"
	NotificationResponse    NotificationType = "response"
	NotificationVacancy     NotificationType = "vacancy"
	NotificationAI          NotificationType = "ai"
	NotificationSystem      NotificationType = "system"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id int64) (*Notification, error)
	GetByUserID(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type NotificationUsecase interface {
	Notify(ctx context.Context, userID string, kind NotificationType, title, message string) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID string, id int64) (*Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID string, id int64) error
}
