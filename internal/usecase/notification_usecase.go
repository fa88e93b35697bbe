package usecase

import (
	"context"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/apperror"
	"smartcareer-backend/pkg/metrics"
)

type notificationUsecase struct {
	repo    domain.NotificationRepository
	metrics *metrics.Manager
}

func NewNotificationUsecase(repo domain.NotificationRepository, m *metrics.Manager) domain.NotificationUsecase {
	return &notificationUsecase{repo: repo, metrics: m}
}

func (u *notificationUsecase) Notify(ctx context.Context, userID string, kind domain.NotificationType, title, message string) error {
	n := &domain.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if err := u.repo.Create(ctx, n); err != nil {
		return err
	}
	u.metrics.RecordNotification(string(kind))
	return nil
}

// ListNotifications also returns the unread count for the envelope meta.
func (u *notificationUsecase) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, int64, error) {
	list, err := u.repo.GetByUserID(ctx, userID, unreadOnly)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	unread, err := u.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return list, unread, nil
}

func (u *notificationUsecase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := u.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return count, nil
}

func (u *notificationUsecase) owned(ctx context.Context, userID string, id int64) (*domain.Notification, error) {
	n, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Notification not found")
	}
	if n.UserID != userID {
		return nil, apperror.NotFound("Notification not found")
	}
	return n, nil
}

func (u *notificationUsecase) MarkRead(ctx context.Context, userID string, id int64) (*domain.Notification, error) {
	n, err := u.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !n.Read {
		if err := u.repo.MarkRead(ctx, id); err != nil {
			return nil, notFoundOr(err, "Notification not found")
		}
		n.Read = true
	}
	return n, nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	updated, err := u.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return updated, nil
}

func (u *notificationUsecase) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := u.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Notification not found")
	}
	return nil
}
