package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"smartcareer-backend/internal/domain"
)

type notificationRepository struct {
	mu     sync.RWMutex
	items  map[int64]domain.Notification
	nextID int64
}

func NewNotificationRepository() domain.NotificationRepository {
	return &notificationRepository{items: make(map[int64]domain.Notification)}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	n.ID = r.nextID
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	r.items[n.ID] = *n
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &n, nil
}

func (r *notificationRepository) GetByUserID(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	r.mu.RLock()
	out := make([]domain.Notification, 0)
	for _, n := range r.items {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, n := range r.items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.Read = true
	r.items[id] = n
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for id, n := range r.items {
		if n.UserID == userID && !n.Read {
			n.Read = true
			r.items[id] = n
			updated++
		}
	}
	return updated, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
