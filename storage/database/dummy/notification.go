package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/Apollox9/fusion-loom-sub002/core/notification"
)

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(_ context.Context, n notification.Notification) (notification.Notification, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.notifications[n.ID] = &n
	return n, nil
}

func (repo *notificationRepository) ListDueNotifications(_ context.Context, now time.Time, limit int) ([]notification.Notification, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	due := make([]notification.Notification, 0)
	for _, n := range repo.db.notifications {
		if n.Status == notification.StatusPending && !n.NextAttemptAt.After(now) {
			due = append(due, *n)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextAttemptAt.Before(due[j].NextAttemptAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (repo *notificationRepository) UpdateNotification(_ context.Context, n notification.Notification) (notification.Notification, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.notifications[n.ID] = &n
	return n, nil
}
