package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core/notification"
)

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *sqlx.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO notification (
			id, template, recipient_name, recipient_email, subject, context,
			status, attempts, next_attempt_at, last_error, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		n.ID, n.Template, n.RecipientName, n.RecipientEmail, n.Subject, n.Context,
		n.Status, n.Attempts, n.NextAttemptAt, n.LastError, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "creating notification")
	}
	return n, nil
}

func (repo notificationRepository) ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]notification.Notification, error) {
	var due []notification.Notification
	err := repo.db.SelectContext(ctx, &due, `
		SELECT * FROM notification
		WHERE status = $1 AND next_attempt_at <= $2
		ORDER BY next_attempt_at ASC LIMIT $3`,
		notification.StatusPending, now, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "listing due notifications")
	}
	return due, nil
}

func (repo notificationRepository) UpdateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	_, err := repo.db.ExecContext(ctx, `
		UPDATE notification SET
			status = $1, attempts = $2, next_attempt_at = $3, last_error = $4, updated_at = $5
		WHERE id = $6`,
		n.Status, n.Attempts, n.NextAttemptAt, n.LastError, n.UpdatedAt, n.ID,
	)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "updating notification")
	}
	return n, nil
}
