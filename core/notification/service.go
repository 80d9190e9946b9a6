package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("notification not found")

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		// ListDueNotifications returns PENDING rows whose next_attempt_at is not
		// after now, oldest first, capped at limit.
		ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]Notification, error)
		UpdateNotification(ctx context.Context, n Notification) (Notification, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Enqueue stores an outbound email for the dispatch worker to pick up.
func (svc *Service) Enqueue(ctx context.Context, nn NewNotification) (Notification, error) {
	data, err := json.Marshal(nn.Context)
	if err != nil {
		return Notification{}, errors.Wrap(err, "encoding notification context")
	}

	now := time.Now().UTC()
	n := Notification{
		ID:             uuid.NewString(),
		Template:       nn.Template,
		RecipientName:  nn.RecipientName,
		RecipientEmail: nn.RecipientEmail,
		Subject:        nn.Subject,
		Context:        data,
		Status:         StatusPending,
		NextAttemptAt:  now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	n, err = svc.repo.CreateNotification(ctx, n)
	if err != nil {
		return Notification{}, errors.Wrap(err, "enqueueing notification")
	}
	return n, nil
}
