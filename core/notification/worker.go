package notification

import (
	"context"
	"encoding/json"
	"net/mail"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

const dispatchBatchSize = 20

// Worker drains the outbox: it polls for due PENDING notifications, renders and sends
// each, and reschedules failures with exponential backoff until Outbox.MaxAttempts.
type Worker struct {
	repo    Repository
	mailSvc core.EmailService
	conf    *core.Config
	logger  core.Logger
}

func NewWorker(repo Repository, mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Worker {
	return &Worker{repo: repo, mailSvc: mailSvc, conf: conf, logger: logger}
}

// Run blocks until ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.conf.Outbox.PollInterval)
	defer ticker.Stop()

	w.logger.Info("notification worker started",
		map[string]interface{}{"poll_interval": w.conf.Outbox.PollInterval.String()})

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification worker stopping")
			return
		case <-ticker.C:
			if err := w.DispatchDue(ctx); err != nil {
				w.logger.Error("dispatching notifications failed", err)
			}
		}
	}
}

// DispatchDue processes one batch of due notifications. Exported so tests and the
// admin CLI can drive the outbox without the polling loop.
func (w *Worker) DispatchDue(ctx context.Context) error {
	now := time.Now().UTC()
	due, err := w.repo.ListDueNotifications(ctx, now, dispatchBatchSize)
	if err != nil {
		return err
	}

	for _, n := range due {
		if err := w.dispatch(n); err != nil {
			w.fail(ctx, n, err)
			continue
		}
		n.Status = StatusSent
		n.Attempts++
		n.LastError = null.String{}
		n.UpdatedAt = time.Now().UTC()
		if _, err := w.repo.UpdateNotification(ctx, n); err != nil {
			w.logger.Error("marking notification sent failed", err,
				map[string]interface{}{"notification_id": n.ID})
		}
	}
	return nil
}

func (w *Worker) dispatch(n Notification) error {
	var data map[string]interface{}
	if err := json.Unmarshal(n.Context, &data); err != nil {
		return err
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: n.RecipientName, Address: n.RecipientEmail}},
		Subject:      n.Subject,
		TemplateName: n.Template,
		TemplateData: data,
	}
	return w.mailSvc.Send(msg)
}

func (w *Worker) fail(ctx context.Context, n Notification, cause error) {
	now := time.Now().UTC()
	n.Attempts++
	n.LastError = null.StringFrom(cause.Error())
	n.UpdatedAt = now
	if n.Attempts >= w.conf.Outbox.MaxAttempts {
		n.Status = StatusFailed
		w.logger.Error("notification permanently failed", cause,
			map[string]interface{}{"notification_id": n.ID, "attempts": n.Attempts})
	} else {
		n.NextAttemptAt = now.Add(Backoff(n.Attempts))
		w.logger.Warn("notification dispatch failed, will retry", cause,
			map[string]interface{}{"notification_id": n.ID, "attempts": n.Attempts})
	}
	if _, err := w.repo.UpdateNotification(ctx, n); err != nil {
		w.logger.Error("rescheduling notification failed", err,
			map[string]interface{}{"notification_id": n.ID})
	}
}
