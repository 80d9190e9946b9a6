package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

type fakeRepo struct {
	rows map[string]Notification
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]Notification)}
}

func (r *fakeRepo) CreateNotification(_ context.Context, n Notification) (Notification, error) {
	r.rows[n.ID] = n
	return n, nil
}

func (r *fakeRepo) ListDueNotifications(_ context.Context, now time.Time, limit int) ([]Notification, error) {
	var due []Notification
	for _, n := range r.rows {
		if n.Status == StatusPending && !n.NextAttemptAt.After(now) {
			due = append(due, n)
		}
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (r *fakeRepo) UpdateNotification(_ context.Context, n Notification) (Notification, error) {
	r.rows[n.ID] = n
	return n, nil
}

type fakeMailer struct {
	sent []*core.EmailMessage
	err  error
}

func (m *fakeMailer) Send(msg *core.EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		_ = m.Send(msg)
	}
}

func enqueue(t *testing.T, svc *Service) Notification {
	t.Helper()
	n, err := svc.Enqueue(context.Background(), NewNotification{
		Template:       TemplateCodeUsed,
		RecipientName:  "Amina Saidi",
		RecipientEmail: "amina@example.com",
		Subject:        "Your referral code was used",
		Context:        map[string]interface{}{"AgentName": "Amina Saidi", "Code": "KIJANI25", "SchoolName": "Mlimani Primary"},
	})
	require.NoError(t, err)
	return n
}

func TestWorker_DispatchDue_Sends(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	mailer := &fakeMailer{}
	w := NewWorker(repo, mailer, core.NewTestConfig(), core.NopLogger{})

	n := enqueue(t, svc)

	require.NoError(t, w.DispatchDue(context.Background()))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "amina@example.com", mailer.sent[0].To[0].Address)
	assert.Equal(t, TemplateCodeUsed, mailer.sent[0].TemplateName)

	got := repo.rows[n.ID]
	assert.Equal(t, StatusSent, got.Status)
	assert.Equal(t, 1, got.Attempts)
}

func TestWorker_DispatchDue_RetriesWithBackoff(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	mailer := &fakeMailer{err: assert.AnError}
	w := NewWorker(repo, mailer, core.NewTestConfig(), core.NopLogger{})

	n := enqueue(t, svc)

	require.NoError(t, w.DispatchDue(context.Background()))
	got := repo.rows[n.ID]
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.True(t, got.NextAttemptAt.After(time.Now().UTC()))
	assert.Equal(t, assert.AnError.Error(), got.LastError.String)

	// not due anymore: second pass is a no-op
	require.NoError(t, w.DispatchDue(context.Background()))
	assert.Equal(t, 1, repo.rows[n.ID].Attempts)
}

func TestWorker_DispatchDue_FailsPermanently(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	mailer := &fakeMailer{err: assert.AnError}
	conf := core.NewTestConfig() // MaxAttempts: 3
	w := NewWorker(repo, mailer, conf, core.NopLogger{})

	n := enqueue(t, svc)

	for i := 0; i < conf.Outbox.MaxAttempts; i++ {
		// force due
		row := repo.rows[n.ID]
		row.NextAttemptAt = time.Now().UTC().Add(-time.Second)
		repo.rows[n.ID] = row
		require.NoError(t, w.DispatchDue(context.Background()))
	}

	got := repo.rows[n.ID]
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, conf.Outbox.MaxAttempts, got.Attempts)
}
