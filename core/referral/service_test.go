package referral

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/Apollox9/fusion-loom-sub002/core"
	"github.com/Apollox9/fusion-loom-sub002/core/notification"
	"github.com/Apollox9/fusion-loom-sub002/core/order"
	"github.com/Apollox9/fusion-loom-sub002/core/staff"
)

type fakeRepo struct {
	codes   map[string]Code // by code string
	codeIDs map[string]Code // by id
	agents  map[string]Agent
	schools map[string]School
}

func (r *fakeRepo) GetCodeByCode(_ context.Context, code string) (Code, error) {
	c, ok := r.codes[code]
	if !ok {
		return Code{}, ErrCodeNotFound
	}
	return c, nil
}

func (r *fakeRepo) GetCodeByID(_ context.Context, id string) (Code, error) {
	c, ok := r.codeIDs[id]
	if !ok {
		return Code{}, ErrCodeNotFound
	}
	return c, nil
}

func (r *fakeRepo) GetAgentByID(_ context.Context, id string) (Agent, error) {
	a, ok := r.agents[id]
	if !ok {
		return Agent{}, ErrAgentNotFound
	}
	return a, nil
}

func (r *fakeRepo) GetSchoolByID(_ context.Context, id string) (School, error) {
	s, ok := r.schools[id]
	if !ok {
		return School{}, ErrSchoolNotFound
	}
	return s, nil
}

type fakeStaffDir struct {
	staff map[string]staff.Staff
}

func (d *fakeStaffDir) GetByUserID(_ context.Context, userID string) (staff.Staff, error) {
	st, ok := d.staff[userID]
	if !ok {
		return staff.Staff{}, staff.ErrNotFound
	}
	return st, nil
}

type fakeOrders struct {
	orders []order.Order
}

func (f *fakeOrders) FirstOrder(_ context.Context, schoolID, orderID string) (bool, error) {
	var matched []order.Order
	for _, o := range f.orders {
		if o.SchoolID == schoolID {
			matched = append(matched, o)
		}
	}
	return len(matched) > 0 && matched[0].ID == orderID, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, id string) (order.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return order.Order{}, order.ErrOrderNotFound
}

type fakeOutbox struct {
	queued []notification.NewNotification
}

func (o *fakeOutbox) Enqueue(_ context.Context, nn notification.NewNotification) (notification.Notification, error) {
	o.queued = append(o.queued, nn)
	return notification.Notification{ID: "n-1", Template: nn.Template}, nil
}

type fakeMailer struct {
	sent []*core.EmailMessage
}

func (m *fakeMailer) Send(msg *core.EmailMessage) error {
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

func setup() (*Service, *fakeRepo, *fakeOrders, *fakeOutbox, *fakeMailer) {
	code := Code{ID: "code-1", Code: "KIJANI25", AgentID: "agent-1", CreditWorthFactor: 1.5}
	repo := &fakeRepo{
		codes:   map[string]Code{"KIJANI25": code},
		codeIDs: map[string]Code{"code-1": code},
		agents:  map[string]Agent{"agent-1": {ID: "agent-1", StaffUserID: "user-7", IsActive: true}},
		schools: map[string]School{
			"sch-1": {ID: "sch-1", Name: "Mlimani Primary", SignupCodeID: null.StringFrom("code-1")},
			"sch-2": {ID: "sch-2", Name: "Tumaini Secondary"},
		},
	}
	staffDir := &fakeStaffDir{staff: map[string]staff.Staff{
		"user-7": {UserID: "user-7", FullName: "Amina Saidi", Email: "amina@example.com"},
	}}
	orders := &fakeOrders{}
	outbox := &fakeOutbox{}
	mailer := &fakeMailer{}
	svc := NewService(repo, staffDir, orders, outbox, mailer, core.NewTestConfig(), core.NopLogger{})
	return svc, repo, orders, outbox, mailer
}

func TestCommission(t *testing.T) {
	assert.InDelta(t, 3000.0, Commission(100000, 0.02, 1.5), 1e-9)
	assert.InDelta(t, 2000.0, Commission(100000, 0.02, 1.0), 1e-9)
	assert.InDelta(t, 0.0, Commission(0, 0.02, 1.5), 1e-9)
}

func TestService_NotifyCodeUsed(t *testing.T) {
	svc, _, _, outbox, _ := setup()

	res, err := svc.NotifyCodeUsed(context.Background(), CodeUsedEvent{Code: "KIJANI25", SchoolID: "sch-1"})
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, "n-1", res.NotificationID)

	require.Len(t, outbox.queued, 1)
	nn := outbox.queued[0]
	assert.Equal(t, notification.TemplateCodeUsed, nn.Template)
	assert.Equal(t, "amina@example.com", nn.RecipientEmail)

	data := nn.Context.(map[string]interface{})
	assert.Equal(t, "KIJANI25", data["Code"])
	assert.Equal(t, "Mlimani Primary", data["SchoolName"])
}

func TestService_NotifyCodeUsed_UnknownCode(t *testing.T) {
	svc, _, _, _, _ := setup()

	_, err := svc.NotifyCodeUsed(context.Background(), CodeUsedEvent{Code: "NOPE", SchoolID: "sch-1"})
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestService_NotifyFirstOrder(t *testing.T) {
	svc, _, orders, outbox, _ := setup()
	now := time.Now().UTC()
	orders.orders = []order.Order{
		{ID: "ord-1", SchoolID: "sch-1", Amount: 100000, CreatedAt: now.Add(-time.Hour)},
	}

	res, err := svc.NotifyFirstOrder(context.Background(), FirstOrderEvent{OrderID: "ord-1", SchoolID: "sch-1"})
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.InDelta(t, 3000.0, res.Commission, 1e-9) // 100000 × 0.02 × 1.5

	require.Len(t, outbox.queued, 1)
	assert.Equal(t, notification.TemplateFirstOrder, outbox.queued[0].Template)
}

func TestService_NotifyFirstOrder_NotFirst(t *testing.T) {
	svc, _, orders, outbox, _ := setup()
	now := time.Now().UTC()
	orders.orders = []order.Order{
		{ID: "ord-1", SchoolID: "sch-1", Amount: 50000, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "ord-2", SchoolID: "sch-1", Amount: 100000, CreatedAt: now.Add(-time.Hour)},
	}

	res, err := svc.NotifyFirstOrder(context.Background(), FirstOrderEvent{OrderID: "ord-2", SchoolID: "sch-1"})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, "Not first order, skipped", res.Reason)
	assert.Empty(t, outbox.queued)
}

func TestService_NotifyFirstOrder_NoReferral(t *testing.T) {
	svc, _, orders, outbox, _ := setup()
	orders.orders = []order.Order{{ID: "ord-3", SchoolID: "sch-2", Amount: 80000}}

	res, err := svc.NotifyFirstOrder(context.Background(), FirstOrderEvent{OrderID: "ord-3", SchoolID: "sch-2"})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, "No referral found, skipped", res.Reason)
	assert.Empty(t, outbox.queued)
}

func TestService_SendAgentEmail(t *testing.T) {
	svc, _, _, _, mailer := setup()
	ctx := context.Background()

	msg, err := svc.SendAgentEmail(ctx, AgentEmail{
		Type:       notification.TemplateCodeUsed,
		AgentName:  "Amina Saidi",
		AgentEmail: "amina@example.com",
		SchoolName: "Mlimani Primary",
		Code:       "KIJANI25",
	})
	require.NoError(t, err)
	assert.Equal(t, notification.TemplateCodeUsed, msg.TemplateName)
	assert.Len(t, mailer.sent, 1)

	_, err = svc.SendAgentEmail(ctx, AgentEmail{
		Type: "bogus", AgentName: "A", AgentEmail: "a@example.com", SchoolName: "S",
	})
	assert.ErrorIs(t, err, ErrUnknownType)
}
