package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

type fakeRepo struct {
	byEmail   map[string]Staff
	byStaffID map[string]Staff
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: make(map[string]Staff), byStaffID: make(map[string]Staff)}
}

func (r *fakeRepo) CheckStaffUniqueness(_ context.Context, email, staffID string) error {
	if _, ok := r.byEmail[email]; ok {
		return ErrEmailExists
	}
	if _, ok := r.byStaffID[staffID]; ok {
		return ErrStaffIDExists
	}
	return nil
}

func (r *fakeRepo) CreateStaff(_ context.Context, st Staff) (Staff, error) {
	r.byEmail[st.Email] = st
	r.byStaffID[st.StaffID] = st
	return st, nil
}

func (r *fakeRepo) GetStaffByUserID(_ context.Context, userID string) (Staff, error) {
	for _, st := range r.byEmail {
		if st.UserID == userID {
			return st, nil
		}
	}
	return Staff{}, ErrNotFound
}

func (r *fakeRepo) GetStaffByEmail(_ context.Context, email string) (Staff, error) {
	st, ok := r.byEmail[email]
	if !ok {
		return Staff{}, ErrNotFound
	}
	return st, nil
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

func TestService_Create(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := NewService(repo, mailer, core.NewTestConfig(), core.NopLogger{})
	ctx := context.Background()

	st, err := svc.Create(ctx, NewStaff{
		Email:       "Jane.Doe@Example.com",
		FullName:    "Jane Doe",
		PhoneNumber: "+255700000001",
		Role:        RoleManager,
		StaffID:     "FL_0042",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, st.UserID)
	assert.Equal(t, "jane.doe@example.com", st.Email)
	assert.True(t, st.IsActive)
	assert.NotEmpty(t, st.PasswordHash)

	// welcome email carries the credentials
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "jane.doe@example.com", mailer.sent[0].To[0].Address)
	assert.Contains(t, mailer.sent[0].BodyStr, "FL_0042")
}

func TestService_Create_Duplicates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeMailer{}, core.NewTestConfig(), core.NopLogger{})
	ctx := context.Background()

	ns := NewStaff{
		Email: "jane@example.com", FullName: "Jane", PhoneNumber: "+255700000001",
		Role: RoleAdmin, StaffID: "FL_0001",
	}
	_, err := svc.Create(ctx, ns)
	require.NoError(t, err)

	_, err = svc.Create(ctx, ns)
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Fields[0].Field)

	ns.Email = "other@example.com"
	_, err = svc.Create(ctx, ns)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "staffId", vErr.Fields[0].Field)
}
