package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

type fakeRepo struct {
	operators map[string]Operator
	sessions  map[string]Session
	schools   map[string]School
	classes   map[string]Class
	students  map[string]Student
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		operators: make(map[string]Operator),
		sessions:  make(map[string]Session),
		schools:   make(map[string]School),
		classes:   make(map[string]Class),
		students:  make(map[string]Student),
	}
}

func (r *fakeRepo) GetOperatorByID(_ context.Context, id string) (Operator, error) {
	op, ok := r.operators[id]
	if !ok {
		return Operator{}, ErrOperatorNotFound
	}
	return op, nil
}

func (r *fakeRepo) GetSessionByOperatorAndPasscode(_ context.Context, operatorID, passcode string) (Session, error) {
	for _, s := range r.sessions {
		if s.OperatorID == operatorID && s.ServicePasscode == passcode {
			return s, nil
		}
	}
	return Session{}, ErrSessionNotFound
}

func (r *fakeRepo) GetSessionByID(_ context.Context, id string) (Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (r *fakeRepo) UpdateSession(_ context.Context, sess Session) (Session, error) {
	r.sessions[sess.ID] = sess
	return sess, nil
}

func (r *fakeRepo) GetSchoolByID(_ context.Context, id string) (School, error) {
	s, ok := r.schools[id]
	if !ok {
		return School{}, ErrSchoolNotFound
	}
	return s, nil
}

func (r *fakeRepo) ListClassesBySession(_ context.Context, sessionID string) ([]Class, error) {
	var out []Class
	for _, c := range r.classes {
		if c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetClassByID(_ context.Context, id string) (Class, error) {
	c, ok := r.classes[id]
	if !ok {
		return Class{}, ErrClassNotFound
	}
	return c, nil
}

func (r *fakeRepo) UpdateClass(_ context.Context, cls Class) (Class, error) {
	r.classes[cls.ID] = cls
	return cls, nil
}

func (r *fakeRepo) GetStudentByID(_ context.Context, id string) (Student, error) {
	s, ok := r.students[id]
	if !ok {
		return Student{}, ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeRepo) UpdateStudent(_ context.Context, st Student) (Student, error) {
	r.students[st.ID] = st
	return st, nil
}

func seed(repo *fakeRepo) {
	repo.operators["op-1"] = Operator{ID: "op-1", FullName: "Asha Mrema", IsActive: true}
	repo.schools["sch-1"] = School{ID: "sch-1", Name: "Mlimani Primary"}
	repo.sessions["sess-1"] = Session{
		ID: "sess-1", SchoolID: "sch-1", OperatorID: "op-1",
		ServicePasscode: "482913", Status: StatusConfirmed,
	}
	repo.classes["cls-1"] = Class{ID: "cls-1", SessionID: "sess-1", Name: "Standard 4A"}
	repo.classes["cls-2"] = Class{ID: "cls-2", SessionID: "sess-1", Name: "Standard 4B"}
	repo.students["stu-1"] = Student{ID: "stu-1", ClassID: "cls-1", FullName: "Juma Khamis", DarkGarmentCount: 2, LightGarmentCount: 1}
}

func TestService_Init(t *testing.T) {
	repo := newFakeRepo()
	seed(repo)
	svc := NewService(repo)
	ctx := context.Background()

	res, err := svc.Init(ctx, "op-1", "482913")
	require.NoError(t, err)
	assert.Equal(t, "op-1", res.Operator.ID)
	assert.Equal(t, "sess-1", res.Session.ID)
	assert.Equal(t, "sch-1", res.School.ID)
	assert.Len(t, res.Classes, 2)

	_, err = svc.Init(ctx, "op-404", "482913")
	assert.ErrorIs(t, err, ErrOperatorNotFound)

	_, err = svc.Init(ctx, "op-1", "000000")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_UpdateSession_StatusValidation(t *testing.T) {
	repo := newFakeRepo()
	seed(repo)
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.UpdateSession(ctx, "sess-1", UpdateSession{Status: null.StringFrom("BOGUS")})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	for _, st := range Statuses {
		assert.Contains(t, vErr.Error(), st)
	}

	// all seven statuses accepted
	for _, st := range Statuses {
		got, err := svc.UpdateSession(ctx, "sess-1", UpdateSession{Status: null.StringFrom(st)})
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
	}
}

func TestService_UpdateSession_SparseMerge(t *testing.T) {
	repo := newFakeRepo()
	seed(repo)
	svc := NewService(repo)

	got, err := svc.UpdateSession(context.Background(), "sess-1", UpdateSession{
		TotalStudentsServed: null.IntFrom(120),
	})
	require.NoError(t, err)
	assert.Equal(t, 120, got.TotalStudentsServed)
	assert.Equal(t, StatusConfirmed, got.Status) // untouched
}

func TestService_UpdateClass(t *testing.T) {
	repo := newFakeRepo()
	seed(repo)
	svc := NewService(repo)

	got, err := svc.UpdateClass(context.Background(), "cls-1", UpdateClass{
		TotalStudentsServedInClass: null.IntFrom(38),
		IsAttended:                 null.BoolFrom(true),
	})
	require.NoError(t, err)
	assert.Equal(t, 38, got.TotalStudentsServedInClass)
	assert.True(t, got.IsAttended)

	_, err = svc.UpdateClass(context.Background(), "cls-404", UpdateClass{})
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestService_UpdateStudent(t *testing.T) {
	repo := newFakeRepo()
	seed(repo)
	svc := NewService(repo)

	got, err := svc.UpdateStudent(context.Background(), "stu-1", UpdateStudent{
		PrintedDarkGarmentCount: null.IntFrom(2),
		DarkGarmentsPrinted:     null.BoolFrom(true),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, got.PrintedDarkGarmentCount)
	assert.True(t, got.DarkGarmentsPrinted)
	assert.False(t, got.IsServed) // untouched

	got, err = svc.UpdateStudent(context.Background(), "stu-1", UpdateStudent{IsServed: null.BoolFrom(true)})
	require.NoError(t, err)
	assert.True(t, got.IsServed)
	assert.Equal(t, 2, got.PrintedDarkGarmentCount) // untouched
}
