package session

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

var (
	ErrOperatorNotFound = errors.New("operator not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSchoolNotFound   = errors.New("school not found")
	ErrClassNotFound    = errors.New("class not found")
	ErrStudentNotFound  = errors.New("student not found")

	errInvalidStatus = "invalid status; allowed values: " + strings.Join(Statuses, ", ")
)

type (
	Repository interface {
		GetOperatorByID(ctx context.Context, id string) (Operator, error)
		// GetSessionByOperatorAndPasscode matches a session assigned to the operator
		// carrying the given service passcode.
		GetSessionByOperatorAndPasscode(ctx context.Context, operatorID, passcode string) (Session, error)
		GetSessionByID(ctx context.Context, id string) (Session, error)
		UpdateSession(ctx context.Context, sess Session) (Session, error)
		GetSchoolByID(ctx context.Context, id string) (School, error)
		ListClassesBySession(ctx context.Context, sessionID string) ([]Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		UpdateClass(ctx context.Context, cls Class) (Class, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		UpdateStudent(ctx context.Context, st Student) (Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Init resolves an operator + passcode pair into the full working set for a visit:
// the operator, the matched session, the school and its classes.
func (svc *Service) Init(ctx context.Context, operatorID, passcode string) (InitResult, error) {
	op, err := svc.repo.GetOperatorByID(ctx, core.CleanString(operatorID))
	if err != nil {
		return InitResult{}, err
	}

	sess, err := svc.repo.GetSessionByOperatorAndPasscode(ctx, op.ID, core.CleanString(passcode))
	if err != nil {
		return InitResult{}, err
	}

	school, err := svc.repo.GetSchoolByID(ctx, sess.SchoolID)
	if err != nil {
		return InitResult{}, err
	}

	classes, err := svc.repo.ListClassesBySession(ctx, sess.ID)
	if err != nil {
		return InitResult{}, errors.Wrap(err, "listing session classes")
	}

	return InitResult{Operator: op, Session: sess, School: school, Classes: classes}, nil
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, core.CleanString(id))
}

// UpdateSession merges the given sparse update into the stored session. An invalid
// status is rejected with a validation error enumerating the allowed values.
func (svc *Service) UpdateSession(ctx context.Context, id string, up UpdateSession) (Session, error) {
	if up.Status.Valid && !ValidStatus(up.Status.String) {
		return Session{}, core.NewValidationError(errors.New(errInvalidStatus),
			core.FieldError{Field: "status", Error: errInvalidStatus})
	}

	sess, err := svc.repo.GetSessionByID(ctx, core.CleanString(id))
	if err != nil {
		return Session{}, err
	}

	if up.Status.Valid {
		sess.Status = up.Status.String
	}
	if up.ScheduledDate.Valid {
		sess.ScheduledDate = up.ScheduledDate
	}
	if up.TotalStudentsServed.Valid {
		sess.TotalStudentsServed = up.TotalStudentsServed.Int
	}
	if up.Notes.Valid {
		sess.Notes = up.Notes
	}
	sess.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateSession(ctx, sess)
}

func (svc *Service) UpdateClass(ctx context.Context, id string, up UpdateClass) (Class, error) {
	cls, err := svc.repo.GetClassByID(ctx, core.CleanString(id))
	if err != nil {
		return Class{}, err
	}

	if up.TotalStudentsServedInClass.Valid {
		cls.TotalStudentsServedInClass = up.TotalStudentsServedInClass.Int
	}
	if up.IsAttended.Valid {
		cls.IsAttended = up.IsAttended.Bool
	}
	cls.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateClass(ctx, cls)
}

func (svc *Service) UpdateStudent(ctx context.Context, id string, up UpdateStudent) (Student, error) {
	st, err := svc.repo.GetStudentByID(ctx, core.CleanString(id))
	if err != nil {
		return Student{}, err
	}

	if up.PrintedDarkGarmentCount.Valid {
		st.PrintedDarkGarmentCount = up.PrintedDarkGarmentCount.Int
	}
	if up.PrintedLightGarmentCount.Valid {
		st.PrintedLightGarmentCount = up.PrintedLightGarmentCount.Int
	}
	if up.DarkGarmentsPrinted.Valid {
		st.DarkGarmentsPrinted = up.DarkGarmentsPrinted.Bool
	}
	if up.LightGarmentsPrinted.Valid {
		st.LightGarmentsPrinted = up.LightGarmentsPrinted.Bool
	}
	if up.IsServed.Valid {
		st.IsServed = up.IsServed.Bool
	}
	st.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateStudent(ctx, st)
}
