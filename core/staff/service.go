package staff

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

var (
	ErrNotFound      = errors.New("staff not found")
	ErrEmailExists   = errors.New("a staff member with this email already exists")
	ErrStaffIDExists = errors.New("a staff member with this staff ID already exists")
)

type (
	Repository interface {
		CheckStaffUniqueness(ctx context.Context, email, staffID string) error
		CreateStaff(ctx context.Context, st Staff) (Staff, error)
		GetStaffByUserID(ctx context.Context, userID string) (Staff, error)
		GetStaffByEmail(ctx context.Context, email string) (Staff, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
		logger  core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf, logger: logger}
}

// Create provisions a back-office account with a generated temporary password and
// emails the credentials. The welcome email is best-effort.
func (svc *Service) Create(ctx context.Context, ns NewStaff) (Staff, error) {
	email := core.CleanString(ns.Email, true /* lower */)
	staffID := core.CleanString(ns.StaffID)

	if err := svc.checkUniqueness(ctx, email, staffID); err != nil {
		return Staff{}, err
	}

	now := time.Now().UTC()
	st := Staff{
		UserID:      uuid.NewString(),
		StaffID:     staffID,
		Email:       email,
		FullName:    core.CleanString(ns.FullName),
		PhoneNumber: core.CleanString(ns.PhoneNumber),
		Role:        ns.Role,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tempPwd := uuid.NewString()
	if err := st.SetPassword(tempPwd); err != nil {
		return Staff{}, errors.Wrap(err, "hashing temporary password")
	}

	st, err := svc.repo.CreateStaff(ctx, st)
	if err != nil {
		return Staff{}, errors.Wrap(err, "creating staff")
	}

	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: st.FullName, Address: st.Email}},
		Subject: "Your staff account",
		BodyStr: "Welcome to " + svc.conf.AppName + "!\n\n" +
			"Your staff account has been created.\n" +
			"Staff ID: " + st.StaffID + "\n" +
			"Temporary password: " + tempPwd + "\n\n" +
			"Please sign in and change your password: " + svc.conf.FrontendBaseURL,
	}
	if err := svc.mailSvc.Send(msg); err != nil {
		svc.logger.Warn("sending staff welcome email failed", err,
			map[string]interface{}{"staff_id": st.StaffID})
	}

	return st, nil
}

func (svc *Service) GetByUserID(ctx context.Context, userID string) (Staff, error) {
	return svc.repo.GetStaffByUserID(ctx, core.CleanString(userID))
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Staff, error) {
	return svc.repo.GetStaffByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) checkUniqueness(ctx context.Context, email, staffID string) error {
	if err := svc.repo.CheckStaffUniqueness(ctx, email, staffID); err != nil {
		var field string
		switch err {
		case ErrEmailExists:
			field = "email"
		case ErrStaffIDExists:
			field = "staffId"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}
