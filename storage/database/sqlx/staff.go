package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core/staff"
)

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *sqlx.DB) *staffRepository {
	return &staffRepository{db: db}
}

func (repo staffRepository) CheckStaffUniqueness(ctx context.Context, email, staffID string) error {
	var emailTaken, staffIDTaken bool
	err := repo.db.QueryRowxContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM staff WHERE email = $1),
			EXISTS (SELECT 1 FROM staff WHERE staff_id = $2)`,
		email, staffID,
	).Scan(&emailTaken, &staffIDTaken)
	if err != nil {
		return errors.Wrap(err, "checking staff uniqueness")
	}
	if emailTaken {
		return staff.ErrEmailExists
	}
	if staffIDTaken {
		return staff.ErrStaffIDExists
	}
	return nil
}

func (repo staffRepository) CreateStaff(ctx context.Context, st staff.Staff) (staff.Staff, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO staff (
			user_id, staff_id, email, full_name, phone_number, role,
			is_active, password_hash, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		st.UserID, st.StaffID, st.Email, st.FullName, st.PhoneNumber, st.Role,
		st.IsActive, st.PasswordHash, st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "creating staff")
	}
	return st, nil
}

func (repo staffRepository) GetStaffByUserID(ctx context.Context, userID string) (staff.Staff, error) {
	var st staff.Staff
	err := repo.db.GetContext(ctx, &st, `SELECT * FROM staff WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return staff.Staff{}, staff.ErrNotFound
	}
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "getting staff")
	}
	return st, nil
}

func (repo staffRepository) GetStaffByEmail(ctx context.Context, email string) (staff.Staff, error) {
	var st staff.Staff
	err := repo.db.GetContext(ctx, &st, `SELECT * FROM staff WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return staff.Staff{}, staff.ErrNotFound
	}
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "getting staff")
	}
	return st, nil
}
