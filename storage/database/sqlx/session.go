package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core/session"
)

type sessionRepository struct {
	db *sqlx.DB
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *sqlx.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (repo sessionRepository) GetOperatorByID(ctx context.Context, id string) (session.Operator, error) {
	var op session.Operator
	err := repo.db.GetContext(ctx, &op, `SELECT * FROM operator WHERE id = $1 AND is_active`, id)
	if err == sql.ErrNoRows {
		return session.Operator{}, session.ErrOperatorNotFound
	}
	if err != nil {
		return session.Operator{}, errors.Wrap(err, "getting operator")
	}
	return op, nil
}

func (repo sessionRepository) GetSessionByOperatorAndPasscode(ctx context.Context, operatorID, passcode string) (session.Session, error) {
	var sess session.Session
	err := repo.db.GetContext(ctx, &sess, `
		SELECT * FROM session WHERE operator_id = $1 AND service_passcode = $2
		ORDER BY created_at DESC LIMIT 1`,
		operatorID, passcode,
	)
	if err == sql.ErrNoRows {
		return session.Session{}, session.ErrSessionNotFound
	}
	if err != nil {
		return session.Session{}, errors.Wrap(err, "getting session")
	}
	return sess, nil
}

func (repo sessionRepository) GetSessionByID(ctx context.Context, id string) (session.Session, error) {
	var sess session.Session
	err := repo.db.GetContext(ctx, &sess, `SELECT * FROM session WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return session.Session{}, session.ErrSessionNotFound
	}
	if err != nil {
		return session.Session{}, errors.Wrap(err, "getting session")
	}
	return sess, nil
}

func (repo sessionRepository) UpdateSession(ctx context.Context, sess session.Session) (session.Session, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE session SET
			status = $1, scheduled_date = $2, total_students_served = $3,
			notes = $4, updated_at = $5
		WHERE id = $6`,
		sess.Status, sess.ScheduledDate, sess.TotalStudentsServed,
		sess.Notes, sess.UpdatedAt, sess.ID,
	)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "updating session")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return session.Session{}, session.ErrSessionNotFound
	}
	return sess, nil
}

func (repo sessionRepository) GetSchoolByID(ctx context.Context, id string) (session.School, error) {
	var sch session.School
	err := repo.db.GetContext(ctx, &sch, `SELECT * FROM school WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return session.School{}, session.ErrSchoolNotFound
	}
	if err != nil {
		return session.School{}, errors.Wrap(err, "getting school")
	}
	return sch, nil
}

func (repo sessionRepository) ListClassesBySession(ctx context.Context, sessionID string) ([]session.Class, error) {
	var classes []session.Class
	err := repo.db.SelectContext(ctx, &classes, `
		SELECT * FROM class WHERE session_id = $1 ORDER BY name ASC`, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "listing classes")
	}
	return classes, nil
}

func (repo sessionRepository) GetClassByID(ctx context.Context, id string) (session.Class, error) {
	var cls session.Class
	err := repo.db.GetContext(ctx, &cls, `SELECT * FROM class WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return session.Class{}, session.ErrClassNotFound
	}
	if err != nil {
		return session.Class{}, errors.Wrap(err, "getting class")
	}
	return cls, nil
}

func (repo sessionRepository) UpdateClass(ctx context.Context, cls session.Class) (session.Class, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE class SET
			total_students_served_in_class = $1, is_attended = $2, updated_at = $3
		WHERE id = $4`,
		cls.TotalStudentsServedInClass, cls.IsAttended, cls.UpdatedAt, cls.ID,
	)
	if err != nil {
		return session.Class{}, errors.Wrap(err, "updating class")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return session.Class{}, session.ErrClassNotFound
	}
	return cls, nil
}

func (repo sessionRepository) GetStudentByID(ctx context.Context, id string) (session.Student, error) {
	var st session.Student
	err := repo.db.GetContext(ctx, &st, `SELECT * FROM student WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return session.Student{}, session.ErrStudentNotFound
	}
	if err != nil {
		return session.Student{}, errors.Wrap(err, "getting student")
	}
	return st, nil
}

func (repo sessionRepository) UpdateStudent(ctx context.Context, st session.Student) (session.Student, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE student SET
			printed_dark_garment_count = $1, printed_light_garment_count = $2,
			dark_garments_printed = $3, light_garments_printed = $4,
			is_served = $5, updated_at = $6
		WHERE id = $7`,
		st.PrintedDarkGarmentCount, st.PrintedLightGarmentCount,
		st.DarkGarmentsPrinted, st.LightGarmentsPrinted,
		st.IsServed, st.UpdatedAt, st.ID,
	)
	if err != nil {
		return session.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return session.Student{}, session.ErrStudentNotFound
	}
	return st, nil
}
