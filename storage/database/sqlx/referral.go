package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core/referral"
)

type referralRepository struct {
	db *sqlx.DB
}

var _ referral.Repository = (*referralRepository)(nil) // interface compliance check

func NewReferralRepository(db *sqlx.DB) *referralRepository {
	return &referralRepository{db: db}
}

func (repo referralRepository) GetCodeByCode(ctx context.Context, code string) (referral.Code, error) {
	var c referral.Code
	err := repo.db.GetContext(ctx, &c, `SELECT * FROM referral_code WHERE code = $1`, code)
	if err == sql.ErrNoRows {
		return referral.Code{}, referral.ErrCodeNotFound
	}
	if err != nil {
		return referral.Code{}, errors.Wrap(err, "getting referral code")
	}
	return c, nil
}

func (repo referralRepository) GetCodeByID(ctx context.Context, id string) (referral.Code, error) {
	var c referral.Code
	err := repo.db.GetContext(ctx, &c, `SELECT * FROM referral_code WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return referral.Code{}, referral.ErrCodeNotFound
	}
	if err != nil {
		return referral.Code{}, errors.Wrap(err, "getting referral code")
	}
	return c, nil
}

func (repo referralRepository) GetAgentByID(ctx context.Context, id string) (referral.Agent, error) {
	var a referral.Agent
	err := repo.db.GetContext(ctx, &a, `SELECT * FROM referral_agent WHERE id = $1 AND is_active`, id)
	if err == sql.ErrNoRows {
		return referral.Agent{}, referral.ErrAgentNotFound
	}
	if err != nil {
		return referral.Agent{}, errors.Wrap(err, "getting referral agent")
	}
	return a, nil
}

func (repo referralRepository) GetSchoolByID(ctx context.Context, id string) (referral.School, error) {
	var s referral.School
	err := repo.db.GetContext(ctx, &s, `SELECT id, name, signup_code_id FROM school WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return referral.School{}, referral.ErrSchoolNotFound
	}
	if err != nil {
		return referral.School{}, errors.Wrap(err, "getting school")
	}
	return s, nil
}
