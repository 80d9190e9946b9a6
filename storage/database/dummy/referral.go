package dummydb

import (
	"context"

	"github.com/Apollox9/fusion-loom-sub002/core/referral"
)

type referralRepository struct {
	db *DB
}

var _ referral.Repository = (*referralRepository)(nil) // interface compliance check

func NewReferralRepository(db *DB) *referralRepository {
	return &referralRepository{db: db}
}

func (repo *referralRepository) GetCodeByCode(_ context.Context, code string) (referral.Code, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, c := range repo.db.codes {
		if c.Code == code {
			return *c, nil
		}
	}
	return referral.Code{}, referral.ErrCodeNotFound
}

func (repo *referralRepository) GetCodeByID(_ context.Context, id string) (referral.Code, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if c, ok := repo.db.codes[id]; ok {
		return *c, nil
	}
	return referral.Code{}, referral.ErrCodeNotFound
}

func (repo *referralRepository) GetAgentByID(_ context.Context, id string) (referral.Agent, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if a, ok := repo.db.agents[id]; ok && a.IsActive {
		return *a, nil
	}
	return referral.Agent{}, referral.ErrAgentNotFound
}

func (repo *referralRepository) GetSchoolByID(_ context.Context, id string) (referral.School, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if sch, ok := repo.db.schools[id]; ok {
		return referral.School{ID: sch.ID, Name: sch.Name, SignupCodeID: sch.SignupCodeID}, nil
	}
	return referral.School{}, referral.ErrSchoolNotFound
}
