package dummydb

import (
	"context"

	"github.com/Apollox9/fusion-loom-sub002/core/staff"
)

type staffRepository struct {
	db *DB
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *DB) *staffRepository {
	return &staffRepository{db: db}
}

func (repo *staffRepository) CheckStaffUniqueness(_ context.Context, email, staffID string) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, st := range repo.db.staffByUserID {
		if st.Email == email {
			return staff.ErrEmailExists
		}
		if st.StaffID == staffID {
			return staff.ErrStaffIDExists
		}
	}
	return nil
}

func (repo *staffRepository) CreateStaff(_ context.Context, st staff.Staff) (staff.Staff, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.staffByUserID[st.UserID] = &st
	return st, nil
}

func (repo *staffRepository) GetStaffByUserID(_ context.Context, userID string) (staff.Staff, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if st, ok := repo.db.staffByUserID[userID]; ok {
		return *st, nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) GetStaffByEmail(_ context.Context, email string) (staff.Staff, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, st := range repo.db.staffByUserID {
		if st.Email == email {
			return *st, nil
		}
	}
	return staff.Staff{}, staff.ErrNotFound
}
