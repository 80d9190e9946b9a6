package dummydb

import (
	"context"
	"sort"

	"github.com/Apollox9/fusion-loom-sub002/core/session"
)

type sessionRepository struct {
	db *DB
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) GetOperatorByID(_ context.Context, id string) (session.Operator, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if op, ok := repo.db.operators[id]; ok && op.IsActive {
		return *op, nil
	}
	return session.Operator{}, session.ErrOperatorNotFound
}

func (repo *sessionRepository) GetSessionByOperatorAndPasscode(_ context.Context, operatorID, passcode string) (session.Session, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var match *session.Session
	for _, sess := range repo.db.sessions {
		if sess.OperatorID == operatorID && sess.ServicePasscode == passcode {
			if match == nil || sess.CreatedAt.After(match.CreatedAt) {
				match = sess
			}
		}
	}
	if match == nil {
		return session.Session{}, session.ErrSessionNotFound
	}
	return *match, nil
}

func (repo *sessionRepository) GetSessionByID(_ context.Context, id string) (session.Session, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if sess, ok := repo.db.sessions[id]; ok {
		return *sess, nil
	}
	return session.Session{}, session.ErrSessionNotFound
}

func (repo *sessionRepository) UpdateSession(_ context.Context, sess session.Session) (session.Session, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.sessions[sess.ID]; !ok {
		return session.Session{}, session.ErrSessionNotFound
	}
	repo.db.sessions[sess.ID] = &sess
	return sess, nil
}

func (repo *sessionRepository) GetSchoolByID(_ context.Context, id string) (session.School, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if sch, ok := repo.db.schools[id]; ok {
		return *sch, nil
	}
	return session.School{}, session.ErrSchoolNotFound
}

func (repo *sessionRepository) ListClassesBySession(_ context.Context, sessionID string) ([]session.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	classes := make([]session.Class, 0)
	for _, cls := range repo.db.classes {
		if cls.SessionID == sessionID {
			classes = append(classes, *cls)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *sessionRepository) GetClassByID(_ context.Context, id string) (session.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if cls, ok := repo.db.classes[id]; ok {
		return *cls, nil
	}
	return session.Class{}, session.ErrClassNotFound
}

func (repo *sessionRepository) UpdateClass(_ context.Context, cls session.Class) (session.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.classes[cls.ID]; !ok {
		return session.Class{}, session.ErrClassNotFound
	}
	repo.db.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *sessionRepository) GetStudentByID(_ context.Context, id string) (session.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if st, ok := repo.db.students[id]; ok {
		return *st, nil
	}
	return session.Student{}, session.ErrStudentNotFound
}

func (repo *sessionRepository) UpdateStudent(_ context.Context, st session.Student) (session.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[st.ID]; !ok {
		return session.Student{}, session.ErrStudentNotFound
	}
	repo.db.students[st.ID] = &st
	return st, nil
}
