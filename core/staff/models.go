package staff

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Staff roles.
const (
	RoleAdmin      = "ADMIN"
	RoleManager    = "MANAGER"
	RoleOperations = "OPERATIONS"
	RoleSupport    = "SUPPORT"
)

var Roles = []string{RoleAdmin, RoleManager, RoleOperations, RoleSupport}

func ValidRole(r string) bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Staff is a platform back-office account. UserID is the auth identity; StaffID is the
// human-facing staff number printed on badges.
type Staff struct {
	UserID       string    `json:"user_id" db:"user_id"`
	StaffID      string    `json:"staff_id" db:"staff_id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (s *Staff) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Staff) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Staff) IsAdmin() bool { return s.Role == RoleAdmin }

// NewStaff is the inbound staff-creation payload.
type NewStaff struct {
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"fullName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Role        string `json:"role" validate:"required"`
	StaffID     string `json:"staffId" validate:"required,alphanum_"`
}
