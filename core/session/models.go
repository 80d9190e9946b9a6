package session

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Session statuses, in rough lifecycle order.
const (
	StatusUnsubmitted = "UNSUBMITTED"
	StatusPending     = "PENDING"
	StatusConfirmed   = "CONFIRMED"
	StatusQueued      = "QUEUED"
	StatusInProgress  = "IN_PROGRESS"
	StatusCompleted   = "COMPLETED"
	StatusDelivered   = "DELIVERED"
)

var Statuses = []string{
	StatusUnsubmitted, StatusPending, StatusConfirmed, StatusQueued,
	StatusInProgress, StatusCompleted, StatusDelivered,
}

func ValidStatus(s string) bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// Session is one on-site printing visit to a school.
type Session struct {
	ID                  string      `json:"id" db:"id"`
	SchoolID            string      `json:"school_id" db:"school_id"`
	OperatorID          string      `json:"operator_id" db:"operator_id"`
	ServicePasscode     string      `json:"-" db:"service_passcode"`
	Status              string      `json:"status" db:"status"`
	ScheduledDate       null.Time   `json:"scheduled_date" db:"scheduled_date"`
	TotalStudentsServed int         `json:"total_students_served" db:"total_students_served"`
	Notes               null.String `json:"notes" db:"notes"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt           time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// School is the customer a session serves.
type School struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Email        null.String `json:"email" db:"email"`
	Region       null.String `json:"region" db:"region"`
	SignupCodeID null.String `json:"-" db:"signup_code_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"` // UTC
}

// Operator is a field worker running printing sessions.
type Operator struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// Class is one school class within a session.
type Class struct {
	ID                         string    `json:"id" db:"id"`
	SessionID                  string    `json:"session_id" db:"session_id"`
	Name                       string    `json:"name" db:"name"`
	TotalStudentsServedInClass int       `json:"total_students_served_in_class" db:"total_students_served_in_class"`
	IsAttended                 bool      `json:"is_attended" db:"is_attended"`
	UpdatedAt                  time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Student is one pupil's garment-printing record within a class.
type Student struct {
	ID                       string    `json:"id" db:"id"`
	ClassID                  string    `json:"class_id" db:"class_id"`
	FullName                 string    `json:"full_name" db:"full_name"`
	DarkGarmentCount         int       `json:"dark_garment_count" db:"dark_garment_count"`
	LightGarmentCount        int       `json:"light_garment_count" db:"light_garment_count"`
	PrintedDarkGarmentCount  int       `json:"printed_dark_garment_count" db:"printed_dark_garment_count"`
	PrintedLightGarmentCount int       `json:"printed_light_garment_count" db:"printed_light_garment_count"`
	DarkGarmentsPrinted      bool      `json:"dark_garments_printed" db:"dark_garments_printed"`
	LightGarmentsPrinted     bool      `json:"light_garments_printed" db:"light_garments_printed"`
	IsServed                 bool      `json:"is_served" db:"is_served"`
	UpdatedAt                time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// InitResult bundles everything an operator's device needs to start serving a school.
type InitResult struct {
	Operator Operator `json:"operator"`
	Session  Session  `json:"session"`
	School   School   `json:"school"`
	Classes  []Class  `json:"classes"`
}

// UpdateSession carries the updatable session fields. Only explicitly listed fields
// can change; unknown JSON keys are rejected at the API layer.
type UpdateSession struct {
	Status              null.String `json:"status"`
	ScheduledDate       null.Time   `json:"scheduled_date"`
	TotalStudentsServed null.Int    `json:"total_students_served"`
	Notes               null.String `json:"notes"`
}

// UpdateClass carries the updatable class fields.
type UpdateClass struct {
	TotalStudentsServedInClass null.Int  `json:"total_students_served_in_class"`
	IsAttended                 null.Bool `json:"is_attended"`
}

// UpdateStudent carries the updatable student fields.
type UpdateStudent struct {
	PrintedDarkGarmentCount  null.Int  `json:"printed_dark_garment_count"`
	PrintedLightGarmentCount null.Int  `json:"printed_light_garment_count"`
	DarkGarmentsPrinted      null.Bool `json:"dark_garments_printed"`
	LightGarmentsPrinted     null.Bool `json:"light_garments_printed"`
	IsServed                 null.Bool `json:"is_served"`
}
