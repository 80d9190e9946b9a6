package device

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Print event types, in lifecycle order. START flips a machine into printing state,
// the three terminal types flip it back; PROGRESS is stored but changes no state.
const (
	EventStart    = "START"
	EventProgress = "PROGRESS"
	EventComplete = "COMPLETE"
	EventError    = "ERROR"
	EventCancel   = "CANCEL"
)

var EventTypes = []string{EventStart, EventProgress, EventComplete, EventError, EventCancel}

func ValidEventType(t string) bool {
	for _, et := range EventTypes {
		if t == et {
			return true
		}
	}
	return false
}

func terminalEventType(t string) bool {
	return t == EventComplete || t == EventError || t == EventCancel
}

// Device is a physical printing machine. Rows are provisioned out-of-band (admin CLI)
// and only ever mutated by the heartbeat and print-event flows; never deleted here.
type Device struct {
	ID              int         `json:"-" db:"id"`
	DeviceID        string      `json:"device_id" db:"device_id"`
	SecretKey       string      `json:"-" db:"secret_key"`
	IsOnline        bool        `json:"is_online" db:"is_online"`
	IsPrinting      bool        `json:"is_printing" db:"is_printing"`
	FirmwareVersion null.String `json:"firmware_version" db:"firmware_version"`
	Model           null.String `json:"model" db:"model"`
	UpTime          null.Int64  `json:"up_time" db:"up_time"` // seconds
	SessionsHeld    null.Int    `json:"sessions_held" db:"sessions_held"`
	ActiveSession   null.String `json:"active_session" db:"active_session"`
	LastSeenAt      time.Time   `json:"last_seen_at" db:"last_seen_at"` // UTC
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`     // UTC
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`     // UTC
}

// Location is the optional position reading embedded in a heartbeat.
type Location struct {
	Lat      float64 `json:"lat" validate:"latitude"`
	Lng      float64 `json:"lng" validate:"longitude"`
	Provider string  `json:"provider"`
}

// LocationSample is an append-only point reading for a machine.
type LocationSample struct {
	ID        int64     `json:"id" db:"id"`
	MachineID int       `json:"machine_id" db:"machine_id"`
	Lat       float64   `json:"lat" db:"lat"`
	Lng       float64   `json:"lng" db:"lng"`
	Provider  string    `json:"provider" db:"provider"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// Heartbeat is the sparse status payload devices post periodically. Only IsOnline is
// required; null fields leave the stored values untouched.
type Heartbeat struct {
	DeviceID        string      `json:"device_id" validate:"required"`
	IsOnline        *bool       `json:"is_online" validate:"required"`
	IsPrinting      null.Bool   `json:"is_printing"`
	FirmwareVersion null.String `json:"firmware_version"`
	Model           null.String `json:"model"`
	UpTime          null.Int64  `json:"up_time"`
	SessionsHeld    null.Int    `json:"sessions_held"`
	ActiveSession   null.String `json:"active_session"`
	Location        *Location   `json:"location"`
}

// PrintEvent is an immutable record of a printing lifecycle transition. Exactly one
// row exists per idempotency key; rows are never updated.
type PrintEvent struct {
	ID             string    `json:"id" db:"id"`
	DeviceID       int       `json:"-" db:"device_id"`
	PrintJobID     string    `json:"print_job_id" db:"print_job_id"`
	Type           string    `json:"type" db:"type"`
	Payload        []byte    `json:"payload" db:"payload"` // raw JSON
	IdempotencyKey string    `json:"idempotency_key" db:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"` // UTC
}

// EventPayload is the recognized shape of a print event's payload. COMPLETE events
// carrying an order item, garment type and count trigger order reconciliation.
type EventPayload struct {
	OrderItemID string  `json:"order_item_id,omitempty"`
	GarmentType string  `json:"garment_type,omitempty"` // DARK | LIGHT
	Count       int     `json:"count,omitempty"`
	Progress    float64 `json:"progress,omitempty"` // 0..1, PROGRESS events
	Error       string  `json:"error,omitempty"`    // ERROR events
}

// NewPrintEvent is the inbound event submission.
type NewPrintEvent struct {
	PrintJobID     string       `json:"print_job_id" validate:"required"`
	Type           string       `json:"type" validate:"required"`
	Payload        EventPayload `json:"payload"`
	IdempotencyKey string       `json:"idempotency_key"`
}

// EventReceipt reports the outcome of an event submission. Duplicate means the
// idempotency gate short-circuited and Event is the original stored record.
type EventReceipt struct {
	Event     PrintEvent
	Duplicate bool
}
