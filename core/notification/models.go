package notification

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Notification statuses.
const (
	StatusPending = "PENDING"
	StatusSent    = "SENT"
	StatusFailed  = "FAILED"
)

// Known templates; each maps to assets/templates/email/<name>.{txt,gohtml}.
const (
	TemplateCodeUsed   = "code_used"
	TemplateFirstOrder = "first_order"
)

// Notification is one queued outbound email. Rows act as an outbox: enqueued by the
// triggering request, dispatched by the background worker, retried with backoff.
type Notification struct {
	ID             string      `json:"id" db:"id"`
	Template       string      `json:"template" db:"template"`
	RecipientName  string      `json:"recipient_name" db:"recipient_name"`
	RecipientEmail string      `json:"recipient_email" db:"recipient_email"`
	Subject        string      `json:"subject" db:"subject"`
	Context        []byte      `json:"context" db:"context"` // raw JSON template data
	Status         string      `json:"status" db:"status"`
	Attempts       int         `json:"attempts" db:"attempts"`
	NextAttemptAt  time.Time   `json:"next_attempt_at" db:"next_attempt_at"` // UTC
	LastError      null.String `json:"last_error" db:"last_error"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// NewNotification is the enqueue request.
type NewNotification struct {
	Template       string
	RecipientName  string
	RecipientEmail string
	Subject        string
	Context        interface{} // JSON-encodable template data
}
