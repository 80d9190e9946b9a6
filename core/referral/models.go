package referral

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Code is a referral code handed out by an agent. CreditWorthFactor is the commission
// multiplier frozen onto the code when it is redeemed; later changes to the agent's
// terms never affect already-redeemed codes.
type Code struct {
	ID                string    `json:"id" db:"id"`
	Code              string    `json:"code" db:"code"`
	AgentID           string    `json:"agent_id" db:"agent_id"`
	CreditWorthFactor float64   `json:"credit_worth_factor" db:"credit_worth_factor"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"` // UTC
}

// Agent is a referral partner. StaffUserID links to the staff account holding the
// agent's contact email.
type Agent struct {
	ID          string    `json:"id" db:"id"`
	StaffUserID string    `json:"staff_user_id" db:"staff_user_id"`
	Region      string    `json:"region" db:"region"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
}

// School is the slim read model referral flows need: name plus signup attribution.
type School struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	SignupCodeID null.String `json:"signup_code_id" db:"signup_code_id"`
}

// CodeUsedEvent is the trigger fired when a school redeems a referral code at signup.
type CodeUsedEvent struct {
	Code     string `json:"code" validate:"required"`
	SchoolID string `json:"school_id" validate:"required"`
}

// FirstOrderEvent is the trigger fired when an order is placed; the handler decides
// whether it actually is the school's first.
type FirstOrderEvent struct {
	OrderID  string `json:"order_id" validate:"required"`
	SchoolID string `json:"school_id" validate:"required"`
}

// NotifyResult reports what a notification trigger did. Skipped results are benign
// no-ops (not the first order, no referral attribution).
type NotifyResult struct {
	Skipped        bool    `json:"skipped"`
	Reason         string  `json:"reason,omitempty"`
	NotificationID string  `json:"notification_id,omitempty"`
	Commission     float64 `json:"commission,omitempty"`
}

// AgentEmail is the synchronous send request handled by the send-agent-email endpoint.
type AgentEmail struct {
	Type              string  `json:"type" validate:"required"`
	AgentName         string  `json:"agentName" validate:"required"`
	AgentEmail        string  `json:"agentEmail" validate:"required,email"`
	SchoolName        string  `json:"schoolName" validate:"required"`
	Code              string  `json:"code"`
	OrderID           string  `json:"orderId"`
	OrderAmount       float64 `json:"orderAmount"`
	CreditWorthFactor float64 `json:"creditWorthFactor"`
	Commission        float64 `json:"commission"`
}

// Commission computes an agent's cut for a first order: the platform rate scaled by
// the code's frozen credit worth factor.
func Commission(orderAmount, rate, creditWorthFactor float64) float64 {
	return orderAmount * rate * creditWorthFactor
}
