package order

import "time"

// Garment classes. Dark and light garments run on different pretreatment lines, so
// counts are tracked separately.
const (
	GarmentDark  = "DARK"
	GarmentLight = "LIGHT"
)

// Order item statuses derived from printed vs. required counts.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Order is a school's uniform printing order.
type Order struct {
	ID        string    `json:"id" db:"id"`
	SchoolID  string    `json:"school_id" db:"school_id"`
	Amount    float64   `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// Item tracks required vs. printed garment counts for one unit of printing work.
type Item struct {
	ID                       string    `json:"id" db:"id"`
	OrderID                  string    `json:"order_id" db:"order_id"`
	DarkGarmentCount         int       `json:"dark_garment_count" db:"dark_garment_count"`
	LightGarmentCount        int       `json:"light_garment_count" db:"light_garment_count"`
	PrintedDarkGarmentCount  int       `json:"printed_dark_garment_count" db:"printed_dark_garment_count"`
	PrintedLightGarmentCount int       `json:"printed_light_garment_count" db:"printed_light_garment_count"`
	Status                   string    `json:"status" db:"status"`
	UpdatedAt                time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// DeriveStatus recomputes the coarse completion status from the item's counters.
func (it Item) DeriveStatus() string {
	printed := it.PrintedDarkGarmentCount + it.PrintedLightGarmentCount
	required := it.DarkGarmentCount + it.LightGarmentCount
	switch {
	case printed >= required:
		return StatusCompleted
	case printed > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}
