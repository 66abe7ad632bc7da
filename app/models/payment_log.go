package models

import "time"

// Payment log event types.
const (
	PaymentEventInitial       = "initial_payment"
	PaymentEventChargeSuccess = "charge.success"
)

// PaymentLog is the append-only audit trail of processor transaction events,
// one row per Paystack reference. Rows are never mutated after insert; the
// unique reference index doubles as the replay guard for both the verify
// endpoint and webhook delivery.
type PaymentLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(200);index" json:"email"`
	Reference string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"reference"`
	Amount    int64     `json:"amount"`
	Status    string    `gorm:"type:varchar(32)" json:"status"`
	EventType string    `gorm:"type:varchar(50)" json:"event_type"`
	Payload   string    `gorm:"type:longtext" json:"payload"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
