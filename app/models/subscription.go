package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusComplete = "complete"
	SubscriptionStatusCanceled = "cancelled"
)

// Subscription mirrors one Paystack subscription. The (email, plan_id) unique
// index makes creation idempotent: concurrent attempts for the same customer
// and plan collapse into a single row instead of racing.
type Subscription struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Email            string     `gorm:"type:varchar(200);not null;index;uniqueIndex:ux_subscriptions_email_plan,priority:1" json:"email"`
	SubscriptionCode string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"subscription_code"`
	PlanID           string     `gorm:"type:varchar(100);not null;uniqueIndex:ux_subscriptions_email_plan,priority:2" json:"plan_id"`
	Status           string     `gorm:"type:varchar(32)" json:"status"`
	NextPaymentDate  *time.Time `gorm:"type:timestamp;default:null" json:"next_payment_date,omitempty"`
	EmailToken       string     `gorm:"type:varchar(100)" json:"-"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
