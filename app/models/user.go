package models

import (
	"strings"
	"time"
)

type User struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Email              string     `gorm:"uniqueIndex;type:varchar(200);not null" json:"email" validate:"required,email,min=5,max=200"`
	FirstName          string     `gorm:"type:varchar(100)" json:"first_name" validate:"required,max=100"`
	LastName           string     `gorm:"type:varchar(100)" json:"last_name" validate:"required,max=100"`
	CustomerCode       string     `gorm:"type:varchar(100);index" json:"customer_code"`
	CustomerID         int64      `json:"customer_id"`
	AuthorizationCode  *string    `gorm:"type:varchar(100)" json:"-"`
	FirstAuthorization bool       `gorm:"default:false" json:"first_authorization"`
	SubscriptionActive bool       `gorm:"default:false" json:"subscription_active"`
	SubscriptionCode   *string    `gorm:"type:varchar(100);index" json:"subscription_code,omitempty"`
	EmailToken         *string    `gorm:"type:varchar(100)" json:"-"`
	LastPaymentDate    *time.Time `gorm:"type:timestamp;default:null" json:"last_payment_date,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	return validate.Struct(u)
}

// DisplayName joins first and last name for listing views.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasAuthorization reports whether a reusable charge authorization is stored.
func (u *User) HasAuthorization() bool {
	return u.AuthorizationCode != nil && strings.TrimSpace(*u.AuthorizationCode) != ""
}

// HasSubscription reports whether a subscription code is stored, active or not.
func (u *User) HasSubscription() bool {
	return u.SubscriptionCode != nil && strings.TrimSpace(*u.SubscriptionCode) != ""
}

// NormalizeEmail lower-cases and trims an email address so lookups and
// uniqueness checks collapse case and whitespace variants onto one row.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
