package models

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// CreateCustomerRequest is the body of POST /api/customers.
type CreateCustomerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

func (r *CreateCustomerRequest) Validate() error {
	return validate.Struct(r)
}

// InitializePaymentRequest is the body of POST /api/initialize-payment.
// Amount is in the minor currency unit (pesewas) and falls back to the
// configured plan amount when omitted.
type InitializePaymentRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Amount   int64    `json:"amount" validate:"gte=0"`
	Channels []string `json:"channels" validate:"dive,oneof=card bank ussd qr mobile_money bank_transfer"`
}

func (r *InitializePaymentRequest) Validate() error {
	return validate.Struct(r)
}

// VerifyPaymentRequest is the body of POST /api/verify-payment.
type VerifyPaymentRequest struct {
	Reference string `json:"reference" validate:"required,max=100"`
}

func (r *VerifyPaymentRequest) Validate() error {
	return validate.Struct(r)
}

// CreateSubscriptionRequest is the body of POST /api/create-subscription.
type CreateSubscriptionRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *CreateSubscriptionRequest) Validate() error {
	return validate.Struct(r)
}
