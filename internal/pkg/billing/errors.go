package billing

import "errors"

// Sentinel errors surfaced by the reconciler. Controllers map these onto
// HTTP statuses; everything else is treated as an internal or upstream error.
var (
	ErrDuplicateCustomer     = errors.New("customer already exists")
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrDuplicateReference    = errors.New("payment reference already verified")
	ErrAuthorizationRequired = errors.New("customer must complete initial payment first")
	ErrNoActiveSubscription  = errors.New("no active subscription found")
	ErrMissingToken          = errors.New("no email token available to disable subscription")
)
