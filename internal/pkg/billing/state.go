package billing

import "github.com/motherboardhq/payment-service/app/models"

// LifecycleState is the explicit payment lifecycle of a customer, derived
// from which fields of the user row are populated. Transitions are driven by
// the reconciler operations:
//
//	Unregistered -> Registered -> Authorized -> Subscribed <-> Cancelled
type LifecycleState string

const (
	StateUnregistered LifecycleState = "unregistered"
	StateRegistered   LifecycleState = "registered"
	StateAuthorized   LifecycleState = "authorized"
	StateSubscribed   LifecycleState = "subscribed"
	StateCancelled    LifecycleState = "cancelled"
)

// UserLifecycleState derives the lifecycle state of a user row.
func UserLifecycleState(u *models.User) LifecycleState {
	switch {
	case u == nil:
		return StateUnregistered
	case u.HasSubscription() && u.SubscriptionActive:
		return StateSubscribed
	case u.HasSubscription():
		return StateCancelled
	case u.HasAuthorization():
		return StateAuthorized
	default:
		return StateRegistered
	}
}
