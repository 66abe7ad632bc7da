package billing

import (
	"testing"

	"github.com/motherboardhq/payment-service/app/models"
)

func TestUserLifecycleState(t *testing.T) {
	auth := "AUTH_1"
	code := "SUB_1"

	tests := []struct {
		name string
		user *models.User
		want LifecycleState
	}{
		{name: "nil user", user: nil, want: StateUnregistered},
		{name: "fresh user", user: &models.User{Email: "a@b.com"}, want: StateRegistered},
		{name: "authorized", user: &models.User{Email: "a@b.com", AuthorizationCode: &auth}, want: StateAuthorized},
		{
			name: "subscribed",
			user: &models.User{Email: "a@b.com", AuthorizationCode: &auth, SubscriptionCode: &code, SubscriptionActive: true},
			want: StateSubscribed,
		},
		{
			name: "cancelled keeps code",
			user: &models.User{Email: "a@b.com", AuthorizationCode: &auth, SubscriptionCode: &code, SubscriptionActive: false},
			want: StateCancelled,
		},
	}

	for _, tt := range tests {
		if got := UserLifecycleState(tt.user); got != tt.want {
			t.Fatalf("%s: UserLifecycleState() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
