package billing

import (
	"encoding/json"
	"errors"
	"strings"
)

// Webhook event names this service reconciles. Everything else is
// acknowledged and ignored.
const (
	EventChargeSuccess        = "charge.success"
	EventSubscriptionDisable  = "subscription.disable"
	EventSubscriptionNotRenew = "subscription.not_renew"
)

// WebhookEvent is the parsed shape of a Paystack webhook delivery. DataRaw
// keeps the untouched data object for the payment log snapshot.
type WebhookEvent struct {
	Event   string
	Data    WebhookEventData
	DataRaw json.RawMessage
}

type WebhookEventData struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	Customer  struct {
		Email        string `json:"email"`
		CustomerCode string `json:"customer_code"`
	} `json:"customer"`
	Authorization struct {
		AuthorizationCode string `json:"authorization_code"`
	} `json:"authorization"`
	SubscriptionCode string `json:"subscription_code"`
	EmailToken       string `json:"email_token"`
}

// ParseWebhookEvent decodes a raw webhook body.
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var raw struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw.Event) == "" {
		return nil, errors.New("webhook payload missing event name")
	}

	out := &WebhookEvent{
		Event:   strings.TrimSpace(raw.Event),
		DataRaw: raw.Data,
	}
	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, &out.Data); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// IsSubscriptionDisable reports whether the event ends a subscription.
func (e *WebhookEvent) IsSubscriptionDisable() bool {
	switch e.Event {
	case EventSubscriptionDisable, EventSubscriptionNotRenew:
		return true
	default:
		return false
	}
}
