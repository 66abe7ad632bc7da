package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/motherboardhq/payment-service/internal/pkg/env"
)

const defaultBaseURL = "https://api.paystack.co"

// Client is a thin wrapper over the Paystack REST API. It is constructed once
// with explicit configuration and injected into callers; there is no shared
// package-level state. Each method performs a single attempt, no retries.
type Client struct {
	SecretKey string
	BaseURL   string

	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		SecretKey: strings.TrimSpace(env.GetEnv("PAYSTACK_SECRET_KEY", "")),
		BaseURL:   strings.TrimRight(env.GetEnv("PAYSTACK_BASE_URL", defaultBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// RejectedError is returned when Paystack answered with a non-2xx status.
// The upstream message is carried through for the caller.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("paystack rejected request: status=%d message=%s", e.StatusCode, e.Message)
}

// UnreachableError is returned when the HTTP round trip itself failed.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("paystack unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// Customer is the subset of Paystack's customer object this service stores.
type Customer struct {
	ID           int64  `json:"id"`
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email"`
}

// InitializeRequest starts a one-time charge flow.
type InitializeRequest struct {
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	Channels  []string          `json:"channels,omitempty"`
	Reference string            `json:"reference,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type TransactionInit struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Authorization is the reusable charge mandate Paystack issues after a
// successful transaction.
type Authorization struct {
	AuthorizationCode string `json:"authorization_code"`
	Channel           string `json:"channel"`
	CardType          string `json:"card_type"`
	Last4             string `json:"last4"`
	Bank              string `json:"bank"`
	Reusable          bool   `json:"reusable"`
}

type Transaction struct {
	Reference     string        `json:"reference"`
	Status        string        `json:"status"`
	Amount        int64         `json:"amount"`
	Customer      Customer      `json:"customer"`
	Authorization Authorization `json:"authorization"`
}

// Successful reports whether the transaction reached its final success state.
func (t *Transaction) Successful() bool {
	return strings.EqualFold(strings.TrimSpace(t.Status), "success")
}

type SubscriptionRequest struct {
	Customer      string `json:"customer"`
	Plan          string `json:"plan"`
	Authorization string `json:"authorization"`
	StartDate     string `json:"start_date,omitempty"`
}

type Subscription struct {
	SubscriptionCode string `json:"subscription_code"`
	EmailToken       string `json:"email_token"`
	Status           string `json:"status"`
	NextPaymentDate  string `json:"next_payment_date"`
}

// CreateCustomer mints a customer identity on Paystack.
func (c *Client) CreateCustomer(ctx context.Context, email, firstName, lastName string) (*Customer, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errors.New("email is required")
	}
	body := map[string]string{
		"email":      email,
		"first_name": firstName,
		"last_name":  lastName,
	}
	var out Customer
	if err := c.do(ctx, http.MethodPost, "/customer", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitializeTransaction starts a one-time charge flow and returns the
// redirect target plus the transaction reference handle.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*TransactionInit, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, errors.New("email is required")
	}
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	var out TransactionInit
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTransaction fetches the final status of a transaction by reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return nil, errors.New("reference is required")
	}
	var out Transaction
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(ref), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSubscription attaches a recurring subscription to a stored
// authorization.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest) (*Subscription, error) {
	if strings.TrimSpace(req.Customer) == "" || strings.TrimSpace(req.Plan) == "" {
		return nil, errors.New("customer and plan are required")
	}
	var out Subscription
	if err := c.do(ctx, http.MethodPost, "/subscription", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DisableSubscription cancels a subscription. Paystack requires the
// subscription's own email token in addition to the API credential.
func (c *Client) DisableSubscription(ctx context.Context, code, emailToken string) error {
	if strings.TrimSpace(code) == "" {
		return errors.New("subscription code is required")
	}
	body := map[string]string{
		"code":  code,
		"token": emailToken,
	}
	return c.do(ctx, http.MethodPost, "/subscription/disable", body, nil)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	base := strings.TrimRight(c.BaseURL, "/")
	req, err := http.NewRequestWithContext(ctx, method, base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var wrapper envelope
	if err := json.Unmarshal(raw, &wrapper); err != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return fmt.Errorf("paystack response decode failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(wrapper.Message)
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &RejectedError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(wrapper.Data) > 0 {
		if err := json.Unmarshal(wrapper.Data, out); err != nil {
			return fmt.Errorf("paystack data decode failed: %w", err)
		}
	}
	return nil
}
