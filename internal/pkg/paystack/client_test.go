package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := &Client{
		SecretKey:  "sk_test_123",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	}
	return client, srv
}

func TestCreateCustomer(t *testing.T) {
	var gotAuth, gotPath string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("unexpected body decode error: %v", err)
		}
		if body["email"] != "jane@x.com" || body["first_name"] != "Jane" {
			t.Fatalf("unexpected request body: %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Customer created","data":{"id":42,"customer_code":"CUS_42","email":"jane@x.com"}}`))
	})
	defer srv.Close()

	customer, err := client.CreateCustomer(context.Background(), "jane@x.com", "Jane", "Doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.ID != 42 || customer.CustomerCode != "CUS_42" {
		t.Fatalf("unexpected customer: %+v", customer)
	}
	if gotAuth != "Bearer sk_test_123" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotPath != "/customer" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestVerifyTransaction(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/transaction/verify/ref_1" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{
			"reference":"ref_1","status":"success","amount":8000,
			"customer":{"email":"jane@x.com"},
			"authorization":{"authorization_code":"AUTH_1","reusable":true}}}`))
	})
	defer srv.Close()

	tx, err := client.VerifyTransaction(context.Background(), "ref_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.Successful() {
		t.Fatalf("expected successful transaction, got status %q", tx.Status)
	}
	if tx.Authorization.AuthorizationCode != "AUTH_1" || tx.Amount != 8000 {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
}

func TestRejectedErrorCarriesUpstreamMessage(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Invalid plan code"}`))
	})
	defer srv.Close()

	_, err := client.CreateSubscription(context.Background(), SubscriptionRequest{
		Customer: "CUS_1",
		Plan:     "PLN_bad",
	})
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.StatusCode != http.StatusBadRequest || rejected.Message != "Invalid plan code" {
		t.Fatalf("unexpected rejection: %+v", rejected)
	}
}

func TestUnreachableErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := &Client{SecretKey: "sk", BaseURL: srv.URL, HTTPClient: srv.Client()}
	srv.Close()

	_, err := client.VerifyTransaction(context.Background(), "ref_1")
	var unreachable *UnreachableError
	if !errors.As(err, &unreachable) {
		t.Fatalf("expected UnreachableError, got %v", err)
	}
}

func TestDisableSubscription(t *testing.T) {
	var gotBody map[string]string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscription/disable" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("unexpected body decode error: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Subscription disabled successfully"}`))
	})
	defer srv.Close()

	if err := client.DisableSubscription(context.Background(), "SUB_1", "tok_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["code"] != "SUB_1" || gotBody["token"] != "tok_1" {
		t.Fatalf("unexpected request body: %v", gotBody)
	}
}

func TestClientInputValidation(t *testing.T) {
	client := &Client{SecretKey: "sk", BaseURL: "http://localhost:0"}

	if _, err := client.CreateCustomer(context.Background(), "", "Jane", "Doe"); err == nil {
		t.Fatalf("expected error for empty email")
	}
	if _, err := client.InitializeTransaction(context.Background(), InitializeRequest{Email: "a@b.com"}); err == nil {
		t.Fatalf("expected error for non-positive amount")
	}
	if _, err := client.VerifyTransaction(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty reference")
	}
	if err := client.DisableSubscription(context.Background(), "", "tok"); err == nil {
		t.Fatalf("expected error for empty code")
	}
}
