package billing

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/motherboardhq/payment-service/app/models"
	"github.com/motherboardhq/payment-service/internal/pkg/paystack"
	"gorm.io/gorm"
)

// ProcessorClient is the outbound surface the reconciler needs from the
// payment processor. *paystack.Client satisfies it.
type ProcessorClient interface {
	CreateCustomer(ctx context.Context, email, firstName, lastName string) (*paystack.Customer, error)
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.TransactionInit, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error)
	CreateSubscription(ctx context.Context, req paystack.SubscriptionRequest) (*paystack.Subscription, error)
	DisableSubscription(ctx context.Context, code, emailToken string) error
}

// Config carries the fixed plan parameters. The plan identifier is
// configuration, not user input.
type Config struct {
	PlanID       string
	ChargeAmount int64
}

var defaultChannels = []string{"card", "bank", "ussd", "qr", "mobile_money"}

// Service owns the invariants across the User, Subscription and PaymentLog
// tables. Both write paths, explicit API calls and webhook deliveries, go
// through it; mutating operations are serialized per normalized email.
type Service struct {
	repo      Repository
	processor ProcessorClient
	cfg       Config
	locks     *keyedMutex
}

// NewService creates a reconciler from an injected repository and processor.
func NewService(repo Repository, processor ProcessorClient, cfg Config) *Service {
	return &Service{
		repo:      repo,
		processor: processor,
		cfg:       cfg,
		locks:     newKeyedMutex(),
	}
}

// NewServiceFromDB creates a reconciler from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, processor ProcessorClient, cfg Config) *Service {
	return NewService(NewRepository(db), processor, cfg)
}

type RegisterResult struct {
	Email        string `json:"email"`
	CustomerCode string `json:"customer_code"`
}

// RegisterCustomer mints a processor-side customer identity and persists the
// local user row. The remote call and the local insert are not one
// transaction: a failed insert leaves an orphaned processor customer, which
// Paystack tolerates because customer creation is idempotent by email.
func (s *Service) RegisterCustomer(ctx context.Context, email, firstName, lastName string) (*RegisterResult, error) {
	email = models.NormalizeEmail(email)
	unlock := s.locks.Lock(email)
	defer unlock()

	if _, err := s.repo.GetUserByEmail(email); err == nil {
		return nil, ErrDuplicateCustomer
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer, err := s.processor.CreateCustomer(ctx, email, firstName, lastName)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:              email,
		FirstName:          strings.TrimSpace(firstName),
		LastName:           strings.TrimSpace(lastName),
		CustomerCode:       customer.CustomerCode,
		CustomerID:         customer.ID,
		SubscriptionActive: false,
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	return &RegisterResult{Email: email, CustomerCode: customer.CustomerCode}, nil
}

type ChargeInit struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// InitializeCharge starts a one-time charge flow for an existing customer.
// Nothing is written locally; the charge is unconfirmed until verified.
func (s *Service) InitializeCharge(ctx context.Context, email string, amount int64, channels []string) (*ChargeInit, error) {
	email = models.NormalizeEmail(email)
	if _, err := s.repo.GetUserByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	if amount <= 0 {
		amount = s.cfg.ChargeAmount
	}
	if len(channels) == 0 {
		channels = defaultChannels
	}

	init, err := s.processor.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:     email,
		Amount:    amount,
		Channels:  channels,
		Reference: "mb_" + uuid.NewString(),
		Metadata: map[string]string{
			"plan_id": s.cfg.PlanID,
		},
	})
	if err != nil {
		return nil, err
	}

	return &ChargeInit{
		AuthorizationURL: init.AuthorizationURL,
		AccessCode:       init.AccessCode,
		Reference:        init.Reference,
	}, nil
}

type ChargeResult struct {
	Verified  bool   `json:"verified"`
	Email     string `json:"email,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
	Reference string `json:"reference"`
}

// VerifyCharge fetches a transaction's final status from the processor.
// A successful charge converts into a reusable mandate: the authorization
// code is stored on the user and exactly one payment log row is appended for
// the reference. Re-verifying a reference fails with ErrDuplicateReference.
func (s *Service) VerifyCharge(ctx context.Context, reference string) (*ChargeResult, error) {
	tx, err := s.processor.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	if !tx.Successful() {
		return &ChargeResult{Verified: false, Reference: reference}, nil
	}

	email := models.NormalizeEmail(tx.Customer.Email)
	unlock := s.locks.Lock(email)
	defer unlock()

	snapshot, _ := json.Marshal(tx.Authorization)
	created, err := s.repo.CreatePaymentLogIfNotExists(&models.PaymentLog{
		Email:     email,
		Reference: reference,
		Amount:    tx.Amount,
		Status:    "success",
		EventType: models.PaymentEventInitial,
		Payload:   string(snapshot),
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrDuplicateReference
	}

	user, err := s.repo.GetUserByEmail(email)
	if err == nil {
		authCode := tx.Authorization.AuthorizationCode
		if strings.TrimSpace(authCode) != "" {
			user.AuthorizationCode = &authCode
			user.FirstAuthorization = true
			if err := s.repo.SaveUser(user); err != nil {
				return nil, err
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &ChargeResult{
		Verified:  true,
		Email:     email,
		Amount:    tx.Amount,
		Reference: reference,
	}, nil
}

type SubscriptionResult struct {
	Email             string     `json:"email"`
	SubscriptionCode  string     `json:"subscription_code"`
	Status            string     `json:"status"`
	NextPaymentDate   *time.Time `json:"next_payment_date,omitempty"`
	AlreadySubscribed bool       `json:"already_subscribed,omitempty"`
}

// CreateSubscription attaches the configured plan to the customer's stored
// authorization. Idempotent: a customer already holding a subscription for
// the plan gets the existing code back instead of an error.
func (s *Service) CreateSubscription(ctx context.Context, email string) (*SubscriptionResult, error) {
	email = models.NormalizeEmail(email)
	unlock := s.locks.Lock(email)
	defer unlock()

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	return s.createSubscriptionLocked(ctx, user)
}

// createSubscriptionLocked is the shared creation path for the explicit API
// call and the webhook auto-create branch. The caller must hold the user's
// email lock.
func (s *Service) createSubscriptionLocked(ctx context.Context, user *models.User) (*SubscriptionResult, error) {
	if !user.HasAuthorization() {
		return nil, ErrAuthorizationRequired
	}

	if user.HasSubscription() {
		return &SubscriptionResult{
			Email:             user.Email,
			SubscriptionCode:  *user.SubscriptionCode,
			Status:            models.SubscriptionStatusActive,
			AlreadySubscribed: true,
		}, nil
	}

	sub, err := s.processor.CreateSubscription(ctx, paystack.SubscriptionRequest{
		Customer:      user.CustomerCode,
		Plan:          s.cfg.PlanID,
		Authorization: *user.AuthorizationCode,
		StartDate:     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	row := &models.Subscription{
		Email:            user.Email,
		SubscriptionCode: sub.SubscriptionCode,
		PlanID:           s.cfg.PlanID,
		Status:           sub.Status,
		NextPaymentDate:  parsePaymentDate(sub.NextPaymentDate),
		EmailToken:       sub.EmailToken,
	}
	created, err := s.repo.CreateSubscriptionIfNotExists(row)
	if err != nil {
		return nil, err
	}

	// On a lost race the stored row wins; adopt its code and token.
	code := row.SubscriptionCode
	user.SubscriptionCode = &code
	user.SubscriptionActive = true
	if strings.TrimSpace(row.EmailToken) != "" {
		token := row.EmailToken
		user.EmailToken = &token
	}
	if err := s.repo.SaveUser(user); err != nil {
		return nil, err
	}

	return &SubscriptionResult{
		Email:             user.Email,
		SubscriptionCode:  row.SubscriptionCode,
		Status:            row.Status,
		NextPaymentDate:   row.NextPaymentDate,
		AlreadySubscribed: !created,
	}, nil
}

// HandleChargeSuccess reconciles a charge.success webhook delivery. Unknown
// customers are acknowledged without writes so the processor stops
// redelivering. When the charge carries an authorization and the user has no
// subscription yet, the subscription is auto-created on the same path as the
// explicit call; failure there is logged, not surfaced, and the event is
// still acknowledged.
func (s *Service) HandleChargeSuccess(ctx context.Context, ev *WebhookEvent) error {
	email := models.NormalizeEmail(ev.Data.Customer.Email)
	if email == "" {
		return nil
	}

	unlock := s.locks.Lock(email)
	defer unlock()

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if authCode := strings.TrimSpace(ev.Data.Authorization.AuthorizationCode); authCode != "" {
		user.AuthorizationCode = &authCode
		user.FirstAuthorization = true
	}
	now := time.Now()
	user.SubscriptionActive = true
	user.LastPaymentDate = &now
	if err := s.repo.SaveUser(user); err != nil {
		return err
	}

	if user.HasAuthorization() && !user.HasSubscription() {
		if _, err := s.createSubscriptionLocked(ctx, user); err != nil {
			log.Printf("charge.success auto-subscribe failed for %s: %v", email, err)
		}
	}

	if ref := strings.TrimSpace(ev.Data.Reference); ref != "" {
		// Replayed deliveries hit the unique reference and write nothing.
		if _, err := s.repo.CreatePaymentLogIfNotExists(&models.PaymentLog{
			Email:     email,
			Reference: ref,
			Amount:    ev.Data.Amount,
			Status:    "success",
			EventType: models.PaymentEventChargeSuccess,
			Payload:   string(ev.DataRaw),
		}); err != nil {
			return err
		}
	}
	return nil
}

// HandleSubscriptionDisabled reconciles subscription.disable and
// subscription.not_renew deliveries: the user flag flips, nothing else
// changes. The Subscription row's own status is left as inserted.
func (s *Service) HandleSubscriptionDisabled(ctx context.Context, ev *WebhookEvent) error {
	_ = ctx
	email := models.NormalizeEmail(ev.Data.Customer.Email)
	if email == "" {
		return nil
	}

	unlock := s.locks.Lock(email)
	defer unlock()

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	user.SubscriptionActive = false
	return s.repo.SaveUser(user)
}

// CancelSubscription disables the customer's subscription at the processor
// and flips the local flag. The subscription code is retained so the
// subscription stays addressable for re-enable flows.
func (s *Service) CancelSubscription(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)
	unlock := s.locks.Lock(email)
	defer unlock()

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return err
	}
	if !user.HasSubscription() {
		return ErrNoActiveSubscription
	}

	token := ""
	if user.EmailToken != nil {
		token = strings.TrimSpace(*user.EmailToken)
	}
	if token == "" {
		sub, err := s.repo.GetSubscriptionByCode(*user.SubscriptionCode)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if sub != nil {
			token = strings.TrimSpace(sub.EmailToken)
		}
	}
	if token == "" {
		return ErrMissingToken
	}

	if err := s.processor.DisableSubscription(ctx, *user.SubscriptionCode, token); err != nil {
		return err
	}

	user.SubscriptionActive = false
	return s.repo.SaveUser(user)
}

type CustomerSummary struct {
	Email              string         `json:"email"`
	Name               string         `json:"name"`
	SubscriptionActive bool           `json:"subscription_active"`
	SubscriptionCode   string         `json:"subscription_code,omitempty"`
	State              LifecycleState `json:"state"`
	CreatedAt          time.Time      `json:"created_at"`
}

// ListCustomers projects all users to the admin summary view.
func (s *Service) ListCustomers(ctx context.Context) ([]CustomerSummary, error) {
	_ = ctx
	users, err := s.repo.ListUsers()
	if err != nil {
		return nil, err
	}

	out := make([]CustomerSummary, 0, len(users))
	for i := range users {
		u := &users[i]
		summary := CustomerSummary{
			Email:              u.Email,
			Name:               u.DisplayName(),
			SubscriptionActive: u.SubscriptionActive,
			State:              UserLifecycleState(u),
			CreatedAt:          u.CreatedAt,
		}
		if u.SubscriptionCode != nil {
			summary.SubscriptionCode = *u.SubscriptionCode
		}
		out = append(out, summary)
	}
	return out, nil
}

type StatusResult struct {
	Found              bool           `json:"found"`
	Email              string         `json:"email,omitempty"`
	FirstName          string         `json:"first_name,omitempty"`
	LastName           string         `json:"last_name,omitempty"`
	SubscriptionActive bool           `json:"subscription_active"`
	SubscriptionCode   string         `json:"subscription_code,omitempty"`
	State              LifecycleState `json:"state"`
	CreatedAt          *time.Time     `json:"created_at,omitempty"`
}

// SubscriptionStatus is the public status projection of a user row.
func (s *Service) SubscriptionStatus(ctx context.Context, email string) (*StatusResult, error) {
	_ = ctx
	user, err := s.repo.GetUserByEmail(models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &StatusResult{Found: false, State: StateUnregistered}, nil
		}
		return nil, err
	}

	result := &StatusResult{
		Found:              true,
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		SubscriptionActive: user.SubscriptionActive,
		State:              UserLifecycleState(user),
		CreatedAt:          &user.CreatedAt,
	}
	if user.SubscriptionCode != nil {
		result.SubscriptionCode = *user.SubscriptionCode
	}
	return result, nil
}

func parsePaymentDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}
