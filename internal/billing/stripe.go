package billing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

const subscriptionLookupLimit = 10

// StripeConfig configures the Stripe client.
type StripeConfig struct {
	SecretKey         string
	PriceID           string
	Plan              Plan
	APIURL            string
	MaxNetworkRetries int64
	HTTPClient        *http.Client
}

// Stripe implements Provider on top of the Stripe API.
type Stripe struct {
	api     *client.API
	priceID string
	plan    Plan
	logger  *zap.Logger
}

// NewStripe builds a client bound to cfg.SecretKey. It returns nil when no
// key is configured so callers can treat billing as absent.
func NewStripe(cfg StripeConfig, logger *zap.Logger) *Stripe {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil
	}

	sugar := logger.Named("stripe").Sugar()
	backendConfig := func(url string) *stripe.BackendConfig {
		retries := cfg.MaxNetworkRetries
		bc := &stripe.BackendConfig{
			HTTPClient:        cfg.HTTPClient,
			LeveledLogger:     sugar,
			MaxNetworkRetries: &retries,
		}
		if url != "" {
			bc.URL = stripe.String(url)
		}
		return bc
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig(cfg.APIURL)),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig("")),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig("")),
	})

	return &Stripe{api: api, priceID: cfg.PriceID, plan: cfg.Plan, logger: logger}
}

// EnsureCustomer returns the id of the first customer with email, creating one if needed.
func (s *Stripe) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.Single = true

	iter := s.api.Customers.List(params)
	if iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", wrapStripeError("list customers", err)
	}

	create := &stripe.CustomerParams{Email: stripe.String(email)}
	if name != "" {
		create.Name = stripe.String(name)
	}
	create.Context = ctx
	customer, err := s.api.Customers.New(create)
	if err != nil {
		return "", wrapStripeError("create customer", err)
	}
	s.logger.Info("stripe customer created", zap.String("customer_id", customer.ID))
	return customer.ID, nil
}

// HasActiveSubscription reports whether any of the customer's recent
// subscriptions is active or trialing.
func (s *Stripe) HasActiveSubscription(ctx context.Context, customerID string) (bool, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(subscriptionLookupLimit)
	params.Single = true

	iter := s.api.Subscriptions.List(params)
	for iter.Next() {
		switch iter.Subscription().Status {
		case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
			return true, nil
		}
	}
	if err := iter.Err(); err != nil {
		return false, wrapStripeError("list subscriptions", err)
	}
	return false, nil
}

// CreateCheckout creates a hosted checkout session. A configured price id
// wins over one supplied in req; without either the default plan is sold
// as a subscription.
func (s *Stripe) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	priceID := s.priceID
	if priceID == "" {
		priceID = req.PriceID
	}

	var (
		mode string
		item *stripe.CheckoutSessionLineItemParams
	)
	if priceID != "" {
		priceParams := &stripe.PriceParams{}
		priceParams.Context = ctx
		price, err := s.api.Prices.Get(priceID, priceParams)
		if err != nil {
			return nil, wrapStripeError("retrieve price", err)
		}
		if !price.Active {
			return nil, fmt.Errorf("%w: %s", ErrPriceInactive, priceID)
		}
		mode = ModePayment
		if price.Type == stripe.PriceTypeRecurring {
			mode = ModeSubscription
		}
		item = &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(price.ID),
			Quantity: stripe.Int64(1),
		}
	} else {
		interval := req.Interval
		if interval == "" {
			interval = s.plan.Interval
		}
		mode = ModeSubscription
		item = &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.plan.Currency),
				UnitAmount: stripe.Int64(s.plan.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(s.plan.ProductName),
				},
				Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
					Interval: stripe.String(interval),
				},
			},
			Quantity: stripe.Int64(1),
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(mode),
		SuccessURL:               stripe.String(req.SuccessURL),
		CancelURL:                stripe.String(req.CancelURL),
		LineItems:                []*stripe.CheckoutSessionLineItemParams{item},
		AllowPromotionCodes:      stripe.Bool(true),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
	}
	switch {
	case req.CustomerID != "":
		params.Customer = stripe.String(req.CustomerID)
	case req.CustomerEmail != "":
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if req.ClientReferenceID != "" {
		params.ClientReferenceID = stripe.String(req.ClientReferenceID)
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, wrapStripeError("create checkout session", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL, Mode: mode}, nil
}

func wrapStripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &ProviderError{
			StatusCode: stripeErr.HTTPStatusCode,
			Message:    op + ": " + stripeErr.Msg,
			RequestID:  stripeErr.RequestID,
			Param:      stripeErr.Param,
			Err:        err,
		}
	}
	return fmt.Errorf("billing: %s: %w", op, err)
}
