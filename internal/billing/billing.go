// Package billing talks to the payments provider on behalf of signed-in users.
package billing

import (
	"context"
	"errors"
	"fmt"
)

// Checkout modes.
const (
	ModeSubscription = "subscription"
	ModePayment      = "payment"
)

// ErrPriceInactive is returned when the configured or requested price is archived.
var ErrPriceInactive = errors.New("billing: price is not active")

// Provider is the payments collaborator. A nil Provider means billing is
// not configured for this deployment.
type Provider interface {
	EnsureCustomer(ctx context.Context, email, name string) (string, error)
	HasActiveSubscription(ctx context.Context, customerID string) (bool, error)
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// CheckoutRequest describes a hosted checkout page to create.
type CheckoutRequest struct {
	PriceID           string
	Interval          string
	SuccessURL        string
	CancelURL         string
	CustomerID        string
	CustomerEmail     string
	ClientReferenceID string
}

// CheckoutSession is the created checkout page.
type CheckoutSession struct {
	ID   string
	URL  string
	Mode string
}

// Plan is the fallback price used when no price id is configured.
type Plan struct {
	ProductName string
	UnitAmount  int64
	Currency    string
	Interval    string
}

// ProviderError carries the diagnostics a provider attaches to a failure.
type ProviderError struct {
	StatusCode int
	Message    string
	RequestID  string
	Param      string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("billing: %s (status %d, request %s)", e.Message, e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("billing: %s (status %d)", e.Message, e.StatusCode)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
