package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/billing"
	"github.com/repcrafter/gateway/internal/events"
	"github.com/repcrafter/gateway/internal/session"
	apperrors "github.com/repcrafter/gateway/pkg/util/errorutil"
)

func TestCheckout_Create(t *testing.T) {
	provider := &fakeBilling{checkout: &billing.CheckoutSession{ID: "cs_1", URL: "https://pay.test/cs_1", Mode: billing.ModeSubscription}}
	dispatcher := &recordingDispatcher{}
	svc := NewCheckoutService(provider, dispatcher, zap.NewNop())

	claims := &session.SessionClaims{Subject: "g-1", Email: "a@b.com", StripeCustomerID: "cus_1"}
	sess, err := svc.Create(context.Background(), claims, CheckoutInput{Interval: "year"}, "https://app.test")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.URL != "https://pay.test/cs_1" {
		t.Fatalf("unexpected session %+v", sess)
	}

	req := provider.lastCheckout
	if req.SuccessURL != "https://app.test?paid=1" || req.CancelURL != "https://app.test" {
		t.Fatalf("unexpected return urls %+v", req)
	}
	if req.CustomerID != "cus_1" || req.CustomerEmail != "a@b.com" || req.ClientReferenceID != "g-1" || req.Interval != "year" {
		t.Fatalf("unexpected request %+v", req)
	}
	if types := dispatcher.types(); len(types) != 1 || types[0] != events.EventCheckoutCreated {
		t.Fatalf("unexpected events %v", types)
	}

	_, err = svc.Create(context.Background(), nil, CheckoutInput{ReturnTo: "https://app.test/plans?ref=x"}, "https://ignored")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if provider.lastCheckout.SuccessURL != "https://app.test/plans?ref=x&paid=1" || provider.lastCheckout.ClientReferenceID != "" {
		t.Fatalf("unexpected anonymous request %+v", provider.lastCheckout)
	}
}

func TestCheckout_Errors(t *testing.T) {
	_, err := NewCheckoutService(nil, nil, zap.NewNop()).Create(context.Background(), nil, CheckoutInput{}, "https://app.test")
	if code, status := domainCode(t, err); code != apperrors.CodeServerMisconfigured || status != 500 {
		t.Fatalf("unexpected error %s/%d", code, status)
	}

	provider := &fakeBilling{checkoutErr: &billing.ProviderError{StatusCode: 402, Message: "card declined", RequestID: "req_1", Param: "price"}}
	_, err = NewCheckoutService(provider, nil, zap.NewNop()).Create(context.Background(), nil, CheckoutInput{}, "https://app.test")
	var derr *apperrors.DomainError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if derr.Code != apperrors.CodeCheckoutFailed || derr.HTTPStatus != 402 {
		t.Fatalf("unexpected error %s/%d", derr.Code, derr.HTTPStatus)
	}
	if derr.Details["stripe_request_id"] != "req_1" || derr.Details["stripe_param"] != "price" {
		t.Fatalf("unexpected details %v", derr.Details)
	}

	provider = &fakeBilling{checkoutErr: fmt.Errorf("%w: price_old", billing.ErrPriceInactive)}
	_, err = NewCheckoutService(provider, nil, zap.NewNop()).Create(context.Background(), nil, CheckoutInput{}, "https://app.test")
	if code, status := domainCode(t, err); code != apperrors.CodeCheckoutFailed || status != 400 {
		t.Fatalf("unexpected error %s/%d", code, status)
	}
}
