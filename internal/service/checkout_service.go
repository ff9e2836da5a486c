package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/billing"
	"github.com/repcrafter/gateway/internal/events"
	"github.com/repcrafter/gateway/internal/session"
	apperrors "github.com/repcrafter/gateway/pkg/util/errorutil"
)

// CheckoutInput carries the optional client choices for a checkout.
type CheckoutInput struct {
	PriceID  string
	Interval string
	ReturnTo string
}

// CheckoutService creates hosted checkout pages.
type CheckoutService struct {
	billing    billing.Provider
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCheckoutService builds the service. provider may be nil.
func NewCheckoutService(provider billing.Provider, dispatcher events.Dispatcher, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{billing: provider, dispatcher: dispatcher, logger: logger}
}

// Create starts a checkout for the caller. claims is nil for anonymous
// callers; origin is used when the input has no return URL.
func (s *CheckoutService) Create(ctx context.Context, claims *session.SessionClaims, in CheckoutInput, origin string) (*billing.CheckoutSession, error) {
	if s.billing == nil {
		return nil, apperrors.NewMisconfigured("STRIPE_SECRET_KEY missing")
	}

	returnTo := strings.TrimSpace(in.ReturnTo)
	if returnTo == "" {
		returnTo = origin
	}
	req := billing.CheckoutRequest{
		PriceID:    strings.TrimSpace(in.PriceID),
		Interval:   strings.TrimSpace(in.Interval),
		SuccessURL: withQuery(returnTo, "paid=1"),
		CancelURL:  returnTo,
	}
	subject := ""
	if claims != nil {
		subject = claims.Subject
		req.CustomerID = claims.StripeCustomerID
		req.CustomerEmail = claims.Email
		req.ClientReferenceID = claims.Subject
	}

	sess, err := s.billing.CreateCheckout(ctx, req)
	if err != nil {
		s.logger.Error("checkout failed", zap.String("subject", subject), zap.Error(err))
		return nil, checkoutError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventCheckoutCreated, subject, events.CheckoutCreatedPayload{
			SessionID: sess.ID,
			Mode:      sess.Mode,
		}))
	}
	return sess, nil
}

func checkoutError(err error) error {
	var perr *billing.ProviderError
	if errors.As(err, &perr) {
		details := map[string]any{"detail": perr.Message}
		if perr.RequestID != "" {
			details["stripe_request_id"] = perr.RequestID
		}
		if perr.Param != "" {
			details["stripe_param"] = perr.Param
		}
		status := perr.StatusCode
		if status == 0 {
			status = http.StatusBadRequest
		}
		return apperrors.NewUpstreamError(apperrors.CodeCheckoutFailed, "checkout failed", status, details, err)
	}
	return apperrors.NewUpstreamError(apperrors.CodeCheckoutFailed, "checkout failed", http.StatusBadRequest,
		map[string]any{"detail": err.Error()}, err)
}

func withQuery(u, query string) string {
	if strings.Contains(u, "?") {
		return u + "&" + query
	}
	return u + "?" + query
}
