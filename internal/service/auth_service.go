package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/auth"
	"github.com/repcrafter/gateway/internal/billing"
	"github.com/repcrafter/gateway/internal/domain"
	"github.com/repcrafter/gateway/internal/events"
	"github.com/repcrafter/gateway/internal/repository"
	"github.com/repcrafter/gateway/internal/session"
	apperrors "github.com/repcrafter/gateway/pkg/util/errorutil"
)

// AuthService turns identity credentials into session tokens and reports
// session status.
type AuthService struct {
	verifier   auth.IdentityVerifier
	tokens     *session.Manager
	billing    billing.Provider
	paid       *billing.StatusCache
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators of the auth service.
// Billing may be nil when payments are not configured.
type AuthDependencies struct {
	Verifier   auth.IdentityVerifier
	Tokens     *session.Manager
	Billing    billing.Provider
	PaidCache  *billing.StatusCache
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	users := deps.UserRepo
	if users == nil {
		users = repository.NewUserRepository(nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		verifier:   deps.Verifier,
		tokens:     deps.Tokens,
		billing:    deps.Billing,
		paid:       deps.PaidCache,
		users:      users,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// SignInResult is a freshly issued session.
type SignInResult struct {
	Token     string
	ExpiresAt time.Time
	Claims    session.SessionClaims
}

// SignIn verifies credential, links a billing customer when possible and
// issues a session token.
func (s *AuthService) SignIn(ctx context.Context, credential string) (*SignInResult, error) {
	if !s.tokens.Configured() {
		return nil, apperrors.NewMisconfigured("SESSION_SECRET missing")
	}

	identity, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		if errors.Is(err, auth.ErrMissingClientID) {
			return nil, apperrors.NewMisconfigured("GOOGLE_CLIENT_ID missing")
		}
		s.logger.Info("sign-in rejected", zap.NamedError("reason", err))
		return nil, apperrors.NewAuthFailed(err)
	}

	user := &domain.User{
		Subject: identity.Subject,
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.Picture,
	}
	user.StripeCustomerID = s.customerFor(ctx, identity)

	if err := s.users.Upsert(ctx, user); err != nil {
		s.logger.Warn("user upsert failed", zap.String("subject", user.Subject), zap.Error(err))
	}

	claims := session.SessionClaims{
		Subject:          user.Subject,
		Email:            user.Email,
		Name:             user.Name,
		Picture:          user.Picture,
		StripeCustomerID: user.StripeCustomerID,
	}
	token, expiresAt, err := s.tokens.Issue(claims)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventSessionStarted, user.Subject, events.SessionStartedPayload{
		Email:            user.Email,
		StripeCustomerID: user.StripeCustomerID,
		ExpiresAt:        expiresAt,
	}))

	return &SignInResult{Token: token, ExpiresAt: expiresAt, Claims: claims}, nil
}

// customerFor returns the billing customer of identity. Billing failures
// never block sign-in.
func (s *AuthService) customerFor(ctx context.Context, identity *domain.Identity) string {
	if s.billing == nil || identity.Email == "" {
		return ""
	}

	stored, err := s.users.GetBySubject(ctx, identity.Subject)
	switch {
	case err == nil && stored.StripeCustomerID != "":
		return stored.StripeCustomerID
	case err != nil && !errors.Is(err, pgx.ErrNoRows):
		s.logger.Warn("user lookup failed", zap.String("subject", identity.Subject), zap.Error(err))
	}

	customerID, err := s.billing.EnsureCustomer(ctx, identity.Email, identity.Name)
	if err != nil {
		s.logger.Warn("billing customer lookup failed", zap.Error(err))
		return ""
	}
	return customerID
}

// Status reports whether claims belong to a signed-in, paying user. A nil
// claims value is an anonymous caller.
func (s *AuthService) Status(ctx context.Context, claims *session.SessionClaims) domain.SessionStatus {
	if claims == nil {
		return domain.SessionStatus{}
	}
	status := domain.SessionStatus{
		Authenticated:    true,
		Email:            claims.Email,
		StripeCustomerID: claims.StripeCustomerID,
	}
	status.Paid = s.isPaid(ctx, claims.StripeCustomerID)
	return status
}

func (s *AuthService) isPaid(ctx context.Context, customerID string) bool {
	if s.billing == nil || customerID == "" {
		return false
	}
	if paid, ok := s.paid.Get(ctx, customerID); ok {
		return paid
	}

	paid, err := s.billing.HasActiveSubscription(ctx, customerID)
	if err != nil {
		s.logger.Warn("billing subscription check failed", zap.String("customer_id", customerID), zap.Error(err))
		return false
	}
	// Unpaid results are never cached.
	if paid {
		s.paid.Set(ctx, customerID, true)
	}
	return paid
}

// SignOut records the end of a session. Clearing the cookie is the caller's job.
func (s *AuthService) SignOut(ctx context.Context, claims *session.SessionClaims) {
	if claims == nil {
		return
	}
	s.paid.Invalidate(ctx, claims.StripeCustomerID)
	s.publish(ctx, events.NewEvent(events.EventSessionEnded, claims.Subject, nil))
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
