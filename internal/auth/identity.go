package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/repcrafter/gateway/internal/domain"
)

var googleValidate = idtoken.Validate

var googleIssuers = []string{"https://accounts.google.com", "accounts.google.com"}

// Identity verification failures. None of them are shown to clients.
var (
	ErrMissingCredential = errors.New("missing_credential")
	ErrMissingClientID   = errors.New("server_misconfigured: GOOGLE_CLIENT_ID missing")
	ErrBadIssuer         = errors.New("bad_issuer")
	ErrInvalidCredential = errors.New("invalid_credential")
)

// IdentityVerifier exchanges a third-party credential for a verified identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*domain.Identity, error)
}

// GoogleVerifier validates Google ID tokens for a single OAuth client.
type GoogleVerifier struct {
	clientID string
	timeout  time.Duration
}

// NewGoogleVerifier builds a verifier; timeout bounds each validation when positive.
func NewGoogleVerifier(clientID string, timeout time.Duration) *GoogleVerifier {
	return &GoogleVerifier{clientID: strings.TrimSpace(clientID), timeout: timeout}
}

// Configured reports whether a client id is set.
func (g *GoogleVerifier) Configured() bool {
	return g != nil && g.clientID != ""
}

// Verify checks signature, audience and issuer of credential.
func (g *GoogleVerifier) Verify(ctx context.Context, credential string) (*domain.Identity, error) {
	if !g.Configured() {
		return nil, ErrMissingClientID
	}
	if strings.TrimSpace(credential) == "" {
		return nil, ErrMissingCredential
	}

	validateCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		validateCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	payload, err := googleValidate(validateCtx, credential, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if !knownIssuer(payload.Issuer) {
		return nil, fmt.Errorf("%w: %s", ErrBadIssuer, payload.Issuer)
	}

	identity := &domain.Identity{Subject: payload.Subject}
	if identity.Subject == "" {
		return nil, fmt.Errorf("%w: subject missing", ErrInvalidCredential)
	}
	identity.Email = stringClaim(payload.Claims, "email")
	identity.Name = stringClaim(payload.Claims, "name")
	identity.Picture = stringClaim(payload.Claims, "picture")
	return identity, nil
}

func knownIssuer(iss string) bool {
	for _, known := range googleIssuers {
		if iss == known {
			return true
		}
	}
	return false
}

func stringClaim(claims map[string]interface{}, key string) string {
	if claims == nil {
		return ""
	}
	s, _ := claims[key].(string)
	return s
}
