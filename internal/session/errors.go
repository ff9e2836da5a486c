package session

import (
	"errors"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Failure signals returned by Sign and Verify. They wrap the matching
// golang-jwt sentinels so callers may test against either.
var (
	ErrMissingSecret     = errors.New("session: secret missing")
	ErrMalformedToken    = fmt.Errorf("session: %w", jwt.ErrTokenMalformed)
	ErrSignatureMismatch = fmt.Errorf("session: %w", jwt.ErrTokenSignatureInvalid)
	ErrMalformedPayload  = fmt.Errorf("session: payload: %w", jwt.ErrTokenMalformed)
	ErrTokenExpired      = fmt.Errorf("session: %w", jwt.ErrTokenExpired)
	ErrMissingSubject    = fmt.Errorf("session: payload: %w", jwt.ErrTokenRequiredClaimMissing)
)

// ErrorKind groups verification failures for diagnostics.
type ErrorKind string

const (
	KindNone      ErrorKind = ""
	KindConfig    ErrorKind = "config"
	KindMalformed ErrorKind = "malformed"
	KindSignature ErrorKind = "signature"
	KindExpired   ErrorKind = "expired"
	KindUnknown   ErrorKind = "unknown"
)

// Kind classifies err. The result is meant for logs only; clients must see
// every kind as the same unauthenticated outcome.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMissingSecret):
		return KindConfig
	case errors.Is(err, ErrSignatureMismatch):
		return KindSignature
	case errors.Is(err, ErrTokenExpired):
		return KindExpired
	case errors.Is(err, ErrMalformedToken),
		errors.Is(err, ErrMalformedPayload),
		errors.Is(err, ErrMissingSubject):
		return KindMalformed
	default:
		return KindUnknown
	}
}
