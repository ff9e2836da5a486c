package session

import (
	"time"
)

// DefaultTTL is the lifetime of a session cookie and its token.
const DefaultTTL = 30 * 24 * time.Hour

// Manager issues and parses session tokens with a fixed secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager builds a manager. A non-positive ttl falls back to DefaultTTL.
// An empty secret is accepted here; Issue and Parse then report
// ErrMissingSecret so handlers can answer with a configuration error.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Configured reports whether a signing secret is present.
func (m *Manager) Configured() bool {
	return m != nil && len(m.secret) > 0
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs claims with the manager TTL and returns the token and its expiry.
func (m *Manager) Issue(claims SessionClaims) (string, time.Time, error) {
	if !m.Configured() {
		return "", time.Time{}, ErrMissingSecret
	}
	token, err := Sign(claims.Claims(), m.secret, WithTTL(m.ttl))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, nowFunc().Add(m.ttl), nil
}

// Parse verifies token and returns its typed claims.
func (m *Manager) Parse(token string) (*SessionClaims, error) {
	if !m.Configured() {
		return nil, ErrMissingSecret
	}
	claims, err := Verify(token, m.secret)
	if err != nil {
		return nil, err
	}
	return SessionClaimsFrom(claims)
}
