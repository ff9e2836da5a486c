package session

import (
	"encoding/json"
	"strconv"
	"time"
)

// Well-known claim names written into session tokens.
const (
	ClaimSubject          = "sub"
	ClaimEmail            = "email"
	ClaimName             = "name"
	ClaimPicture          = "picture"
	ClaimStripeCustomerID = "stripe_customer_id"
)

// SessionClaims is the typed view of the claims carried by a session cookie.
type SessionClaims struct {
	Subject          string
	Email            string
	Name             string
	Picture          string
	StripeCustomerID string
	IssuedAt         int64
	ExpiresAt        int64
	// Extra preserves claims this service does not know about.
	Extra map[string]any
}

// Claims flattens s into a claim set ready for Sign. iat and exp are left to
// the signer.
func (s SessionClaims) Claims() Claims {
	out := make(Claims, len(s.Extra)+5)
	for k, v := range s.Extra {
		out[k] = v
	}
	out[ClaimSubject] = s.Subject
	setIfPresent(out, ClaimEmail, s.Email)
	setIfPresent(out, ClaimName, s.Name)
	setIfPresent(out, ClaimPicture, s.Picture)
	setIfPresent(out, ClaimStripeCustomerID, s.StripeCustomerID)
	return out
}

// ExpiresTime returns the expiry as a time, zero when the token never expires.
func (s SessionClaims) ExpiresTime() time.Time {
	if s.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(s.ExpiresAt, 0).UTC()
}

// SessionClaimsFrom builds the typed view of verified claims. A missing or
// non-string sub is rejected.
func SessionClaimsFrom(c Claims) (*SessionClaims, error) {
	sub, _ := c[ClaimSubject].(string)
	if sub == "" {
		return nil, ErrMissingSubject
	}

	out := &SessionClaims{
		Subject:          sub,
		Email:            stringClaim(c, ClaimEmail),
		Name:             stringClaim(c, ClaimName),
		Picture:          stringClaim(c, ClaimPicture),
		StripeCustomerID: stringClaim(c, ClaimStripeCustomerID),
		IssuedAt:         intClaim(c, claimIssuedAt),
		ExpiresAt:        intClaim(c, claimExpiresAt),
	}
	for k, v := range c {
		switch k {
		case ClaimSubject, ClaimEmail, ClaimName, ClaimPicture, ClaimStripeCustomerID, claimIssuedAt, claimExpiresAt:
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]any)
		}
		out.Extra[k] = v
	}
	return out, nil
}

func setIfPresent(c Claims, key, value string) {
	if value != "" {
		c[key] = value
	}
}

func stringClaim(c Claims, key string) string {
	s, _ := c[key].(string)
	return s
}

func intClaim(c Claims, key string) int64 {
	switch v := c[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
