package dto

import "time"

// GoogleVerifyRequest payload for POST /api/auth/google-verify.
type GoogleVerifyRequest struct {
	Credential string `json:"credential"`
}

// OKResponse acknowledges a state change.
type OKResponse struct {
	OK bool `json:"ok"`
}

// SignInResponse acknowledges a sign-in. The token itself travels only in the cookie.
type SignInResponse struct {
	OK        bool      `json:"ok"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MeResponse reports the caller's session status.
type MeResponse struct {
	Authenticated    bool   `json:"authenticated"`
	Paid             bool   `json:"paid"`
	Bypass           bool   `json:"bypass,omitempty"`
	Email            string `json:"email,omitempty"`
	StripeCustomerID string `json:"stripe_customer_id,omitempty"`
}
