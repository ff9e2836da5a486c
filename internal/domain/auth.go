package domain

// Identity is the verified profile returned by the identity provider.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// SessionStatus is what /api/me reports about the caller.
type SessionStatus struct {
	Authenticated    bool
	Paid             bool
	Email            string
	StripeCustomerID string
}
