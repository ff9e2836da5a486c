package domain

import "time"

// User is a person who signed in with the identity provider at least once.
type User struct {
	Subject          string
	Email            string
	Name             string
	Picture          string
	StripeCustomerID string
	LastLoginAt      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
