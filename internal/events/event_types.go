package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionStarted  EventType = "session_started"
	EventSessionEnded    EventType = "session_ended"
	EventCheckoutCreated EventType = "checkout_created"
	EventChatForwarded   EventType = "chat_forwarded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, subject string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SessionStartedPayload payload.
type SessionStartedPayload struct {
	Email            string    `json:"email,omitempty"`
	StripeCustomerID string    `json:"stripe_customer_id,omitempty"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// CheckoutCreatedPayload payload.
type CheckoutCreatedPayload struct {
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
}

// ChatForwardedPayload payload.
type ChatForwardedPayload struct {
	Status   int           `json:"status"`
	Duration time.Duration `json:"duration"`
	Failed   bool          `json:"failed"`
}
