package service

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/repcrafter/gateway/internal/billing"
	"github.com/repcrafter/gateway/internal/chat"
	"github.com/repcrafter/gateway/internal/domain"
	"github.com/repcrafter/gateway/internal/events"
)

type fakeVerifier struct {
	identity *domain.Identity
	err      error
}

func (f *fakeVerifier) Verify(ctx context.Context, credential string) (*domain.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fakeBilling struct {
	customerID   string
	customerErr  error
	ensureCalls  int
	paid         bool
	paidErr      error
	paidCalls    int
	checkout     *billing.CheckoutSession
	checkoutErr  error
	lastCheckout billing.CheckoutRequest
}

func (f *fakeBilling) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	f.ensureCalls++
	return f.customerID, f.customerErr
}

func (f *fakeBilling) HasActiveSubscription(ctx context.Context, customerID string) (bool, error) {
	f.paidCalls++
	return f.paid, f.paidErr
}

func (f *fakeBilling) CreateCheckout(ctx context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	f.lastCheckout = req
	return f.checkout, f.checkoutErr
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]domain.User{}}
}

func (m *memoryUsers) Upsert(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.users[user.Subject]; ok && user.StripeCustomerID == "" {
		user.StripeCustomerID = prev.StripeCustomerID
	}
	m.users[user.Subject] = *user
	return nil
}

func (m *memoryUsers) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[subject]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

type recordingDispatcher struct {
	events []events.Event
}

func (r *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	r.events = append(r.events, event)
	return nil
}

func (r *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (r *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeForwarder struct {
	resp     *chat.Response
	err      error
	lastBody map[string]any
	lastUser *chat.User
}

func (f *fakeForwarder) Forward(ctx context.Context, body map[string]any, user *chat.User) (*chat.Response, error) {
	f.lastBody = body
	f.lastUser = user
	return f.resp, f.err
}

var errBoom = errors.New("boom")
