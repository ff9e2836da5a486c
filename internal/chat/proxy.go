// Package chat forwards chat messages to the workflow webhook.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds one webhook round trip.
	DefaultTimeout = 45 * time.Second

	maxDetailLen = 2000
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotConfigured is returned when no webhook URL is set.
var ErrNotConfigured = errors.New("chat: webhook url missing")

// Config describes the webhook endpoint.
type Config struct {
	WebhookURL string
	BasicUser  string
	BasicPass  string
	AppTag     string
	Timeout    time.Duration
}

// User is the session context attached to every forwarded message.
type User struct {
	ID               string
	Email            string
	StripeCustomerID string
}

func (u *User) payload() map[string]any {
	out := map[string]any{}
	if u == nil {
		return out
	}
	if u.ID != "" {
		out["id"] = u.ID
	}
	if u.Email != "" {
		out["email"] = u.Email
	}
	if u.StripeCustomerID != "" {
		out["stripe_customer_id"] = u.StripeCustomerID
	}
	return out
}

// Response is the webhook answer relayed back to the caller.
type Response struct {
	Status int
	Body   []byte
	JSON   bool
}

// UpstreamError reports a non-2xx webhook answer.
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("chat: webhook responded %d", e.Status)
}

// Forwarder posts chat payloads to the webhook.
type Forwarder struct {
	cfg    Config
	client *fiber.Client
	logger *zap.Logger
}

// NewForwarder builds a forwarder.
func NewForwarder(cfg Config, logger *zap.Logger) *Forwarder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Forwarder{
		cfg:    cfg,
		client: &fiber.Client{JSONEncoder: json.Marshal, JSONDecoder: json.Unmarshal},
		logger: logger,
	}
}

// Configured reports whether a webhook URL is set.
func (f *Forwarder) Configured() bool {
	return f != nil && f.cfg.WebhookURL != ""
}

// Forward sends body merged with the user context and returns the webhook answer.
func (f *Forwarder) Forward(ctx context.Context, body map[string]any, user *User) (*Response, error) {
	if !f.Configured() {
		return nil, ErrNotConfigured
	}
	started := time.Now()
	defer func() {
		f.logger.Info("chat forward done", zap.Duration("duration", time.Since(started)))
	}()

	payload := make(map[string]any, len(body)+1)
	keys := make([]string, 0, len(body))
	for k, v := range body {
		payload[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)
	userPayload := user.payload()
	payload["user"] = userPayload

	agent := f.client.Post(f.cfg.WebhookURL)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("chat: bad webhook url: %w", err)
	}
	agent.JSON(payload)
	hasAuth := f.cfg.BasicUser != "" && f.cfg.BasicPass != ""
	if hasAuth {
		agent.BasicAuth(f.cfg.BasicUser, f.cfg.BasicPass)
	}
	agent.Set("X-APP", f.cfg.AppTag)
	if id, ok := userPayload["id"].(string); ok {
		agent.Set("X-User-Id", id)
	}
	if email, ok := userPayload["email"].(string); ok {
		agent.Set("X-User-Email", email)
	}
	agent.Timeout(f.timeout(ctx))

	f.logger.Info("forwarding chat message",
		zap.String("url_host", webhookHost(f.cfg.WebhookURL)),
		zap.Bool("has_auth", hasAuth),
		zap.Strings("body_keys", keys),
		zap.Bool("user_present", len(userPayload) > 0))

	status, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("chat: webhook request: %w", errors.Join(errs...))
	}

	if status < 200 || status >= 300 {
		f.logger.Warn("chat webhook responded non-2xx", zap.Int("status", status), zap.Int("len", len(respBody)))
		return nil, &UpstreamError{Status: status, Detail: truncate(string(respBody), maxDetailLen)}
	}

	if len(respBody) == 0 {
		return &Response{Status: fiber.StatusOK, Body: []byte("{}"), JSON: true}, nil
	}
	return &Response{Status: fiber.StatusOK, Body: respBody, JSON: json.Valid(respBody)}, nil
}

// timeout shortens the configured timeout to the context deadline.
func (f *Forwarder) timeout(ctx context.Context) time.Duration {
	timeout := f.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func webhookHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
