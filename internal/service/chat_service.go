package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/chat"
	"github.com/repcrafter/gateway/internal/events"
	"github.com/repcrafter/gateway/internal/session"
	apperrors "github.com/repcrafter/gateway/pkg/util/errorutil"
)

// Forwarder is implemented by chat.Forwarder.
type Forwarder interface {
	Forward(ctx context.Context, body map[string]any, user *chat.User) (*chat.Response, error)
}

// ChatService relays chat messages with the caller's session context.
type ChatService struct {
	forwarder  Forwarder
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewChatService builds the service.
func NewChatService(forwarder Forwarder, dispatcher events.Dispatcher, logger *zap.Logger) *ChatService {
	return &ChatService{forwarder: forwarder, dispatcher: dispatcher, logger: logger}
}

// Send forwards body. claims is nil for anonymous callers.
func (s *ChatService) Send(ctx context.Context, claims *session.SessionClaims, body map[string]any) (*chat.Response, error) {
	var user *chat.User
	subject := ""
	if claims != nil {
		subject = claims.Subject
		user = &chat.User{ID: claims.Subject, Email: claims.Email, StripeCustomerID: claims.StripeCustomerID}
	}

	started := time.Now()
	resp, err := s.forwarder.Forward(ctx, body, user)
	payload := events.ChatForwardedPayload{Duration: time.Since(started), Failed: err != nil}
	if resp != nil {
		payload.Status = resp.Status
	}

	if err != nil {
		var upstream *chat.UpstreamError
		switch {
		case errors.Is(err, chat.ErrNotConfigured):
			return nil, apperrors.NewMisconfigured("N8N_CHAT_WEBHOOK_URL missing")
		case errors.As(err, &upstream):
			payload.Status = upstream.Status
			s.publish(ctx, subject, payload)
			return nil, apperrors.NewUpstreamError(apperrors.CodeWebhookFailed, "chat webhook failed", http.StatusBadGateway,
				map[string]any{"status": upstream.Status, "detail": upstream.Detail}, err)
		default:
			s.logger.Error("chat forward failed", zap.Error(err))
			s.publish(ctx, subject, payload)
			return nil, apperrors.NewUpstreamError(apperrors.CodeChatFailed, "chat failed", http.StatusInternalServerError,
				map[string]any{"detail": err.Error()}, err)
		}
	}

	s.publish(ctx, subject, payload)
	return resp, nil
}

func (s *ChatService) publish(ctx context.Context, subject string, payload events.ChatForwardedPayload) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventChatForwarded, subject, payload))
}
