package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/events"
	"github.com/repcrafter/gateway/internal/observability"
)

// NotificationService turns domain events into audit log lines and counters.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSessionStarted, n.handleSessionStarted)
	n.dispatcher.Subscribe(events.EventSessionEnded, n.handleSessionEnded)
	n.dispatcher.Subscribe(events.EventCheckoutCreated, n.handleCheckoutCreated)
	n.dispatcher.Subscribe(events.EventChatForwarded, n.handleChatForwarded)
}

func (n *NotificationService) handleSessionStarted(ctx context.Context, event events.Event) error {
	n.audit(event, "SessionStarted")
	return nil
}

func (n *NotificationService) handleSessionEnded(ctx context.Context, event events.Event) error {
	n.audit(event, "SessionEnded")
	return nil
}

func (n *NotificationService) handleCheckoutCreated(ctx context.Context, event events.Event) error {
	n.audit(event, "CheckoutCreated")
	return nil
}

func (n *NotificationService) handleChatForwarded(ctx context.Context, event events.Event) error {
	if p, ok := event.Payload.(events.ChatForwardedPayload); ok && p.Failed {
		n.logger.Warn("ChatForwarded", zap.String("event_id", event.ID), zap.String("subject", event.Subject), zap.Any("payload", p))
		n.metrics.RecordEvent(string(event.Type))
		return nil
	}
	n.audit(event, "ChatForwarded")
	return nil
}

func (n *NotificationService) audit(event events.Event, msg string) {
	n.metrics.RecordEvent(string(event.Type))
	n.logger.Info(msg,
		zap.String("event_id", event.ID),
		zap.String("subject", event.Subject),
		zap.Any("payload", event.Payload))
}
