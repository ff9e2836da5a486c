package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/events"
	"github.com/repcrafter/gateway/internal/service"
)

const defaultQueueSize = 256

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// NotificationWorker moves event handling off the request path. It
// satisfies events.Dispatcher so services can publish to it directly.
type NotificationWorker struct {
	inner  events.Dispatcher
	queue  chan queuedEvent
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// StartNotificationWorker registers notification handlers on inner and
// starts delivering queued events to it.
func StartNotificationWorker(notificationService *service.NotificationService, inner events.Dispatcher, queueSize int, logger *zap.Logger) *NotificationWorker {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	w := &NotificationWorker{
		inner:  inner,
		queue:  make(chan queuedEvent, queueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for item := range w.queue {
		if err := w.inner.Publish(item.ctx, item.event); err != nil {
			w.logger.Warn("event delivery failed", zap.String("event_id", item.event.ID), zap.Error(err))
		}
	}
}

// Publish queues event. Events are dropped when the queue is full or the
// worker is stopped.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return nil
	}
	select {
	case w.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		w.logger.Warn("event queue full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Subscribe registers handler on the underlying dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Stop stops accepting events and waits for queued ones to drain or ctx to end.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
