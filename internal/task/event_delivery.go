package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/events"
)

// DefaultDeliveryTimeout bounds a single handler invocation.
const DefaultDeliveryTimeout = 10 * time.Second

// EventDeliveryTask hands one event to one handler.
type EventDeliveryTask struct {
	id      uuid.UUID
	event   *events.Event
	handler events.EventHandler
	timeout time.Duration

	mu     sync.Mutex
	status TaskStatus
}

// NewEventDeliveryTask creates a pending delivery task.
func NewEventDeliveryTask(
	event *events.Event,
	handler events.EventHandler,
	timeout time.Duration,
) *EventDeliveryTask {
	if timeout <= 0 {
		timeout = DefaultDeliveryTimeout
	}
	return &EventDeliveryTask{
		id:      uuid.New(),
		event:   event,
		handler: handler,
		timeout: timeout,
		status:  TaskStatusPending,
	}
}

// ID implements Task.
func (t *EventDeliveryTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *EventDeliveryTask) Type() string { return TaskTypeEventDelivery }

// Event returns the event being delivered.
func (t *EventDeliveryTask) Event() *events.Event { return t.event }

// Status implements Task.
func (t *EventDeliveryTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *EventDeliveryTask) setStatus(status TaskStatus) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

// Execute implements Task.
func (t *EventDeliveryTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if err := t.handler.HandleEvent(ctx, t.event); err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("failed to deliver event %s (%s): %w", t.event.ID, t.event.Type, err)
	}

	t.setStatus(TaskStatusCompleted)
	return nil
}

// AsyncEventHandler is an events.EventHandler that queues delivery to the
// wrapped handler instead of calling it inline. HandleEvent only fails when
// the queue rejects the task.
type AsyncEventHandler struct {
	queue   TaskQueueWriter
	handler events.EventHandler
	timeout time.Duration
	logger  *slog.Logger
}

// NewAsyncEventHandler wraps handler so that events are delivered by the
// workers draining queue.
func NewAsyncEventHandler(
	queue TaskQueueWriter,
	handler events.EventHandler,
	timeout time.Duration,
	logger *slog.Logger,
) *AsyncEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncEventHandler{
		queue:   queue,
		handler: handler,
		timeout: timeout,
		logger:  logger.With("component", "async_event_handler"),
	}
}

// HandleEvent implements events.EventHandler.
func (h *AsyncEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	task := NewEventDeliveryTask(event, h.handler, h.timeout)
	if err := h.queue.Enqueue(task); err != nil {
		h.logger.WarnContext(ctx, "event delivery not queued",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to queue event delivery: %w", err)
	}
	return nil
}
