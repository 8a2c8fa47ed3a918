package notify

import (
	"log/slog"
	"sync"

	"github.com/wagetrack/wagetrack/internal/core/domain"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
)

// subscriberBuffer is the per-connection event queue depth. A subscriber that
// falls this far behind starts losing events rather than blocking publishers.
const subscriberBuffer = 16

type subscriber struct {
	userID int64
	events chan domain.Event
}

// Hub fans ledger events out to connected clients. Every connection gets its
// own buffered channel; publishing never blocks and a slow or dead connection
// only loses its own events.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	closed      bool
	logger      *slog.Logger
}

// NewHub creates an event hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		logger:      logger,
	}
}

var _ portssvc.EventPublisher = (*Hub)(nil)
var _ portssvc.EventSubscriber = (*Hub)(nil)

// Subscribe registers a connection for one user and returns its event channel
// plus the matching unsubscribe function. The channel is closed on
// unsubscribe and on hub shutdown.
func (h *Hub) Subscribe(userID int64) (<-chan domain.Event, func()) {
	sub := &subscriber{
		userID: userID,
		events: make(chan domain.Event, subscriberBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		closed := make(chan domain.Event)
		close(closed)
		return closed, func() {}
	}
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("Event subscriber connected", slog.Int64("user_id", userID))

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.events)
			}
			h.mu.Unlock()
			h.logger.Debug("Event subscriber disconnected", slog.Int64("user_id", userID))
		})
	}
	return sub.events, unsubscribe
}

// Publish delivers an event to every connection of the given users. Delivery
// is best-effort: a subscriber with a full buffer is skipped.
func (h *Hub) Publish(event domain.Event, userIDs []int64) {
	targets := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		targets[id] = struct{}{}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for sub := range h.subscribers {
		if _, ok := targets[sub.userID]; !ok {
			continue
		}
		select {
		case sub.events <- event:
		default:
			h.logger.Warn("Dropping event for slow subscriber",
				slog.Int64("user_id", sub.userID),
				slog.String("event_type", string(event.Type)))
		}
	}
}

// ConnectedUserIDs returns the distinct user ids with at least one open
// connection.
func (h *Hub) ConnectedUserIDs() []int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[int64]struct{}, len(h.subscribers))
	ids := make([]int64, 0, len(h.subscribers))
	for sub := range h.subscribers {
		if _, dup := seen[sub.userID]; dup {
			continue
		}
		seen[sub.userID] = struct{}{}
		ids = append(ids, sub.userID)
	}
	return ids
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subscribers {
		close(sub.events)
		delete(h.subscribers, sub)
	}
}
