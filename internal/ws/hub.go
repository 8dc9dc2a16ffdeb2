// Package ws implements the real-time fan-out of entity-change events to
// connected subscribers.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sprintdeck/sprintdeck/internal/metrics"
)

// Event type names, one per mutating API operation.
const (
	EventProjectCreated     = "project_created"
	EventProjectUpdated     = "project_updated"
	EventProjectDeleted     = "project_deleted"
	EventSprintCreated      = "sprint_created"
	EventSprintUpdated      = "sprint_updated"
	EventTaskCreated        = "task_created"
	EventTaskUpdated        = "task_updated"
	EventAgentLogCreated    = "agent_log_created"
	EventChatMessageCreated = "chat_message_created"
)

// Envelope is the JSON frame pushed to subscribers.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Subscriber is one connected client. Frames are delivered on C; when the
// buffer is full the frame is dropped for that subscriber.
type Subscriber struct {
	id string
	ch chan []byte
}

// ID returns the subscriber's opaque identifier.
func (s *Subscriber) ID() string { return s.id }

// C is the channel of marshaled event frames.
func (s *Subscriber) C() <-chan []byte { return s.ch }

// Hub fans entity-change events out to all current subscribers. Delivery
// is fire-and-forget and at-most-once: there is no retry, no replay for
// late subscribers, and no backpressure — a subscriber whose buffer is
// full simply misses the frame.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]*Subscriber
	bufSize int
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewHub creates a hub whose subscribers buffer up to bufSize frames.
// m may be nil.
func NewHub(bufSize int, m *metrics.Metrics, logger zerolog.Logger) *Hub {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Hub{
		subs:    make(map[string]*Subscriber),
		bufSize: bufSize,
		logger:  logger.With().Str("component", "ws_hub").Logger(),
		metrics: m,
	}
}

// Subscribe registers a new subscriber. Events published before this call
// are never delivered to it.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		id: uuid.New().String(),
		ch: make(chan []byte, h.bufSize),
	}
	h.mu.Lock()
	h.subs[sub.id] = sub
	n := len(h.subs)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSSubscribers.Set(float64(n))
	}
	h.logger.Debug().Str("subscriber_id", sub.id).Int("subscribers", n).Msg("subscriber connected")
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subs, sub.id)
	n := len(h.subs)
	h.mu.Unlock()

	close(sub.ch)
	if h.metrics != nil {
		h.metrics.WSSubscribers.Set(float64(n))
	}
	h.logger.Debug().Str("subscriber_id", sub.id).Int("subscribers", n).Msg("subscriber disconnected")
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish marshals the envelope once and offers it to every subscriber
// without blocking. Marshal failures and full buffers are logged and
// swallowed; publishers never see delivery errors.
func (h *Hub) Publish(eventType string, data interface{}) {
	payload, err := json.Marshal(Envelope{Type: eventType, Data: data})
	if err != nil {
		h.logger.Error().Err(err).Str("event", eventType).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.metrics != nil {
		h.metrics.EventsPublished.WithLabelValues(eventType).Inc()
	}
	h.logger.Debug().Str("event", eventType).Int("subscribers", len(h.subs)).Msg("broadcasting")

	for _, sub := range h.subs {
		select {
		case sub.ch <- payload:
		default:
			if h.metrics != nil {
				h.metrics.DeliveriesDropped.Inc()
			}
			h.logger.Warn().
				Str("event", eventType).
				Str("subscriber_id", sub.id).
				Msg("subscriber buffer full, frame dropped")
		}
	}
}
