// Package bus provides the in-process publish/subscribe mechanism that
// decouples the detection pipeline from the engagement engine and any other
// subscriber. The bus is an explicit instance passed by injection; there is
// no package-level singleton.
//
// Delivery semantics are deliberately simple: Emit runs every registered
// handler synchronously, in subscription order, before returning. A handler
// panic is recovered and logged and never blocks delivery to the remaining
// handlers. Events are retained in a bounded in-memory history (oldest
// dropped first) for retrospective queries; this is observability only, not
// a durable log. At-most-once, nothing survives a restart.
package bus

import (
	"log"
	"sync"
	"time"
)

// EventType identifies a class of inter-component events.
type EventType string

const (
	EventScamDetected       EventType = "SCAM_DETECTED"
	EventScamConfirmed      EventType = "SCAM_CONFIRMED"
	EventHoneypotEngaged    EventType = "HONEYPOT_ENGAGED"
	EventRecoveryInitiated  EventType = "RECOVERY_INITIATED"
	EventThreatIntelligence EventType = "THREAT_INTELLIGENCE_UPDATE"
)

// Event is the bus envelope. Timestamp is always UTC.
type Event struct {
	EventType      EventType      `json:"event_type"`
	ConversationID string         `json:"conversation_id"`
	Timestamp      time.Time      `json:"timestamp"`
	Payload        map[string]any `json:"payload"`
	SourceService  string         `json:"source_service"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Handler processes one event. Handlers must not assume any ordering
// relative to other handlers of the same type beyond subscription order.
type Handler func(Event)

// DefaultMaxHistory bounds the in-memory event history.
const DefaultMaxHistory = 10000

// Bus is an in-process publish/subscribe event bus.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Handler
	history     []Event
	maxHistory  int
}

// Option configures a Bus.
type Option func(*Bus)

// WithMaxHistory overrides the history buffer size.
func WithMaxHistory(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.maxHistory = n
		}
	}
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		subscribers: make(map[EventType][]Handler),
		maxHistory:  DefaultMaxHistory,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe appends a handler to the ordered list for an event type.
func (b *Bus) Subscribe(t EventType, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[t] = append(b.subscribers[t], h)
}

// Emit records the event in history and delivers it to every handler
// registered for its type. All handlers run to completion before Emit
// returns; a panicking handler is logged and skipped.
func (b *Bus) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.mu.Lock()
	b.history = append(b.history, event)
	if len(b.history) > b.maxHistory {
		b.history = b.history[len(b.history)-b.maxHistory:]
	}
	handlers := make([]Handler, len(b.subscribers[event.EventType]))
	copy(handlers, b.subscribers[event.EventType])
	b.mu.Unlock()

	for _, h := range handlers {
		b.deliver(h, event)
	}
}

func (b *Bus) deliver(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[BUS] handler panic on %s (conversation %s): %v",
				event.EventType, event.ConversationID, r)
		}
	}()
	h(event)
}

// EventsForConversation returns retained events for a conversation, in
// emission order.
func (b *Bus) EventsForConversation(conversationID string) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Event
	for _, e := range b.history {
		if e.ConversationID == conversationID {
			out = append(out, e)
		}
	}
	return out
}

// EventsByType returns retained events of one type, in emission order.
func (b *Bus) EventsByType(t EventType) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Event
	for _, e := range b.history {
		if e.EventType == t {
			out = append(out, e)
		}
	}
	return out
}

// HistoryLen reports how many events are currently retained.
func (b *Bus) HistoryLen() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.history)
}

// ClearHistory drops all retained events. Subscriptions are unaffected.
func (b *Bus) ClearHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = nil
}
