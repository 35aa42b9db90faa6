// Package engage implements the persona-driven honeypot that takes over a
// conversation once a scam is confirmed. Each inbound scammer message goes
// through a safety gate, entity extraction, a keyword-driven state
// transition, and a deterministic template reply, in that order. The safety
// gate is a hard interrupt: forbidden content forces the exit state and a
// fixed refusal no matter where the conversation stands.
package engage

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scamshield/scamshield/pkg/bus"
	"github.com/scamshield/scamshield/pkg/schema"
)

// ErrSessionNotFound is returned when a session id or conversation id does
// not resolve to an active session.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidPersona is returned when an engagement names an unknown persona.
var ErrInvalidPersona = errors.New("invalid persona key")

// Result is the outcome of processing one scammer message.
type Result struct {
	SessionID  string   `json:"session_id"`
	Status     string   `json:"status"` // "accepted" | "safety_exit"
	Reply      string   `json:"message"`
	State      State    `json:"state"`
	Entities   Entities `json:"entities"`
	PersonaKey string   `json:"persona_key"`
}

// Engine owns engagement sessions. Message handling is serialized per
// session id, so concurrent deliveries to the same session cannot race on
// its state; different sessions proceed in parallel.
type Engine struct {
	store SessionStore
	bus   *bus.Bus

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine builds an engine over a session store and a bus for outbound
// events.
func NewEngine(store SessionStore, b *bus.Bus) *Engine {
	return &Engine{
		store: store,
		bus:   b,
		locks: make(map[string]*sync.Mutex),
	}
}

// Bind subscribes the engine to confirmed-scam events so handoffs start
// engagements automatically.
func (e *Engine) Bind(b *bus.Bus) {
	b.Subscribe(bus.EventScamConfirmed, e.handleConfirmed)
}

func (e *Engine) handleConfirmed(event bus.Event) {
	scamType, _ := event.Payload["scam_type"].(string)
	senderID, _ := event.Payload["sender_id"].(string)
	probability, _ := event.Payload["scam_probability"].(float64)

	// At most one engagement per conversation, even if confirmation fires
	// more than once.
	if _, err := e.store.ByConversation(event.ConversationID); err == nil {
		return
	}

	_, err := e.Engage(event.ConversationID, senderID, scamType, probability, "", PersonaForScamType(scamType))
	if err != nil {
		log.Printf("[ENGAGE] failed to start engagement for %s: %v", event.ConversationID, err)
	}
}

// Engage creates a session and, when an initial message is supplied,
// processes it immediately. It emits HONEYPOT_ENGAGED on success.
func (e *Engine) Engage(conversationID, senderID, scamType string, probability float64, initialMessage string, personaKey PersonaKey) (*Result, error) {
	if !personaKey.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPersona, personaKey)
	}

	now := time.Now().UTC()
	session := &Session{
		SessionID:        "honeypot_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		ConversationID:   conversationID,
		OriginalSenderID: senderID,
		PersonaKey:       personaKey,
		State:            StateInitial,
		CreatedAt:        now,
		LastActivity:     now,
	}

	log.Printf("[ENGAGE] session=%s conversation=%s scam_prob=%.1f type=%s persona=%s",
		session.SessionID, conversationID, probability, scamType, personaKey)

	var result *Result
	if initialMessage != "" {
		result = e.process(session, initialMessage)
	} else {
		persona := Lookup(personaKey)
		reply := Reply(persona, StateInitial)
		session.AddMessage("honeypot", reply)
		result = &Result{
			SessionID:  session.SessionID,
			Status:     "accepted",
			Reply:      reply,
			State:      session.State,
			PersonaKey: string(personaKey),
		}
	}

	if err := e.store.Put(session); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	e.bus.Emit(bus.Event{
		EventType:      bus.EventHoneypotEngaged,
		ConversationID: conversationID,
		SourceService:  schema.ServiceHoneypot,
		Payload: map[string]any{
			"honeypot_session_id": session.SessionID,
			"original_sender_id":  senderID,
			"persona_key":         string(personaKey),
			"scam_probability":    probability,
			"scam_type":           scamType,
			"state":               string(session.State),
		},
	})

	e.publishIntel(conversationID, session.SessionID, result.Entities)
	return result, nil
}

// HandleMessage processes one scammer message against an active session.
func (e *Engine) HandleMessage(sessionID, message string) (*Result, error) {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	result := e.process(session, message)

	if err := e.store.Put(session); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	e.publishIntel(session.ConversationID, sessionID, result.Entities)
	return result, nil
}

// process applies the per-message pipeline: safety gate, extraction,
// transition, reply. The session is mutated in place; the caller persists.
func (e *Engine) process(session *Session, message string) *Result {
	if safe, refusal := CheckSafety(message); !safe {
		log.Printf("[ENGAGE] safety exit session=%s", session.SessionID)
		session.AddMessage("scammer", message)
		session.AddMessage("honeypot", refusal)
		session.State = StateExit
		return &Result{
			SessionID:  session.SessionID,
			Status:     "safety_exit",
			Reply:      refusal,
			State:      StateExit,
			PersonaKey: string(session.PersonaKey),
		}
	}

	entities := Extract(message)

	next := NextState(session.State, message)
	reply := Reply(Lookup(session.PersonaKey), next)

	session.AddMessage("scammer", message)
	session.AddMessage("honeypot", reply)
	session.State = next

	return &Result{
		SessionID:  session.SessionID,
		Status:     "accepted",
		Reply:      reply,
		State:      next,
		Entities:   entities,
		PersonaKey: string(session.PersonaKey),
	}
}

// publishIntel shares extracted entities with downstream subscribers.
func (e *Engine) publishIntel(conversationID, sessionID string, entities Entities) {
	if entities.IsEmpty() {
		return
	}
	e.bus.Emit(bus.Event{
		EventType:      bus.EventThreatIntelligence,
		ConversationID: conversationID,
		SourceService:  schema.ServiceHoneypot,
		Payload: map[string]any{
			"honeypot_session_id": sessionID,
			"entities":            entities,
		},
	})
}

// Session exposes a stored session for the read-only API.
func (e *Engine) Session(sessionID string) (*Session, error) {
	return e.store.Get(sessionID)
}

// ActiveSessions reports how many sessions the store currently holds.
func (e *Engine) ActiveSessions() int {
	n, err := e.store.Count()
	if err != nil {
		return 0
	}
	return n
}

func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[sessionID] = lock
	}
	return lock
}
