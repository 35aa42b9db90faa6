package engage

import (
	"sync"
	"time"
)

// SessionMessage is one entry in a session's message log.
type SessionMessage struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session tracks one active honeypot engagement. It is created on handoff
// and mutated by each inbound message; the engine serializes access per
// session id, so the struct itself carries no lock.
type Session struct {
	SessionID        string           `json:"session_id"`
	ConversationID   string           `json:"conversation_id"`
	OriginalSenderID string           `json:"original_sender_id"`
	PersonaKey       PersonaKey       `json:"persona_key"`
	State            State            `json:"state"`
	Messages         []SessionMessage `json:"messages"`
	CreatedAt        time.Time        `json:"created_at"`
	LastActivity     time.Time        `json:"last_activity"`
}

// AddMessage appends to the log and bumps the activity timestamp.
func (s *Session) AddMessage(sender, content string) {
	now := time.Now().UTC()
	s.Messages = append(s.Messages, SessionMessage{
		Sender:    sender,
		Content:   content,
		Timestamp: now,
	})
	s.LastActivity = now
}

// SessionStore persists engagement sessions. Expiry is the store's
// concern: a backed implementation may drop idle sessions via TTL, in
// which case Get reports them as absent.
type SessionStore interface {
	Put(session *Session) error
	Get(sessionID string) (*Session, error)
	ByConversation(conversationID string) (*Session, error)
	Count() (int, error)
}

// MemoryStore is the in-process SessionStore used when no external
// backing store is configured. Sessions live until process exit.
type MemoryStore struct {
	mu             sync.RWMutex
	sessions       map[string]*Session
	byConversation map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:       make(map[string]*Session),
		byConversation: make(map[string]string),
	}
}

func (m *MemoryStore) Put(session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.SessionID] = session
	m.byConversation[session.ConversationID] = session.SessionID
	return nil
}

func (m *MemoryStore) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (m *MemoryStore) ByConversation(conversationID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byConversation[conversationID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return m.sessions[id], nil
}

func (m *MemoryStore) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}
