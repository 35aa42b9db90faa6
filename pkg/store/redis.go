// Package store provides persistence adapters for engagement sessions and
// bus events. The core never depends on these directly; they satisfy the
// interfaces the core exposes and are wired in at startup.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scamshield/scamshield/pkg/engage"
)

const (
	sessionKeyPrefix      = "honeypot:session:"
	conversationKeyPrefix = "honeypot:conversation:"

	// DefaultSessionTTL is how long an idle session survives. Redis owns
	// expiry; the core treats an expired session as absent.
	DefaultSessionTTL = time.Hour
)

// RedisSessionStore persists engagement sessions in Redis with a sliding
// TTL. It implements engage.SessionStore.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore wraps a Redis client. A non-positive ttl selects
// DefaultSessionTTL.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *RedisSessionStore) conversationKey(conversationID string) string {
	return conversationKeyPrefix + conversationID
}

// Put writes the session and refreshes its TTL. The conversation index is
// kept alongside so handoffs can detect an existing engagement.
func (s *RedisSessionStore) Put(session *engage.Session) error {
	ctx := context.Background()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.SessionID, err)
	}
	if err := s.client.Set(ctx, s.sessionKey(session.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session %s: %w", session.SessionID, err)
	}
	if err := s.client.Set(ctx, s.conversationKey(session.ConversationID), session.SessionID, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session index %s: %w", session.ConversationID, err)
	}
	return nil
}

// Get loads a session. Expired or unknown ids report engage.ErrSessionNotFound.
func (s *RedisSessionStore) Get(sessionID string) (*engage.Session, error) {
	ctx := context.Background()

	data, err := s.client.Get(ctx, s.sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, engage.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var session engage.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return &session, nil
}

// ByConversation resolves the session engaged for a conversation, if any.
func (s *RedisSessionStore) ByConversation(conversationID string) (*engage.Session, error) {
	ctx := context.Background()

	sessionID, err := s.client.Get(ctx, s.conversationKey(conversationID)).Result()
	if err == redis.Nil {
		return nil, engage.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session index %s: %w", conversationID, err)
	}
	return s.Get(sessionID)
}

// Count reports live (unexpired) sessions.
func (s *RedisSessionStore) Count() (int, error) {
	ctx := context.Background()

	var count int
	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}
