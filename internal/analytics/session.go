package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTTL bounds how long a browser session counts as the same visit.
const SessionTTL = 30 * time.Minute

// SessionStore remembers which sessions already counted as a visit.
type SessionStore interface {
	// FirstVisit reports whether this is the session's first visit and
	// marks it seen.
	FirstVisit(ctx context.Context, sessionID string) (bool, error)
}

// RedisSessionStore backs session tracking with Redis so visit counts
// survive restarts and stay consistent across instances.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a RedisSessionStore with the default TTL.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: SessionTTL}
}

func (s *RedisSessionStore) FirstVisit(ctx context.Context, sessionID string) (bool, error) {
	key := "session:" + sessionID
	set, err := s.client.SetNX(ctx, key, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark session: %w", err)
	}
	return set, nil
}

// InMemorySessionStore is the single-instance fallback when Redis is not
// configured.
type InMemorySessionStore struct {
	ttl     time.Duration
	timeNow func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewInMemorySessionStore creates an InMemorySessionStore with the
// default TTL.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		ttl:     SessionTTL,
		timeNow: time.Now,
		seen:    make(map[string]time.Time),
	}
}

func (s *InMemorySessionStore) FirstVisit(ctx context.Context, sessionID string) (bool, error) {
	now := s.timeNow()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expires, ok := s.seen[sessionID]; ok && now.Before(expires) {
		s.seen[sessionID] = now.Add(s.ttl)
		return false, nil
	}
	s.seen[sessionID] = now.Add(s.ttl)

	// Opportunistic sweep keeps the map from growing unbounded.
	for id, expires := range s.seen {
		if now.After(expires) {
			delete(s.seen, id)
		}
	}
	return true, nil
}
