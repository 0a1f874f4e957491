// Package presence tracks which delivery agents are currently online.
// Liveness is a Redis key with a TTL: an agent that stops refreshing
// drops offline on its own once the key expires.
package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store records agent liveness in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func onlineKey(agentID string) string {
	return fmt.Sprintf("agent:online:%s", agentID)
}

// SetOnline marks the agent online until the TTL lapses. Calling it
// again refreshes the TTL.
func (s *Store) SetOnline(ctx context.Context, agentID string) error {
	return s.client.Set(ctx, onlineKey(agentID), "1", s.ttl).Err()
}

// SetOffline removes the liveness key immediately.
func (s *Store) SetOffline(ctx context.Context, agentID string) error {
	return s.client.Del(ctx, onlineKey(agentID)).Err()
}

// IsOnline reports whether the agent has a live presence key.
func (s *Store) IsOnline(ctx context.Context, agentID string) (bool, error) {
	n, err := s.client.Exists(ctx, onlineKey(agentID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
