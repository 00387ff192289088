package worker

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReminderMarker records that a reminder was sent. Mark reports true only
// for the first call per key within ttl.
type ReminderMarker interface {
	Mark(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisMarker dedupes reminders across replicas with SET NX.
type RedisMarker struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisMarker builds a marker storing keys under prefix.
func NewRedisMarker(client redis.UniversalClient, prefix string) *RedisMarker {
	return &RedisMarker{client: client, prefix: prefix}
}

func (m *RedisMarker) Mark(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return m.client.SetNX(ctx, m.prefix+key, time.Now().Unix(), ttl).Result()
}

// MemoryMarker is the single-process fallback.
type MemoryMarker struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

// NewMemoryMarker builds an empty marker. A nil clock means time.Now.
func NewMemoryMarker(now func() time.Time) *MemoryMarker {
	if now == nil {
		now = time.Now
	}
	return &MemoryMarker{until: make(map[string]time.Time), now: now}
}

func (m *MemoryMarker) Mark(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if exp, ok := m.until[key]; ok && now.Before(exp) {
		return false, nil
	}
	m.until[key] = now.Add(ttl)
	for k, exp := range m.until {
		if !now.Before(exp) {
			delete(m.until, k)
		}
	}
	return true, nil
}
