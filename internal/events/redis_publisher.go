package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans events out to a Redis pub/sub channel so other
// services (mailers, SMS gateways) can react to case changes.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisPublisher returns nil when client is nil.
func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	if client == nil {
		return nil
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Handle publishes the JSON-encoded event.
func (p *RedisPublisher) Handle(ctx context.Context, event Event) error {
	if p == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}
	return nil
}

// SubscribeAll registers the publisher for every event type.
func (p *RedisPublisher) SubscribeAll(d Dispatcher) {
	if p == nil || d == nil {
		return
	}
	for _, t := range AllEventTypes() {
		d.Subscribe(t, p.Handle)
	}
}
