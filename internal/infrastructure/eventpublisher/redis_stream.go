package eventpublisher

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/triobank/ledger/internal/domain"
)

// RedisStreamPublisher appends events to one Redis stream per aggregate type.
type RedisStreamPublisher struct {
	client *redis.Client
	prefix string
	maxLen int64
}

// NewRedisStreamPublisher creates a publisher writing to streams named prefix+aggregateType.
func NewRedisStreamPublisher(client *redis.Client, prefix string) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		prefix: prefix,
		maxLen: 100000,
	}
}

// Stream returns the stream name for an aggregate type.
func (p *RedisStreamPublisher) Stream(aggregateType string) string {
	return p.prefix + aggregateType
}

// Publish appends the event with XADD.
func (p *RedisStreamPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.Stream(event.AggregateType),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"event_id":       event.ID,
			"event_type":     event.EventType,
			"aggregate_type": event.AggregateType,
			"aggregate_id":   event.AggregateID,
			"created_at":     event.CreatedAt.UTC().Format(time.RFC3339Nano),
			"payload":        string(event.Payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.Stream(event.AggregateType), err)
	}

	return nil
}
