package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// AppliedMarker implements usecase.AppliedMarker using Redis keys with a TTL.
// A missing key only means "not known to be applied"; the journal decides.
type AppliedMarker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewAppliedMarker creates a new AppliedMarker.
func NewAppliedMarker(client *redis.Client, ttl time.Duration) *AppliedMarker {
	return &AppliedMarker{
		client: client,
		prefix: "ledger:applied:",
		ttl:    ttl,
		now:    time.Now,
	}
}

// IsApplied reports whether key was marked within the TTL.
func (m *AppliedMarker) IsApplied(ctx context.Context, key string) (bool, error) {
	n, err := m.client.Exists(ctx, m.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkApplied records key with the commit time as value.
func (m *AppliedMarker) MarkApplied(ctx context.Context, key string) error {
	return m.client.Set(ctx, m.prefix+key, m.now().UTC().Format(time.RFC3339Nano), m.ttl).Err()
}
