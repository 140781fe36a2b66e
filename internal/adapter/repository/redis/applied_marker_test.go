package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triobank/ledger/internal/usecase"
)

var _ usecase.AppliedMarker = (*AppliedMarker)(nil)

func TestAppliedMarkerRoundTrip(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	marker := NewAppliedMarker(client, time.Hour)
	ctx := context.Background()

	applied, err := marker.IsApplied(ctx, "record:TXN-1")
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, marker.MarkApplied(ctx, "record:TXN-1"))

	applied, err = marker.IsApplied(ctx, "record:TXN-1")
	require.NoError(t, err)
	assert.True(t, applied)

	assert.True(t, mr.Exists("ledger:applied:record:TXN-1"))
	assert.Equal(t, time.Hour, mr.TTL("ledger:applied:record:TXN-1"))
}

func TestAppliedMarkerExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	marker := NewAppliedMarker(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, marker.MarkApplied(ctx, "reverse:TXN-1"))
	mr.FastForward(2 * time.Minute)

	applied, err := marker.IsApplied(ctx, "reverse:TXN-1")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestAppliedMarkerServerDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	marker := NewAppliedMarker(client, time.Minute)
	mr.Close()

	_, err := marker.IsApplied(context.Background(), "record:TXN-1")
	assert.Error(t, err)
}
