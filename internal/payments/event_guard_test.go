package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryIdempotencyStore struct {
	keys map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{keys: map[string]string{}}
}

func (m *memoryIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	return m.keys[key], nil
}

func (m *memoryIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, exists := m.keys[key]; exists {
		return false, nil
	}
	m.keys[key] = "1"
	return true, nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func (m *memoryIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.keys, key)
	}
	return nil
}

func TestEventGuardMarksFirstDelivery(t *testing.T) {
	guard, err := NewEventGuard(newMemoryIdempotencyStore(), time.Hour, "stripe")
	require.NoError(t, err)

	seen, err := guard.CheckAndMark(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = guard.CheckAndMark(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.True(t, seen, "redelivery of the same event should be flagged")

	seen, err = guard.CheckAndMark(context.Background(), "evt_2")
	require.NoError(t, err)
	assert.False(t, seen, "distinct events are independent")
}

func TestEventGuardReleaseAllowsRetry(t *testing.T) {
	guard, err := NewEventGuard(newMemoryIdempotencyStore(), time.Hour, "stripe")
	require.NoError(t, err)

	_, err = guard.CheckAndMark(context.Background(), "evt_1")
	require.NoError(t, err)

	require.NoError(t, guard.Release(context.Background(), "evt_1"))

	seen, err := guard.CheckAndMark(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.False(t, seen, "released events can be processed again")
}

func TestEventGuardRejectsEmptyEventID(t *testing.T) {
	guard, err := NewEventGuard(newMemoryIdempotencyStore(), time.Hour, "stripe")
	require.NoError(t, err)

	_, err = guard.CheckAndMark(context.Background(), "")
	assert.Error(t, err)
	assert.Error(t, guard.Release(context.Background(), ""))
}
