package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestMemoryCodeStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryCodeStore()
	store.Now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "alice", "123456", time.Minute))

	now = now.Add(time.Minute)
	ok, err := store.Consume(ctx, "alice", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, store.Len(), "expired entry is removed on access")
}

func TestMemoryCodeStore_PutPurgesExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryCodeStore()
	store.Now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "alice", "111111", time.Minute))
	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Put(ctx, "bob", "222222", time.Minute))

	assert.Equal(t, 1, store.Len())
}

func TestMemoryCodeStore_DeleteAndOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCodeStore()

	require.NoError(t, store.Put(ctx, "alice", "111111", time.Minute))
	require.NoError(t, store.Put(ctx, "alice", "222222", time.Minute))
	assert.Equal(t, 1, store.Len())

	ok, err := store.Consume(ctx, "alice", "111111")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, "alice"))
	ok, err = store.Consume(ctx, "alice", "222222")
	require.NoError(t, err)
	assert.False(t, ok)
}
