package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := newTestUserService(store, false)

	u, err := svc.Register(ctx, " alice@example.com ", "secret")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Username)
	assert.NotEqual(t, "secret", u.Password, "password must be hashed")

	_, err = svc.Register(ctx, "alice@example.com", "other")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, "", "x")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(ctx, "bob", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_RegisterPasswordLength(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := newTestUserService(store, false)

	_, err := svc.Register(ctx, "bob", strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrStorage)
	_, err = store.GetUserByUsername(ctx, "bob")
	assert.Error(t, err, "no row may be written for a rejected password")

	u, err := svc.Register(ctx, "bob", strings.Repeat("x", 72))
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "bob", strings.Repeat("x", 72))
	assert.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(newTestStore(t), false)
	_, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_LegacyPlaintext(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := newTestUserService(store, true)

	u, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "secret", u.Password)

	_, err = svc.Authenticate(ctx, "alice", "secret")
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, "alice", "Secret")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_StorageFailure(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(newFailingStore(t, "GetUserByUsername"), false)

	_, err := svc.Register(ctx, "alice", "secret")
	assert.ErrorIs(t, err, ErrStorage)

	_, err = svc.Authenticate(ctx, "alice", "secret")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestUserService_Lookups(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(newTestStore(t), false)
	created, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	byID, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = svc.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}
