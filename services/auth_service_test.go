package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tennis-tournament-api/storage"
)

type authFixture struct {
	store  *storage.Store
	codes  *MemoryCodeStore
	mailer *fakeMailer
	auth   *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := newTestStore(t)
	users := newTestUserService(store, false)
	codes := NewMemoryCodeStore()
	mailer := &fakeMailer{}
	auth := NewAuthService(users, codes, mailer, "admin", 10*time.Minute)
	auth.NewCode = func() (string, error) { return "123456", nil }

	for _, name := range []string{"alice@example.com", "admin"} {
		_, err := users.Register(context.Background(), name, "pw")
		require.NoError(t, err)
	}
	return &authFixture{store: store, codes: codes, mailer: mailer, auth: auth}
}

func TestAuthService_LoginThenVerify(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)

	u, err := fx.auth.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Username)

	require.Len(t, fx.mailer.sent, 1)
	assert.Equal(t, sentMail{to: "alice@example.com", code: "123456"}, fx.mailer.sent[0])

	verified, err := fx.auth.VerifyCode(ctx, "alice@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, u.ID, verified.ID)

	// codes are single use
	_, err = fx.auth.VerifyCode(ctx, "alice@example.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)

	_, err := fx.auth.Login(ctx, "alice@example.com", "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = fx.auth.Login(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, fx.mailer.sent)
	assert.Zero(t, fx.codes.Len())
}

func TestAuthService_WrongCodeKeepsPendingCode(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	_, err := fx.auth.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = fx.auth.VerifyCode(ctx, "alice@example.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = fx.auth.VerifyCode(ctx, "alice@example.com", "123456")
	assert.NoError(t, err)
}

func TestAuthService_BypassUserSkipsMail(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)

	_, err := fx.auth.Login(ctx, "admin", "pw")
	require.NoError(t, err)
	assert.Empty(t, fx.mailer.sent)

	_, err = fx.auth.VerifyCode(ctx, "admin", "123456")
	assert.NoError(t, err)
}

func TestAuthService_MailFailureDiscardsCode(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	fx.mailer.err = errBoom

	_, err := fx.auth.Login(ctx, "alice@example.com", "pw")
	assert.ErrorIs(t, err, ErrStorage)
	assert.Zero(t, fx.codes.Len())

	_, err = fx.auth.VerifyCode(ctx, "alice@example.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestAuthService_VerifyUnknownUser(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)

	_, err := fx.auth.VerifyCode(ctx, "ghost", "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = fx.auth.VerifyCode(ctx, "ghost", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_LoginReplacesEarlierCode(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)

	codes := []string{"111111", "222222"}
	fx.auth.NewCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	_, err := fx.auth.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	_, err = fx.auth.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = fx.auth.VerifyCode(ctx, "alice@example.com", "111111")
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = fx.auth.VerifyCode(ctx, "alice@example.com", "222222")
	assert.NoError(t, err)
}
