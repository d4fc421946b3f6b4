package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/domain"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
)

func newAuthService(t *testing.T, lifetime time.Duration) ports.AuthService {
	t.Helper()
	env := newTestEnv(t)
	return NewAuthService(AuthServiceConfig{
		Users:         env.users,
		Logger:        logger.NewNop(),
		JWTSecret:     "test-secret",
		JWTIssuer:     "tasktrail-test",
		TokenLifetime: lifetime,
	})
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t, time.Hour)
	ctx := context.Background()

	tests := []struct {
		name  string
		input ports.RegisterInput
		want  error
	}{
		{
			name:  "invalid email",
			input: ports.RegisterInput{Email: "not-an-email", Password: "longenough"},
			want:  ErrAuthInvalidEmail,
		},
		{
			name:  "empty email",
			input: ports.RegisterInput{Email: "", Password: "longenough"},
			want:  ErrAuthInvalidEmail,
		},
		{
			name:  "short password",
			input: ports.RegisterInput{Email: "user@example.com", Password: "short"},
			want:  ErrAuthWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegisterLoginRoundtrip(t *testing.T) {
	svc := newAuthService(t, time.Hour)
	ctx := context.Background()

	result, err := svc.Register(ctx, ports.RegisterInput{
		Email:       "Alice@Example.com",
		Password:    "correct horse",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.NotEmpty(t, result.User.PublicID)
	assert.NotEmpty(t, result.AccessToken)

	// Duplicate registration is rejected regardless of case.
	_, err = svc.Register(ctx, ports.RegisterInput{
		Email:    "alice@example.com",
		Password: "another pass",
	})
	assert.ErrorIs(t, err, ErrAuthEmailTaken)

	// Login with the right password issues a token that resolves back to
	// the same identity.
	login, err := svc.Login(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)

	session, err := svc.SessionFromToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.PublicID, session.UserID)
	assert.Equal(t, "alice@example.com", session.Email)
	assert.Equal(t, "Alice", session.DisplayName)

	_, err = svc.Login(ctx, "alice@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}

func TestCurrentUserResolvesStoredAccount(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(AuthServiceConfig{
		Users:     env.users,
		Logger:    logger.NewNop(),
		JWTSecret: "test-secret",
	})
	ctx := context.Background()

	result, err := svc.Register(ctx, ports.RegisterInput{
		Email:       "carol@example.com",
		Password:    "longenough",
		DisplayName: "Carol",
	})
	require.NoError(t, err)

	session, err := svc.SessionFromToken(result.AccessToken)
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, result.User.PublicID, user.PublicID)
	assert.Equal(t, "carol@example.com", user.Email)
	assert.Equal(t, "Carol", user.DisplayName)
	assert.NotEmpty(t, user.PasswordHash)

	_, err = svc.CurrentUser(ctx, domain.Session{})
	assert.ErrorIs(t, err, ErrAuthNoSession)

	// A valid-looking session whose account no longer exists resolves to
	// nothing, not to an internal error.
	_, err = svc.CurrentUser(ctx, domain.Session{UserID: "gone"})
	assert.ErrorIs(t, err, ErrAuthUserNotFound)
}

func TestSessionFromTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, time.Hour)

	_, err := svc.SessionFromToken("")
	assert.ErrorIs(t, err, ErrAuthInvalidToken)
	_, err = svc.SessionFromToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrAuthInvalidToken)
}

func TestSessionFromTokenExpiry(t *testing.T) {
	svc := newAuthService(t, time.Millisecond)
	ctx := context.Background()

	result, err := svc.Register(ctx, ports.RegisterInput{
		Email:    "shortlived@example.com",
		Password: "longenough",
	})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.SessionFromToken(result.AccessToken)
	assert.ErrorIs(t, err, ErrAuthExpiredToken)
}

func TestTokensSignedWithDifferentSecretRejected(t *testing.T) {
	env := newTestEnv(t)
	issuing := NewAuthService(AuthServiceConfig{
		Users:     env.users,
		Logger:    logger.NewNop(),
		JWTSecret: "secret-one",
	})
	verifying := NewAuthService(AuthServiceConfig{
		Users:     env.users,
		Logger:    logger.NewNop(),
		JWTSecret: "secret-two",
	})

	result, err := issuing.Register(context.Background(), ports.RegisterInput{
		Email:    "user@example.com",
		Password: "longenough",
	})
	require.NoError(t, err)

	_, err = verifying.SessionFromToken(result.AccessToken)
	assert.ErrorIs(t, err, ErrAuthInvalidToken)
}
