package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-admin-dashboard/config"
	"github.com/FACorreiaa/go-admin-dashboard/internal/storage"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey: "test-secret-key-for-signing",
		TokenTTL:  time.Hour,
		Issuer:    "go-admin-dashboard",
		Audience:  "dashboard-clients",
	}
}

func TestSessionGate_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("starts in loading state", func(t *testing.T) {
		gate := NewSessionGate(storage.NewMemoryStore(), testJWTConfig(), testLogger())
		assert.Equal(t, GateLoading, gate.State())
		assert.False(t, gate.IsAuthenticated())
	})

	t.Run("empty email is rejected", func(t *testing.T) {
		gate := NewSessionGate(storage.NewMemoryStore(), testJWTConfig(), testLogger())
		_, _, err := gate.Login(ctx, "", "secret")
		assert.ErrorIs(t, err, types.ErrInvalidCredentials)
		assert.False(t, gate.IsAuthenticated())
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		gate := NewSessionGate(storage.NewMemoryStore(), testJWTConfig(), testLogger())
		_, _, err := gate.Login(ctx, "jane@example.com", "")
		assert.ErrorIs(t, err, types.ErrInvalidCredentials)
	})

	t.Run("any non-empty pair authenticates", func(t *testing.T) {
		store := storage.NewMemoryStore()
		gate := NewSessionGate(store, testJWTConfig(), testLogger())

		user, token, err := gate.Login(ctx, "jane@example.com", "whatever")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, "jane", user.Name)
		assert.NotEmpty(t, token)
		assert.True(t, gate.IsAuthenticated())
		assert.Equal(t, GateAuthenticated, gate.State())

		// Both session slots are persisted.
		var persistedToken string
		found, err := store.Read(ctx, storage.SlotToken, &persistedToken)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, token, persistedToken)

		var account persistedAccount
		found, err = store.Read(ctx, storage.SlotUser, &account)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "jane@example.com", account.Email)
	})

	t.Run("issued token carries the configured claims", func(t *testing.T) {
		cfg := testJWTConfig()
		gate := NewSessionGate(storage.NewMemoryStore(), cfg, testLogger())

		user, token, err := gate.Login(ctx, "jane@example.com", "pw")
		require.NoError(t, err)

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(cfg.SecretKey), nil
		})
		require.NoError(t, err)
		require.True(t, parsed.Valid)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, cfg.Issuer, claims.Issuer)
		assert.Contains(t, claims.Audience, cfg.Audience)
	})
}

func TestSessionGate_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a bcrypt hash, never the password", func(t *testing.T) {
		store := storage.NewMemoryStore()
		gate := NewSessionGate(store, testJWTConfig(), testLogger())

		require.NoError(t, gate.Signup(ctx, "jane@example.com", "Abc123!@"))

		var account persistedAccount
		found, err := store.Read(ctx, storage.SlotUser, &account)
		require.NoError(t, err)
		require.True(t, found)
		assert.NotEqual(t, "Abc123!@", account.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("Abc123!@")))
	})
}

func TestSessionGate_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the persisted session", func(t *testing.T) {
		store := storage.NewMemoryStore()
		gate := NewSessionGate(store, testJWTConfig(), testLogger())

		_, _, err := gate.Login(ctx, "jane@example.com", "pw")
		require.NoError(t, err)

		require.NoError(t, gate.Logout(ctx))
		assert.False(t, gate.IsAuthenticated())
		assert.Equal(t, GateUnauthenticated, gate.State())

		var token string
		found, err := store.Read(ctx, storage.SlotToken, &token)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("completes even when clearing storage fails", func(t *testing.T) {
		gate := NewSessionGate(&failingStore{}, testJWTConfig(), testLogger())
		assert.NoError(t, gate.Logout(ctx))
		assert.Equal(t, GateUnauthenticated, gate.State())
	})
}

func TestSessionGate_Rehydrate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty storage ends unauthenticated", func(t *testing.T) {
		gate := NewSessionGate(storage.NewMemoryStore(), testJWTConfig(), testLogger())
		require.NoError(t, gate.Rehydrate(ctx))
		assert.Equal(t, GateUnauthenticated, gate.State())
	})

	t.Run("valid persisted session is restored", func(t *testing.T) {
		store := storage.NewMemoryStore()
		first := NewSessionGate(store, testJWTConfig(), testLogger())
		user, _, err := first.Login(ctx, "jane@example.com", "pw")
		require.NoError(t, err)

		second := NewSessionGate(store, testJWTConfig(), testLogger())
		require.NoError(t, second.Rehydrate(ctx))
		assert.True(t, second.IsAuthenticated())

		session := second.Session()
		require.NotNil(t, session.User)
		assert.Equal(t, user.ID, session.User.ID)
		assert.Equal(t, "jane@example.com", session.User.Email)
	})

	t.Run("tampered token is dropped without error", func(t *testing.T) {
		store := storage.NewMemoryStore()
		gate := NewSessionGate(store, testJWTConfig(), testLogger())
		_, _, err := gate.Login(ctx, "jane@example.com", "pw")
		require.NoError(t, err)

		require.NoError(t, store.Write(ctx, storage.SlotToken, "not.a.jwt"))

		second := NewSessionGate(store, testJWTConfig(), testLogger())
		require.NoError(t, second.Rehydrate(ctx))
		assert.Equal(t, GateUnauthenticated, second.State())

		// The stale slots are cleared too.
		var token string
		found, err := store.Read(ctx, storage.SlotToken, &token)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("expired token ends unauthenticated", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.TokenTTL = -time.Minute

		store := storage.NewMemoryStore()
		gate := NewSessionGate(store, cfg, testLogger())
		_, _, err := gate.Login(ctx, "jane@example.com", "pw")
		require.NoError(t, err)

		second := NewSessionGate(store, cfg, testLogger())
		require.NoError(t, second.Rehydrate(ctx))
		assert.Equal(t, GateUnauthenticated, second.State())
	})
}

// failingStore errors on every operation.
type failingStore struct{}

func (f *failingStore) Read(context.Context, string, any) (bool, error) {
	return false, errors.New("storage down")
}

func (f *failingStore) Write(context.Context, string, any) error {
	return errors.New("storage down")
}

func (f *failingStore) Delete(context.Context, string) error {
	return errors.New("storage down")
}
