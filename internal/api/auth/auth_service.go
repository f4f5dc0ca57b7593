package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-admin-dashboard/config"
	"github.com/FACorreiaa/go-admin-dashboard/internal/storage"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

// GateState is the session gate's lifecycle. Loading is distinct from
// Unauthenticated: no gated view may be served until rehydration from
// persisted storage has completed.
type GateState string

const (
	GateLoading         GateState = "loading"
	GateUnauthenticated GateState = "unauthenticated"
	GateAuthenticated   GateState = "authenticated"
)

// SessionGate tracks the authenticated state and the persisted session.
type SessionGate interface {
	// Rehydrate restores the session from the token/user slots. Must be
	// called once at startup before any gated view is served.
	Rehydrate(ctx context.Context) error

	// Login issues a session for any non-empty email/password pair.
	// Real credential verification is out of scope for this demo-grade
	// gate and left to an external authentication collaborator.
	Login(ctx context.Context, email, password string) (*types.SessionUser, string, error)

	// Signup registers a demo account, hashing the password before it
	// touches persisted storage.
	Signup(ctx context.Context, email, password string) error

	// Logout clears the persisted session. The caller always ends up
	// unauthenticated, even if clearing the slots fails.
	Logout(ctx context.Context) error

	State() GateState
	IsAuthenticated() bool
	Session() types.Session
}

var _ SessionGate = (*SessionGateImpl)(nil)

type SessionGateImpl struct {
	logger *slog.Logger
	store  storage.Store
	cfg    config.JWTConfig

	mu      sync.Mutex
	state   GateState
	session types.Session
}

// persistedAccount is the "user" slot layout. The bcrypt hash never
// leaves the slot; JSON serialization back to clients goes through
// types.SessionUser instead.
type persistedAccount struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

func NewSessionGate(store storage.Store, cfg config.JWTConfig, logger *slog.Logger) *SessionGateImpl {
	return &SessionGateImpl{
		logger: logger,
		store:  store,
		cfg:    cfg,
		state:  GateLoading,
	}
}

func (g *SessionGateImpl) Rehydrate(ctx context.Context) error {
	l := g.logger.With(slog.String("method", "Rehydrate"))

	var token string
	foundToken, err := g.store.Read(ctx, storage.SlotToken, &token)
	if err != nil {
		g.setUnauthenticated()
		return fmt.Errorf("rehydrating session: %w", err)
	}

	var account persistedAccount
	foundUser, err := g.store.Read(ctx, storage.SlotUser, &account)
	if err != nil {
		g.setUnauthenticated()
		return fmt.Errorf("rehydrating session: %w", err)
	}

	if !foundToken || !foundUser {
		g.setUnauthenticated()
		return nil
	}

	claims, err := g.parseToken(token)
	if err != nil {
		// Stale or tampered token: drop it and start unauthenticated.
		l.WarnContext(ctx, "Persisted token rejected, clearing session", slog.Any("error", err))
		g.clearSlots(ctx)
		g.setUnauthenticated()
		return nil
	}

	g.mu.Lock()
	g.state = GateAuthenticated
	g.session = types.Session{
		IsAuthenticated: true,
		User:            &types.SessionUser{ID: claims.UserID, Email: account.Email, Name: account.Name},
	}
	g.mu.Unlock()
	l.DebugContext(ctx, "Session rehydrated", slog.String("email", account.Email))
	return nil
}

func (g *SessionGateImpl) Login(ctx context.Context, email, password string) (*types.SessionUser, string, error) {
	l := g.logger.With(slog.String("method", "Login"))

	if email == "" || password == "" {
		return nil, "", types.ErrInvalidCredentials
	}

	user := &types.SessionUser{
		ID:    uuid.NewString(),
		Email: email,
		Name:  displayName(email),
	}

	token, err := g.signToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("signing session token: %w", err)
	}

	account := persistedAccount{ID: user.ID, Email: user.Email, Name: user.Name}
	if err := g.store.Write(ctx, storage.SlotUser, account); err != nil {
		return nil, "", fmt.Errorf("persisting session user: %w", err)
	}
	if err := g.store.Write(ctx, storage.SlotToken, token); err != nil {
		return nil, "", fmt.Errorf("persisting session token: %w", err)
	}

	g.mu.Lock()
	g.state = GateAuthenticated
	g.session = types.Session{IsAuthenticated: true, User: user}
	g.mu.Unlock()

	l.InfoContext(ctx, "Login successful", slog.String("email", email))
	return user, token, nil
}

func (g *SessionGateImpl) Signup(ctx context.Context, email, password string) error {
	l := g.logger.With(slog.String("method", "Signup"))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	account := persistedAccount{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         displayName(email),
		PasswordHash: string(hash),
	}
	if err := g.store.Write(ctx, storage.SlotUser, account); err != nil {
		return fmt.Errorf("persisting account: %w", err)
	}

	l.InfoContext(ctx, "Account registered", slog.String("email", email))
	return nil
}

func (g *SessionGateImpl) Logout(ctx context.Context) error {
	g.clearSlots(ctx)
	g.setUnauthenticated()
	g.logger.InfoContext(ctx, "Logged out")
	return nil
}

func (g *SessionGateImpl) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *SessionGateImpl) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == GateAuthenticated
}

func (g *SessionGateImpl) Session() types.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// clearSlots removes the persisted session. Failures are logged, not
// returned: logout must complete regardless.
func (g *SessionGateImpl) clearSlots(ctx context.Context) {
	if err := g.store.Delete(ctx, storage.SlotToken); err != nil {
		g.logger.WarnContext(ctx, "Failed to clear token slot", slog.Any("error", err))
	}
	if err := g.store.Delete(ctx, storage.SlotUser); err != nil {
		g.logger.WarnContext(ctx, "Failed to clear user slot", slog.Any("error", err))
	}
}

func (g *SessionGateImpl) setUnauthenticated() {
	g.mu.Lock()
	g.state = GateUnauthenticated
	g.session = types.Session{}
	g.mu.Unlock()
}

func (g *SessionGateImpl) signToken(user *types.SessionUser) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    g.cfg.Issuer,
			Audience:  jwt.ClaimStrings{g.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.cfg.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(g.cfg.SecretKey))
}

func (g *SessionGateImpl) parseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(g.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// displayName derives a presentable name from the email local part,
// which is all the demo login form collects.
func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return email
	}
	return local
}
