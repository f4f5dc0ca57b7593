package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-admin-dashboard/internal/storage"
)

func newAuthRouter(t *testing.T) (*chi.Mux, *SessionGateImpl) {
	t.Helper()
	gate := NewSessionGate(storage.NewMemoryStore(), testJWTConfig(), testLogger())
	h := NewHandlerImpl(gate, testLogger())

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/signup", h.Signup)
		r.Post("/logout", h.Logout)
		r.Get("/session", h.GetSession)
	})
	return r, gate
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials return a token", func(t *testing.T) {
		router, _ := newAuthRouter(t)
		w := doJSON(t, router, http.MethodPost, "/auth/login", LoginRequest{Email: "jane@example.com", Password: "pw"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
		require.NotNil(t, resp.User)
		assert.Equal(t, "jane@example.com", resp.User.Email)
	})

	t.Run("empty credentials are unauthorized", func(t *testing.T) {
		router, _ := newAuthRouter(t)
		w := doJSON(t, router, http.MethodPost, "/auth/login", LoginRequest{Email: "", Password: ""})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Signup(t *testing.T) {
	t.Run("valid signup creates the account", func(t *testing.T) {
		router, _ := newAuthRouter(t)
		w := doJSON(t, router, http.MethodPost, "/auth/signup", SignupRequest{
			Email:           "jane@example.com",
			Password:        "Abc123!@",
			ConfirmPassword: "Abc123!@",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("weak password returns the failing rules", func(t *testing.T) {
		router, _ := newAuthRouter(t)
		w := doJSON(t, router, http.MethodPost, "/auth/signup", SignupRequest{
			Email:           "jane@example.com",
			Password:        "abc",
			ConfirmPassword: "abc",
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp struct {
			Fields map[string][]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields["password"], "Password must be at least 8 characters long")
	})

	t.Run("mismatched confirmation is rejected", func(t *testing.T) {
		router, _ := newAuthRouter(t)
		w := doJSON(t, router, http.MethodPost, "/auth/signup", SignupRequest{
			Email:           "jane@example.com",
			Password:        "Abc123!@",
			ConfirmPassword: "different",
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp struct {
			Fields map[string][]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields["confirmPassword"], "Passwords do not match")
	})
}

func TestAuthHandler_Session(t *testing.T) {
	t.Run("reflects the gate state across login and logout", func(t *testing.T) {
		router, gate := newAuthRouter(t)
		require.NoError(t, gate.Rehydrate(t.Context()))

		w := doJSON(t, router, http.MethodGet, "/auth/session", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.IsAuthenticated)
		assert.Equal(t, string(GateUnauthenticated), resp.State)

		doJSON(t, router, http.MethodPost, "/auth/login", LoginRequest{Email: "jane@example.com", Password: "pw"})
		w = doJSON(t, router, http.MethodGet, "/auth/session", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.IsAuthenticated)

		doJSON(t, router, http.MethodPost, "/auth/logout", nil)
		w = doJSON(t, router, http.MethodGet, "/auth/session", nil)
		resp = SessionResponse{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.IsAuthenticated)
		assert.Nil(t, resp.User)
	})
}
