package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-admin-dashboard/app/observability/metrics"
	"github.com/FACorreiaa/go-admin-dashboard/internal/api"
	"github.com/FACorreiaa/go-admin-dashboard/internal/form"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Signup(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	gate   SessionGate
	logger *slog.Logger
}

// NewHandlerImpl creates a new auth HandlerImpl instance.
func NewHandlerImpl(gate SessionGate, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{gate: gate, logger: logger}
}

// Login godoc
// @Summary      Login
// @Description  Issues a session token for the dashboard.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /auth/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, token, err := h.gate.Login(ctx, req.Email, req.Password)
	metrics.Get().RecordLogin(ctx, err == nil)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Email and password are required")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create session")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		AccessToken: token,
		User:        user,
		Message:     "Login successful",
	})
}

// Signup godoc
// @Summary      Signup
// @Description  Registers a demo account after validating the password rules.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /auth/signup [post]
func (h *HandlerImpl) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Signup"))

	var req SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	f := form.NewSignupForm()
	_ = f.SetField("email", req.Email)
	_ = f.SetField("password", req.Password)
	_ = f.SetField("confirmPassword", req.ConfirmPassword)

	err := f.Submit(ctx, func(ctx context.Context, fields map[string]string, editing bool) error {
		return h.gate.Signup(ctx, fields["email"], fields["password"])
	})
	if err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			api.ValidationErrorResponse(w, r, verr.Fields)
			return
		}
		l.ErrorContext(ctx, "Signup failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register account")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, types.Response{
		Success: true,
		Message: "Account created, you can now log in",
	})
}

// Logout godoc
// @Summary      Logout
// @Description  Clears the persisted session.
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *HandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.gate.Logout(ctx); err != nil {
		// Logout still ends unauthenticated even when clearing storage fails.
		h.logger.WarnContext(ctx, "Logout reported error", slog.Any("error", err))
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Logged out",
	})
}

// GetSession godoc
// @Summary      Get Session
// @Description  Returns the current session gate state.
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Router       /auth/session [get]
func (h *HandlerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	session := h.gate.Session()
	api.WriteJSONResponse(w, r, http.StatusOK, SessionResponse{
		IsAuthenticated: session.IsAuthenticated,
		State:           string(h.gate.State()),
		User:            session.User,
	})
}
