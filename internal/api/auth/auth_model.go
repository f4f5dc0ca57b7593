package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response body
type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	User        *types.SessionUser `json:"user"`
	Message     string             `json:"message"`
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SessionResponse represents the current session state
type SessionResponse struct {
	IsAuthenticated bool               `json:"isAuthenticated"`
	State           string             `json:"state"`
	User            *types.SessionUser `json:"user,omitempty"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
