package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/Fuzara/cashcraft/internal/platform/user"
)

// UserServiceInterface defines the interface for user operations needed by AuthHandler
type UserServiceInterface interface {
	Register(ctx context.Context, email, password string) (*user.User, error)
	Login(ctx context.Context, email, password string) (*user.User, error)
}

// JWTServiceInterface defines the interface for JWT operations
type JWTServiceInterface interface {
	GenerateToken(userID uuid.UUID, email string) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userService UserServiceInterface
	jwtService  JWTServiceInterface
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService UserServiceInterface, jwtService JWTServiceInterface) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo represents user information (without sensitive data)
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.userService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondAppError(w, err)
		return
	}

	token, err := h.jwtService.GenerateToken(u.ID, u.Email)
	if err != nil {
		respondError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, AuthResponse{
		Token: token,
		User:  &UserInfo{ID: u.ID.String(), Email: u.Email},
	}, http.StatusCreated)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondAppError(w, err)
		return
	}

	token, err := h.jwtService.GenerateToken(u.ID, u.Email)
	if err != nil {
		respondError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, AuthResponse{
		Token: token,
		User:  &UserInfo{ID: u.ID.String(), Email: u.Email},
	}, http.StatusOK)
}
