package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lexidrill/internal/models"
	"lexidrill/internal/service"
	"lexidrill/internal/validation"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func serializeUser(user *models.User) userResponse {
	return userResponse{ID: user.ID, Email: user.Email, Name: user.Name}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}

	user, token, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Code, verr.Message)
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists")
			return
		}
		respondInternalError(w, "Failed to register user", err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: serializeUser(user)})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		respondInternalError(w, "Failed to log in user", err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: serializeUser(user)})
}
