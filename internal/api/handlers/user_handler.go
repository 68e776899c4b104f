package handlers

import (
	"net/http"

	"github.com/isdelr/notes-be/internal/auth"
	"github.com/isdelr/notes-be/internal/common"
	"github.com/isdelr/notes-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles registration, login and the current-user lookup.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// AuthPayload defines the structure for register and login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if !decode(w, r, &payload) {
		return
	}
	if errs := validateRegistration(payload.Email, payload.Password); len(errs) > 0 {
		writeKind(w, kindInvalidAttributes, errs)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to register user")
		WriteError(w, err)
		return
	}

	WriteOK(w, http.StatusCreated, map[string]interface{}{"user": user})
}

// Login authenticates a user and returns their credential.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if !decode(w, r, &payload) {
		return
	}
	if errs := validateLogin(payload.Email, payload.Password); len(errs) > 0 {
		writeKind(w, kindInvalidAttributes, errs)
		return
	}

	user, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Msg("Failed authentication attempt")
		WriteError(w, err)
		return
	}

	WriteOK(w, http.StatusOK, map[string]interface{}{"user": user})
}

// GetMe returns the authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		WriteError(w, common.ErrUnauthorized)
		return
	}
	WriteOK(w, http.StatusOK, map[string]interface{}{"user": user})
}
