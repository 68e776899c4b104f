package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/notes-be/internal/auth"
	"github.com/isdelr/notes-be/internal/common"
	"github.com/isdelr/notes-be/internal/models"
	"github.com/isdelr/notes-be/internal/services"
)

// NoteHandler handles HTTP requests for the authenticated user's notes.
type NoteHandler struct {
	service services.NoteServiceProvider
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(service services.NoteServiceProvider) *NoteHandler {
	return &NoteHandler{service: service}
}

// NotePayload defines the structure for create and update requests.
type NotePayload struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// GetAll lists the caller's notes.
func (h *NoteHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	WriteOK(w, http.StatusOK, map[string]interface{}{"notes": h.service.List(r.Context(), user.ID)})
}

// Create adds a note for the caller.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload NotePayload
	if !decode(w, r, &payload) {
		return
	}
	errs := map[string]string{}
	validateTitle(errs, payload.Title, true)
	if len(errs) > 0 {
		writeKind(w, kindInvalidAttributes, errs)
		return
	}

	note, err := h.service.Create(r.Context(), user.ID, *payload.Title, payload.Body)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteOK(w, http.StatusCreated, map[string]interface{}{"note": note})
}

// Get returns one of the caller's notes.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	note, err := h.service.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]interface{}{"note": note})
}

// Update applies a partial update to one of the caller's notes.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload NotePayload
	if !decode(w, r, &payload) {
		return
	}
	errs := map[string]string{}
	validateTitle(errs, payload.Title, false)
	if len(errs) > 0 {
		writeKind(w, kindInvalidAttributes, errs)
		return
	}

	patch := models.NotePatch{Title: payload.Title, Body: payload.Body}
	note, err := h.service.Update(r.Context(), user.ID, chi.URLParam(r, "id"), patch)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteOK(w, http.StatusOK, map[string]interface{}{"note": note})
}

// Delete removes one of the caller's notes.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	WriteOK(w, http.StatusOK, nil)
}

func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		WriteError(w, common.ErrUnauthorized)
	}
	return user, ok
}
