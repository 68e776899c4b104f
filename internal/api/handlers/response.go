package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/notes-be/internal/common"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// Envelope wraps every JSON response.
type Envelope struct {
	Status string      `json:"status"`
	Body   interface{} `json:"body"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type errorKind struct {
	status  int
	typ     string
	message string
}

var (
	kindInvalidAttributes = errorKind{http.StatusUnprocessableEntity, "InvalidAttributes", "Attributes are invalid"}
	kindBadRequest        = errorKind{http.StatusBadRequest, "BadRequest", "Request body is not valid JSON"}
	kindInternal          = errorKind{http.StatusInternalServerError, "InternalError", "Internal server error"}
)

var errorKinds = []struct {
	err  error
	kind errorKind
}{
	{common.ErrAlreadyExists, errorKind{http.StatusConflict, "AlreadyExists", "Email is in use"}},
	{common.ErrInvalidCredentials, errorKind{http.StatusUnauthorized, "InvalidCredentials", "Email and password combination is invalid"}},
	{common.ErrUnauthorized, errorKind{http.StatusUnauthorized, "Unauthorized", "Authentication required"}},
	{common.ErrNotFound, errorKind{http.StatusNotFound, "NotFound", "Note not found"}},
	{common.ErrWrite, errorKind{http.StatusInternalServerError, "DBWrite", "There was an error writing to the database"}},
	{common.ErrHashing, errorKind{http.StatusInternalServerError, "HashingError", "Unable to process password"}},
	{common.ErrCredential, errorKind{http.StatusInternalServerError, "CredentialError", "Unable to create token"}},
}

func kindOf(err error) errorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return kindInternal
}

// WriteOK writes a success envelope.
func WriteOK(w http.ResponseWriter, status int, body interface{}) {
	writeJSON(w, status, Envelope{Status: "ok", Body: body})
}

// WriteError maps err to its public kind and writes an error envelope.
// The error text itself never reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	writeKind(w, kindOf(err), nil)
}

func writeKind(w http.ResponseWriter, k errorKind, fields map[string]string) {
	writeJSON(w, k.status, Envelope{
		Status: "error",
		Body:   ErrorBody{Type: k.typ, Message: k.message, Errors: fields},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// decode reads a JSON request body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		log.Debug().Err(err).Msg("Invalid request body")
		writeKind(w, kindBadRequest, nil)
		return false
	}
	return true
}
