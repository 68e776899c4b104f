// Package common defines the error kinds shared by the store, service and
// HTTP layers. Callers match them with errors.Is.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Authentication errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Internal failures. Causes are logged, never returned to clients.
	ErrWrite      = errors.New("store write failed")
	ErrHashing    = errors.New("password hashing failed")
	ErrCredential = errors.New("credential issuance failed")
	ErrInternal   = errors.New("internal error")
)
