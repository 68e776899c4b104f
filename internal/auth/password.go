package auth

import (
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. Malformed hashes are
	// logged and never match.
	Verify(password, hash string) bool
	// Burn spends the same work as a failed Verify. It keeps unknown-account
	// logins as slow as wrong-password logins.
	Burn(password string)
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost  int
	dummy []byte
}

// NewBcryptHasher creates a bcrypt hasher. The cost is clamped to bcrypt's
// valid range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to prepare dummy bcrypt hash")
	}
	return &BcryptHasher{cost: cost, dummy: dummy}
}

// Hash creates a salted bcrypt hash from a password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify checks if a password matches a bcrypt hash.
func (h *BcryptHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		log.Warn().Err(err).Msg("Stored password hash could not be verified")
	}
	return false
}

// Burn compares password against a throwaway hash of the configured cost.
func (h *BcryptHasher) Burn(password string) {
	if h.dummy != nil {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
	}
}

var _ PasswordHasher = (*BcryptHasher)(nil)
