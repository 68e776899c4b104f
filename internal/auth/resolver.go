package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/isdelr/notes-be/internal/common"
	"github.com/isdelr/notes-be/internal/models"
	"github.com/rs/zerolog/log"
)

const bearerScheme = "Bearer "

// CredentialLookup finds the user currently holding a credential.
type CredentialLookup interface {
	FindByCredential(ctx context.Context, credential string) (models.User, error)
}

// Resolver turns an Authorization header value into the requesting user.
type Resolver struct {
	issuer CredentialIssuer
	users  CredentialLookup
}

// NewResolver creates a new Resolver.
func NewResolver(issuer CredentialIssuer, users CredentialLookup) *Resolver {
	return &Resolver{issuer: issuer, users: users}
}

// Resolve authenticates header. Every failure is reported as
// common.ErrUnauthorized; the cause is only logged.
func (r *Resolver) Resolve(ctx context.Context, header string) (models.User, error) {
	credential, ok := BearerToken(header)
	if !ok {
		log.Debug().Msg("Missing or malformed bearer credential")
		return models.User{}, common.ErrUnauthorized
	}

	if err := r.issuer.Verify(credential); err != nil {
		log.Debug().Err(err).Msg("Credential failed verification")
		return models.User{}, common.ErrUnauthorized
	}

	user, err := r.users.FindByCredential(ctx, credential)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			log.Debug().Msg("Credential is not held by any user")
		} else {
			log.Error().Err(err).Msg("Failed to look up credential holder")
		}
		return models.User{}, common.ErrUnauthorized
	}
	return user, nil
}

// BearerToken extracts the credential from an "Authorization: Bearer <token>"
// value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	if len(header) <= len(bearerScheme) || !strings.EqualFold(header[:len(bearerScheme)], bearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	return token, token != ""
}
