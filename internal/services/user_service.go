package services

import (
	"context"
	"errors"

	"github.com/isdelr/notes-be/internal/auth"
	"github.com/isdelr/notes-be/internal/common"
	"github.com/isdelr/notes-be/internal/models"
	"github.com/isdelr/notes-be/internal/store"
	"github.com/rs/zerolog/log"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, email, password string) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, error)
}

// UserService provides registration and login.
type UserService struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	issuer auth.CredentialIssuer
}

// NewUserService creates a new UserService.
func NewUserService(users store.UserStore, hasher auth.PasswordHasher, issuer auth.CredentialIssuer) *UserService {
	return &UserService{users: users, hasher: hasher, issuer: issuer}
}

// Register creates an account and returns it with its credential.
// Nothing is persisted unless every step succeeds.
func (s *UserService) Register(ctx context.Context, email, password string) (models.User, error) {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return models.User{}, common.ErrAlreadyExists
	case !errors.Is(err, common.ErrNotFound):
		log.Error().Err(err).Msg("Failed to check email availability")
		return models.User{}, common.ErrInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		return models.User{}, common.ErrHashing
	}

	credential, err := s.issuer.Issue()
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue credential")
		return models.User{}, common.ErrCredential
	}

	user := models.User{Email: email, PasswordHash: hash, AccessToken: credential}
	if err := s.users.Insert(ctx, &user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return models.User{}, common.ErrAlreadyExists
		}
		log.Error().Err(err).Msg("Failed to insert user")
		return models.User{}, common.ErrWrite
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	return user, nil
}

// Login verifies email and password and returns the user with a valid
// credential. A stored credential that no longer verifies is replaced.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Burn(password)
			return models.User{}, common.ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("Failed to look up user for login")
		return models.User{}, common.ErrInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return models.User{}, common.ErrInvalidCredentials
	}

	if user.AccessToken == "" || s.issuer.Verify(user.AccessToken) != nil {
		credential, err := s.issuer.Issue()
		if err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to reissue credential")
			return models.User{}, common.ErrCredential
		}
		if err := s.users.UpdateCredential(ctx, user.ID, credential); err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to store reissued credential")
			return models.User{}, common.ErrWrite
		}
		user.AccessToken = credential
	}

	return user, nil
}
