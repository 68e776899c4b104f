package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CredentialIssuer mints and checks the bearer credentials handed to users.
type CredentialIssuer interface {
	Issue() (string, error)
	Verify(credential string) error
}

// IssuerConfig configures a JWTIssuer.
type IssuerConfig struct {
	Secret  []byte
	Issuer  string
	Subject string
	TTL     time.Duration // 0 issues credentials without expiry
}

// JWTIssuer issues HS256-signed credentials. Each credential carries a
// random ID so no two users ever hold the same one.
type JWTIssuer struct {
	cfg IssuerConfig
	now func() time.Time
}

// NewJWTIssuer creates a JWTIssuer. The secret must not be empty.
func NewJWTIssuer(cfg IssuerConfig) (*JWTIssuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("credential signing secret is empty")
	}
	return &JWTIssuer{cfg: cfg, now: time.Now}, nil
}

// Issue creates a new signed credential.
func (i *JWTIssuer) Issue() (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		ID:       uuid.New().String(),
		Issuer:   i.cfg.Issuer,
		Subject:  i.cfg.Subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if i.cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.cfg.TTL))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return token, nil
}

// Verify checks the signature, algorithm, issuer, subject and expiry of a
// credential.
func (i *JWTIssuer) Verify(credential string) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithSubject(i.cfg.Subject),
	}
	if i.cfg.TTL > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	token, err := jwt.ParseWithClaims(credential, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return i.cfg.Secret, nil
	}, opts...)
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid credential")
	}
	return nil
}

var _ CredentialIssuer = (*JWTIssuer)(nil)
