package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/notes-be/internal/common"
	"github.com/isdelr/notes-be/internal/database"
	"github.com/isdelr/notes-be/internal/models"
)

// UserStore persists user accounts.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByCredential(ctx context.Context, credential string) (models.User, error)
	UpdateCredential(ctx context.Context, id, credential string) error
}

// SQLUserStore is a UserStore backed by database/sql.
type SQLUserStore struct {
	db      database.DBTX
	dialect database.Dialect
	timeout time.Duration
}

// NewUserStore creates a new SQLUserStore.
func NewUserStore(db database.DBTX, dialect database.Dialect, timeout time.Duration) *SQLUserStore {
	return &SQLUserStore{db: db, dialect: dialect, timeout: timeout}
}

const userColumns = "id, email, password_hash, COALESCE(access_token, ''), created_at"

// Insert assigns a fresh ID and creation time to user and stores it.
// A duplicate email yields common.ErrAlreadyExists.
func (s *SQLUserStore) Insert(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		s.dialect.Rebind("INSERT INTO users (id, email, password_hash, access_token, created_at) VALUES (?, ?, ?, ?, ?)"),
		user.ID, user.Email, user.PasswordHash, nullable(user.AccessToken), user.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("insert user: %w", common.ErrAlreadyExists)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail looks up a user by exact email match.
func (s *SQLUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

// FindByCredential looks up the user currently holding credential.
func (s *SQLUserStore) FindByCredential(ctx context.Context, credential string) (models.User, error) {
	if credential == "" {
		return models.User{}, common.ErrNotFound
	}
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE access_token = ?", credential)
}

// UpdateCredential replaces the stored credential of user id.
func (s *SQLUserStore) UpdateCredential(ctx context.Context, id, credential string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, s.dialect.Rebind("UPDATE users SET access_token = ? WHERE id = ?"), credential, id)
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *SQLUserStore) findOne(ctx context.Context, query string, arg any) (models.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var user models.User
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), arg).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.AccessToken, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, common.ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
