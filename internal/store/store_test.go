package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/isdelr/notes-be/internal/database"
	"github.com/isdelr/notes-be/internal/models"
	"github.com/stretchr/testify/require"
)

const testTimeout = 2 * time.Second

func newSQLite(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))
	return db
}

func newPostgresMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func seedUser(t *testing.T, users UserStore, email string) models.User {
	t.Helper()
	u := models.User{Email: email, PasswordHash: "hash", AccessToken: "token-" + email}
	require.NoError(t, users.Insert(context.Background(), &u))
	return u
}
