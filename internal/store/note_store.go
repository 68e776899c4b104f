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

// NoteStore persists notes. Every lookup and mutation is scoped to an owner.
type NoteStore interface {
	Insert(ctx context.Context, note *models.Note) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error)
	Get(ctx context.Context, id, ownerID string) (models.Note, error)
	Save(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id, ownerID string) error
	// InTx runs fn against a store bound to a single transaction.
	InTx(ctx context.Context, fn func(ctx context.Context, tx NoteStore) error) error
}

// SQLNoteStore is a NoteStore backed by database/sql.
type SQLNoteStore struct {
	conn    *sql.DB // nil when bound to a transaction
	db      database.DBTX
	dialect database.Dialect
	timeout time.Duration
}

// NewNoteStore creates a new SQLNoteStore.
func NewNoteStore(db *sql.DB, dialect database.Dialect, timeout time.Duration) *SQLNoteStore {
	return &SQLNoteStore{conn: db, db: db, dialect: dialect, timeout: timeout}
}

const noteColumns = "id, user_id, title, body, created_at, updated_at"

// Insert assigns a fresh ID and timestamps to note and stores it.
func (s *SQLNoteStore) Insert(ctx context.Context, note *models.Note) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	note.ID = uuid.New().String()
	note.CreatedAt, note.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx,
		s.dialect.Rebind("INSERT INTO notes ("+noteColumns+") VALUES (?, ?, ?, ?, ?, ?)"),
		note.ID, note.OwnerID, note.Title, note.Body, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's notes, oldest first.
func (s *SQLNoteStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		s.dialect.Rebind("SELECT "+noteColumns+" FROM notes WHERE user_id = ? ORDER BY created_at, id"), ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Get returns the note only when ownerID owns it; otherwise common.ErrNotFound.
func (s *SQLNoteStore) Get(ctx context.Context, id, ownerID string) (models.Note, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var n models.Note
	err := s.db.QueryRowContext(ctx,
		s.dialect.Rebind("SELECT "+noteColumns+" FROM notes WHERE id = ? AND user_id = ?"), id, ownerID).
		Scan(&n.ID, &n.OwnerID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, common.ErrNotFound
		}
		return models.Note{}, fmt.Errorf("select note: %w", err)
	}
	return n, nil
}

// Save writes title and body of an existing note and bumps UpdatedAt.
func (s *SQLNoteStore) Save(ctx context.Context, note *models.Note) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	note.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		s.dialect.Rebind("UPDATE notes SET title = ?, body = ?, updated_at = ? WHERE id = ? AND user_id = ?"),
		note.Title, note.Body, note.UpdatedAt, note.ID, note.OwnerID)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes the note when ownerID owns it. Missing notes are not an error.
func (s *SQLNoteStore) Delete(ctx context.Context, id, ownerID string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, s.dialect.Rebind("DELETE FROM notes WHERE id = ? AND user_id = ?"), id, ownerID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// InTx runs fn inside one transaction. Calls nested in an existing
// transaction reuse it.
func (s *SQLNoteStore) InTx(ctx context.Context, fn func(ctx context.Context, tx NoteStore) error) error {
	if s.conn == nil {
		return fn(ctx, s)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	return database.WithTx(ctx, s.conn, func(ctx context.Context, tx database.DBTX) error {
		return fn(ctx, &SQLNoteStore{db: tx, dialect: s.dialect, timeout: s.timeout})
	})
}
