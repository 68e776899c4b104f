package services

import (
	"context"
	"errors"

	"github.com/isdelr/notes-be/internal/common"
	"github.com/isdelr/notes-be/internal/models"
	"github.com/isdelr/notes-be/internal/store"
	"github.com/rs/zerolog/log"
)

// Note event actions pushed to the owner's live connections.
const (
	NoteCreated = "note.created"
	NoteUpdated = "note.updated"
	NoteDeleted = "note.deleted"
)

// EventPublisher delivers note events to a user's live connections.
type EventPublisher interface {
	Publish(userID, action string, payload interface{})
}

// NoteServiceProvider defines the interface for note services.
type NoteServiceProvider interface {
	List(ctx context.Context, ownerID string) []models.Note
	Create(ctx context.Context, ownerID, title string, body *string) (models.Note, error)
	Get(ctx context.Context, ownerID, id string) (models.Note, error)
	Update(ctx context.Context, ownerID, id string, patch models.NotePatch) (models.Note, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// NoteService provides the owner-scoped note lifecycle.
type NoteService struct {
	notes  store.NoteStore
	events EventPublisher
}

// NewNoteService creates a new NoteService. events may be nil.
func NewNoteService(notes store.NoteStore, events EventPublisher) *NoteService {
	return &NoteService{notes: notes, events: events}
}

// List returns the owner's notes. Store failures yield an empty list.
func (s *NoteService) List(ctx context.Context, ownerID string) []models.Note {
	notes, err := s.notes.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Error().Err(err).Str("user_id", ownerID).Msg("Failed to list notes")
		return []models.Note{}
	}
	return notes
}

// Create stores a new note for ownerID. A nil body is stored as "".
func (s *NoteService) Create(ctx context.Context, ownerID, title string, body *string) (models.Note, error) {
	note := models.Note{OwnerID: ownerID, Title: title}
	if body != nil {
		note.Body = *body
	}

	if err := s.notes.Insert(ctx, &note); err != nil {
		log.Error().Err(err).Str("user_id", ownerID).Msg("Failed to create note")
		return models.Note{}, common.ErrWrite
	}

	s.publish(ownerID, NoteCreated, note)
	return note, nil
}

// Get returns the note when ownerID owns it.
func (s *NoteService) Get(ctx context.Context, ownerID, id string) (models.Note, error) {
	note, err := s.notes.Get(ctx, id, ownerID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Error().Err(err).Str("note_id", id).Msg("Failed to get note")
		}
		return models.Note{}, common.ErrNotFound
	}
	return note, nil
}

// Update applies patch to the owner's note and returns the merged result.
// Fetch, merge and save share one transaction; concurrent updates resolve
// last-writer-wins.
func (s *NoteService) Update(ctx context.Context, ownerID, id string, patch models.NotePatch) (models.Note, error) {
	var updated models.Note
	err := s.notes.InTx(ctx, func(ctx context.Context, tx store.NoteStore) error {
		current, err := tx.Get(ctx, id, ownerID)
		if err != nil {
			return err
		}
		updated = current.Apply(patch)
		return tx.Save(ctx, &updated)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.Note{}, common.ErrNotFound
		}
		log.Error().Err(err).Str("note_id", id).Msg("Failed to update note")
		return models.Note{}, common.ErrWrite
	}

	s.publish(ownerID, NoteUpdated, updated)
	return updated, nil
}

// Delete removes the owner's note. Deleting a missing note succeeds.
func (s *NoteService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.notes.Delete(ctx, id, ownerID); err != nil {
		log.Error().Err(err).Str("note_id", id).Msg("Failed to delete note")
		return common.ErrWrite
	}

	s.publish(ownerID, NoteDeleted, map[string]string{"id": id})
	return nil
}

func (s *NoteService) publish(userID, action string, payload interface{}) {
	if s.events != nil {
		s.events.Publish(userID, action, payload)
	}
}
