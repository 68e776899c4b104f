package services

import (
	"context"
	"errors"
	"testing"

	"github.com/isdelr/notes-be/internal/common"
	"github.com/isdelr/notes-be/internal/models"
	"github.com/isdelr/notes-be/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func registerPair(t *testing.T, env testEnv) (alice, bob models.User) {
	t.Helper()
	svc := env.userService()
	ctx := context.Background()
	alice, err := svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	bob, err = svc.Register(ctx, "bob@example.com", "password456")
	require.NoError(t, err)
	return alice, bob
}

func TestNoteService_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice, bob := registerPair(t, env)
	events := &recordingPublisher{}
	svc := NewNoteService(env.notes, events)
	ctx := context.Background()

	note, err := svc.Create(ctx, alice.ID, "T", strPtr("B"))
	require.NoError(t, err)
	require.NotEmpty(t, note.ID)

	listed := svc.List(ctx, alice.ID)
	require.Len(t, listed, 1)
	assert.Equal(t, note.ID, listed[0].ID)
	assert.Empty(t, svc.List(ctx, bob.ID))

	_, err = svc.Get(ctx, bob.ID, note.ID)
	require.ErrorIs(t, err, common.ErrNotFound, "foreign notes look missing")

	updated, err := svc.Update(ctx, alice.ID, note.ID, models.NotePatch{Title: strPtr("T2")})
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "B", updated.Body)

	got, err := svc.Get(ctx, alice.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "T2", got.Title)
	assert.Equal(t, "B", got.Body)

	require.NoError(t, svc.Delete(ctx, alice.ID, note.ID))
	_, err = svc.Get(ctx, alice.ID, note.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, svc.List(ctx, alice.ID))

	assert.Equal(t, []string{NoteCreated, NoteUpdated, NoteDeleted}, events.actions())
	for _, e := range events.events {
		assert.Equal(t, alice.ID, e.userID, "events go only to the owner")
	}
}

func TestNoteService_CreateDefaultsBody(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := registerPair(t, env)
	svc := NewNoteService(env.notes, nil)
	ctx := context.Background()

	note, err := svc.Create(ctx, alice.ID, "title only", nil)
	require.NoError(t, err)
	assert.Equal(t, "", note.Body)

	got, err := svc.Get(ctx, alice.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Body)
}

func TestNoteService_UpdateIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	alice, bob := registerPair(t, env)
	svc := NewNoteService(env.notes, nil)
	ctx := context.Background()

	note, err := svc.Create(ctx, alice.ID, "T", strPtr("B"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob.ID, note.ID, models.NotePatch{Title: strPtr("pwned")})
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.Update(ctx, alice.ID, "missing", models.NotePatch{Title: strPtr("x")})
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, bob.ID, note.ID), "foreign delete is a no-op")

	got, err := svc.Get(ctx, alice.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
}

func TestNoteService_UpdatePartialFields(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := registerPair(t, env)
	svc := NewNoteService(env.notes, nil)
	ctx := context.Background()

	note, err := svc.Create(ctx, alice.ID, "T", strPtr("B"))
	require.NoError(t, err)

	same, err := svc.Update(ctx, alice.ID, note.ID, models.NotePatch{})
	require.NoError(t, err)
	assert.Equal(t, "T", same.Title)
	assert.Equal(t, "B", same.Body)

	cleared, err := svc.Update(ctx, alice.ID, note.ID, models.NotePatch{Body: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "T", cleared.Title)
	assert.Equal(t, "", cleared.Body)
}

func TestNoteService_DeleteMissingSucceeds(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := registerPair(t, env)
	svc := NewNoteService(env.notes, nil)

	require.NoError(t, svc.Delete(context.Background(), alice.ID, "never-existed"))
}

// brokenNoteStore fails every call with err.
type brokenNoteStore struct{ err error }

func (b brokenNoteStore) Insert(context.Context, *models.Note) error { return b.err }
func (b brokenNoteStore) ListByOwner(context.Context, string) ([]models.Note, error) {
	return nil, b.err
}
func (b brokenNoteStore) Get(context.Context, string, string) (models.Note, error) {
	return models.Note{}, b.err
}
func (b brokenNoteStore) Save(context.Context, *models.Note) error { return b.err }
func (b brokenNoteStore) Delete(context.Context, string, string) error { return b.err }
func (b brokenNoteStore) InTx(ctx context.Context, fn func(context.Context, store.NoteStore) error) error {
	return fn(ctx, b)
}

func TestNoteService_StoreFailures(t *testing.T) {
	events := &recordingPublisher{}
	svc := NewNoteService(brokenNoteStore{err: errors.New("db down")}, events)
	ctx := context.Background()

	list := svc.List(ctx, "u-1")
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err := svc.Create(ctx, "u-1", "T", nil)
	require.ErrorIs(t, err, common.ErrWrite)

	_, err = svc.Get(ctx, "u-1", "n-1")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.Update(ctx, "u-1", "n-1", models.NotePatch{Title: strPtr("x")})
	require.ErrorIs(t, err, common.ErrWrite)

	require.ErrorIs(t, svc.Delete(ctx, "u-1", "n-1"), common.ErrWrite)

	assert.Empty(t, events.actions(), "failed mutations publish nothing")
}

func TestNoteService_StoreTimeoutSurfacesAsWriteError(t *testing.T) {
	svc := NewNoteService(brokenNoteStore{err: context.DeadlineExceeded}, nil)

	_, err := svc.Create(context.Background(), "u-1", "T", nil)
	require.ErrorIs(t, err, common.ErrWrite)
}
