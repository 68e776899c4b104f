package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/notes-be/internal/auth"
	"github.com/isdelr/notes-be/internal/database"
	"github.com/isdelr/notes-be/internal/models"
	"github.com/isdelr/notes-be/internal/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	db     *sql.DB
	users  *store.SQLUserStore
	notes  *store.SQLNoteStore
	issuer *auth.JWTIssuer
	hasher *auth.BcryptHasher
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))

	issuer, err := auth.NewJWTIssuer(auth.IssuerConfig{Secret: []byte("test-secret"), Issuer: "notes-api", Subject: "notes"})
	require.NoError(t, err)

	return testEnv{
		db:     db,
		users:  store.NewUserStore(db, database.SQLite, 2*time.Second),
		notes:  store.NewNoteStore(db, database.SQLite, 2*time.Second),
		issuer: issuer,
		hasher: auth.NewBcryptHasher(bcrypt.MinCost),
	}
}

func (e testEnv) userService() *UserService {
	return NewUserService(e.users, e.hasher, e.issuer)
}

// fakeUserStore lets tests inject store failures.
type fakeUserStore struct {
	findErr   error
	found     models.User
	insertErr error
	updateErr error
	inserted  []models.User
	updated   map[string]string
}

func (f *fakeUserStore) Insert(_ context.Context, u *models.User) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	u.ID = "u-new"
	f.inserted = append(f.inserted, *u)
	return nil
}

func (f *fakeUserStore) FindByEmail(context.Context, string) (models.User, error) {
	return f.found, f.findErr
}

func (f *fakeUserStore) FindByCredential(context.Context, string) (models.User, error) {
	return f.found, f.findErr
}

func (f *fakeUserStore) UpdateCredential(_ context.Context, id, credential string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[id] = credential
	return nil
}

type failingHasher struct{ auth.PasswordHasher }

func (failingHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }

type failingIssuer struct{ auth.CredentialIssuer }

func (failingIssuer) Issue() (string, error) { return "", errors.New("hsm offline") }

// recordingPublisher captures published note events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	userID  string
	action  string
	payload interface{}
}

func (p *recordingPublisher) Publish(userID, action string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{userID: userID, action: action, payload: payload})
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.action)
	}
	return out
}
