package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/embauco/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/embauco/internal/dbx"
)

// Store persists the credential between runs. LoadCredential returns an
// empty string when nothing is stored.
type Store interface {
	LoadCredential(ctx context.Context) (string, error)
	SaveCredential(ctx context.Context, token string) error
	ClearCredential(ctx context.Context) error
}

const (
	credentialKey = "auth_token"
	savedAtKey    = "auth_token_saved_at"
)

// SQLiteStore keeps the credential in the metadata table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) LoadCredential(ctx context.Context) (string, error) {
	v, _, err := metadata.NewSQLiteRepository(s.db).Get(ctx, credentialKey)
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return v, nil
}

func (s *SQLiteStore) SaveCredential(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, credentialKey, token); err != nil {
			return err
		}
		return repo.Set(ctx, savedAtKey, s.now().UTC().Format(time.RFC3339))
	})
}

func (s *SQLiteStore) ClearCredential(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, credentialKey, savedAtKey)
}

// SavedAt reports when the stored credential was written.
func (s *SQLiteStore) SavedAt(ctx context.Context) (time.Time, bool, error) {
	v, ok, err := metadata.NewSQLiteRepository(s.db).Get(ctx, savedAtKey)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse %s: %w", savedAtKey, err)
	}
	return t, true, nil
}

// MemoryStore keeps the credential for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadCredential(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) SaveCredential(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) ClearCredential(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
