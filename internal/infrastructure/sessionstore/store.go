// Package sessionstore persists the session token between runs.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cofre/internal/domain/session"
	"cofre/internal/infrastructure/crypto"
)

// CookieName is the name the token is stored under.
const CookieName = "auth_token"

// record is the on-disk shape. It carries the same attributes the browser
// cookie had so the token keeps its scope and lifetime.
type record struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	SameSite string    `json:"sameSite"`
}

var (
	_ session.TokenStore = (*FileStore)(nil)
	_ session.TokenStore = (*MemoryStore)(nil)
)

// FileStore keeps the encrypted token in a single file readable only by the
// owner.
type FileStore struct {
	mu        sync.Mutex
	path      string
	encryptor *crypto.Encryptor
	log       zerolog.Logger
}

func NewFileStore(path string, encryptor *crypto.Encryptor, log zerolog.Logger) *FileStore {
	return &FileStore{
		path:      path,
		encryptor: encryptor,
		log:       log.With().Str("component", "sessionstore").Logger(),
	}
}

// Load returns an empty token when no session was saved.
func (s *FileStore) Load(ctx context.Context) (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to parse session file: %w", err)
	}
	if rec.Name != CookieName {
		return "", time.Time{}, nil
	}

	token, err := s.encryptor.Decrypt(rec.Value)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decrypt session token: %w", err)
	}
	return token, rec.Expires, nil
}

func (s *FileStore) Save(ctx context.Context, token string, expiresAt time.Time) error {
	sealed, err := s.encryptor.Encrypt(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt session token: %w", err)
	}

	data, err := json.Marshal(record{
		Name:     CookieName,
		Value:    sealed,
		Path:     "/",
		Expires:  expiresAt.UTC(),
		Secure:   true,
		SameSite: "Strict",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	// write then rename so a crash never leaves a half-written token
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	s.log.Debug().Time("expires_at", expiresAt).Msg("session token saved")
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the token for the life of the process.
type MemoryStore struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.expiresAt, nil
}

func (s *MemoryStore) Save(ctx context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.expiresAt = token, expiresAt
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.expiresAt = "", time.Time{}
	return nil
}
