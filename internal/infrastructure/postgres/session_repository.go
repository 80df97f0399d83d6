package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cofre/internal/domain/session"
	"cofre/internal/infrastructure/crypto"
)

const sessionSchema = `
	CREATE TABLE IF NOT EXISTS auth_sessions (
		profile    TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

var _ session.TokenStore = (*SessionRepository)(nil)

// SessionRepository stores one encrypted token per profile, letting several
// machines share a login.
type SessionRepository struct {
	db        *DB
	profile   string
	encryptor *crypto.Encryptor
}

func NewSessionRepository(db *DB, profile string, encryptor *crypto.Encryptor) *SessionRepository {
	return &SessionRepository{db: db, profile: profile, encryptor: encryptor}
}

func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sessionSchema); err != nil {
		return fmt.Errorf("failed to create auth_sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context) (string, time.Time, error) {
	query := `SELECT token, expires_at FROM auth_sessions WHERE profile = $1`

	var sealed string
	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx, query, r.profile).Scan(&sealed, &expiresAt)
	if err == sql.ErrNoRows {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to load session: %w", err)
	}

	token, err := r.encryptor.Decrypt(sealed)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decrypt session token: %w", err)
	}
	return token, expiresAt, nil
}

func (r *SessionRepository) Save(ctx context.Context, token string, expiresAt time.Time) error {
	sealed, err := r.encryptor.Encrypt(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt session token: %w", err)
	}

	query := `
		INSERT INTO auth_sessions (profile, token, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, r.profile, sealed, expiresAt.UTC()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	query := `DELETE FROM auth_sessions WHERE profile = $1`
	if _, err := r.db.ExecContext(ctx, query, r.profile); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
