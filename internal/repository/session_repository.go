package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/farm-biosecurity/internal/model"
)

// SessionRepo persists login sessions by the SHA‑256 hash of their token.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Store inserts a session row.
func (r *SessionRepo) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token_hash, expires_at, created_at) VALUES (?,?,?,?)",
		userID, tokenHash, exp.UTC(), time.Now().UTC())
	return err
}

// Validate loads the session stored under tokenHash.  Unknown, revoked
// and expired sessions all yield ErrSessionInvalid.
func (r *SessionRepo) Validate(ctx context.Context, tokenHash string) (*model.Session, error) {
	var (
		s         model.Session
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, revoked_at, created_at FROM sessions WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &revokedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if revokedAt.Valid || time.Now().UTC().After(s.ExpiresAt) {
		return nil, ErrSessionInvalid
	}
	return &s, nil
}

// Revoke marks a session as revoked.
func (r *SessionRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=? WHERE token_hash=? AND revoked_at IS NULL",
		time.Now().UTC(), tokenHash)
	return err
}
