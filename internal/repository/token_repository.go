package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists refresh tokens.  Only the SHA-256 hash of a
// token is ever stored; the raw value exists solely in the client's
// hands.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo constructs a TokenRepo with the given DB handle.
func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// StoreRefresh records a refresh token hash with its expiry.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	const q = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, userID, tokenHash, exp)
	return err
}

// ValidateRefresh returns the owning user id when a live token with
// this hash exists.  Revoked and expired tokens report sql.ErrNoRows,
// indistinguishable from a hash that was never stored.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	const q = `SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1`
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	if err := r.db.QueryRowContext(ctx, q, tokenHash).Scan(&userID, &expiresAt, &revokedAt); err != nil {
		return 0, err
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	return userID, nil
}

// RevokeByHash marks a single token as revoked.  Revoking an already
// revoked or unknown hash is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	const q = `UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, tokenHash)
	return err
}

// RevokeAllForUser revokes every live token of one user, ending all
// of their sessions at once.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	const q = `UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}
