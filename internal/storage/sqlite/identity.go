package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/outly-app/outly-go/internal/models"
	"github.com/outly-app/outly-go/internal/storage"
)

// SaveIdentity replaces any existing session row with identity.
// The delete-then-insert runs in one transaction so readers never observe
// two sessions.
func (s *SQLiteStore) SaveIdentity(ctx context.Context, identity *models.Identity) error {
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM identity"); err != nil {
		return fmt.Errorf("failed to purge existing session: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO identity (id, user_id, name, email, phone, token, created_at) VALUES (1, ?, ?, ?, ?, ?, ?)",
		identity.UserID, identity.Name, identity.Email, identity.Phone, identity.Token, identity.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetIdentity returns the cached session row, or storage.ErrNotFound.
func (s *SQLiteStore) GetIdentity(ctx context.Context) (*models.Identity, error) {
	identity := &models.Identity{}
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, name, email, phone, token, created_at FROM identity WHERE id = 1",
	).Scan(&identity.UserID, &identity.Name, &identity.Email, &identity.Phone, &identity.Token, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	identity.CreatedAt = time.Unix(createdAt, 0).UTC()
	return identity, nil
}

// DeleteIdentity hard-deletes the session row.
func (s *SQLiteStore) DeleteIdentity(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM identity"); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SessionToken returns the cached token, or "" when no session exists.
// It satisfies the api.TokenSource interface.
func (s *SQLiteStore) SessionToken(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, "SELECT token FROM identity WHERE id = 1").Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return token, nil
}
