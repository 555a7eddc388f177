package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/outly-app/outly-go/internal/models"
)

// ReplaceNotifications reconciles the notifications table to exactly the
// fetched collection: upsert by id, then delete rows whose ids are absent.
func (s *SQLiteStore) ReplaceNotifications(ctx context.Context, notifications []models.Notification) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)

		var readAt sql.NullInt64
		if n.ReadAt != nil {
			readAt = sql.NullInt64{Int64: n.ReadAt.Unix(), Valid: true}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (id, type, title, message, reference_id, sent_at, read_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				type = excluded.type,
				title = excluded.title,
				message = excluded.message,
				reference_id = excluded.reference_id,
				sent_at = excluded.sent_at,
				read_at = excluded.read_at`,
			n.ID, string(n.Type), n.Title, n.Message, n.ReferenceID, n.SentAt.Unix(), readAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert notification: %w", err)
		}
	}

	if err := deleteAbsent(tx, "notifications", ids); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListNotifications returns the cached collection, newest first.
func (s *SQLiteStore) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, title, message, reference_id, sent_at, read_at FROM notifications ORDER BY sent_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var notifType string
		var sentAt int64
		var readAt sql.NullInt64
		if err := rows.Scan(&n.ID, &notifType, &n.Title, &n.Message, &n.ReferenceID, &sentAt, &readAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Type = models.NotificationType(notifType)
		n.SentAt = time.Unix(sentAt, 0).UTC()
		if readAt.Valid {
			t := time.Unix(readAt.Int64, 0).UTC()
			n.ReadAt = &t
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}
