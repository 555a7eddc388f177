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

// ReplaceOutings reconciles the outings tables to exactly the fetched
// collection: upsert by id, then delete rows whose ids are absent.
func (s *SQLiteStore) ReplaceOutings(ctx context.Context, outings []models.Outing) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(outings))
	for i := range outings {
		outing := &outings[i]
		ids = append(ids, outing.ID)
		if err := upsertOuting(ctx, tx, outing); err != nil {
			return err
		}
	}

	if err := deleteAbsent(tx, "outings", ids); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// InsertOuting appends a single outing row without touching the rest of the
// collection. Used for the optimistic append after a successful create call;
// the next full fetch supersedes it.
func (s *SQLiteStore) InsertOuting(ctx context.Context, outing *models.Outing) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertOuting(ctx, tx, outing); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func upsertOuting(ctx context.Context, tx *sql.Tx, outing *models.Outing) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO outings (id, title, description, owner_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			owner_id = excluded.owner_id,
			status = excluded.status,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		outing.ID, outing.Title, outing.Description, outing.OwnerID,
		string(outing.Status), outing.CreatedAt.Unix(), outing.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert outing: %w", err)
	}

	// Child rows are rewritten wholesale per outing.
	for _, stmt := range []string{
		"DELETE FROM outing_participants WHERE outing_id = ?",
		"DELETE FROM outing_events WHERE outing_id = ?",
		"DELETE FROM activities WHERE outing_id = ?",
		"DELETE FROM debts WHERE outing_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, outing.ID); err != nil {
			return fmt.Errorf("failed to clear outing children: %w", err)
		}
	}

	for _, userID := range outing.Participants {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO outing_participants (outing_id, user_id) VALUES (?, ?)",
			outing.ID, userID,
		); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for _, eventID := range outing.EventIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO outing_events (outing_id, event_id) VALUES (?, ?)",
			outing.ID, eventID,
		); err != nil {
			return fmt.Errorf("failed to insert outing event: %w", err)
		}
	}

	for i := range outing.Activities {
		if err := insertActivity(ctx, tx, outing.ID, &outing.Activities[i]); err != nil {
			return err
		}
	}

	for _, debt := range outing.Debts {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO debts (id, outing_id, from_user_id, to_user_id, amount, status) VALUES (?, ?, ?, ?, ?, ?)",
			debt.ID, outing.ID, debt.FromUserID, debt.ToUserID, debt.Amount, string(debt.Status),
		); err != nil {
			return fmt.Errorf("failed to insert debt: %w", err)
		}
	}

	return nil
}

func insertActivity(ctx context.Context, tx *sql.Tx, outingID string, activity *models.Activity) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO activities (id, outing_id, title, description, amount, payer_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.ID, outingID, activity.Title, activity.Description,
		activity.Amount, activity.PayerID, activity.CreatedAt.Unix(), activity.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	for _, userID := range activity.Participants {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO activity_participants (activity_id, user_id) VALUES (?, ?)",
			activity.ID, userID,
		); err != nil {
			return fmt.Errorf("failed to insert activity participant: %w", err)
		}
	}

	for i, ref := range activity.References {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO activity_references (activity_id, position, value) VALUES (?, ?, ?)",
			activity.ID, i, ref,
		); err != nil {
			return fmt.Errorf("failed to insert activity reference: %w", err)
		}
	}

	return nil
}

// ListOutings returns the cached collection ordered by creation time.
func (s *SQLiteStore) ListOutings(ctx context.Context) ([]models.Outing, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, description, owner_id, status, created_at, updated_at FROM outings ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to list outings: %w", err)
	}
	defer rows.Close()

	var outings []models.Outing
	for rows.Next() {
		outing, err := scanOuting(rows)
		if err != nil {
			return nil, err
		}
		outings = append(outings, *outing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outings: %w", err)
	}

	for i := range outings {
		if err := s.loadOutingChildren(ctx, &outings[i]); err != nil {
			return nil, err
		}
	}
	return outings, nil
}

// GetOuting returns one cached outing, or storage.ErrNotFound.
func (s *SQLiteStore) GetOuting(ctx context.Context, id string) (*models.Outing, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, description, owner_id, status, created_at, updated_at FROM outings WHERE id = ?", id)

	outing, err := scanOuting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadOutingChildren(ctx, outing); err != nil {
		return nil, err
	}
	return outing, nil
}

func scanOuting(row scanner) (*models.Outing, error) {
	outing := &models.Outing{}
	var status string
	var createdAt, updatedAt int64
	err := row.Scan(&outing.ID, &outing.Title, &outing.Description, &outing.OwnerID,
		&status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan outing: %w", err)
	}
	outing.Status = models.OutingStatus(status)
	outing.CreatedAt = time.Unix(createdAt, 0).UTC()
	outing.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return outing, nil
}

func (s *SQLiteStore) loadOutingChildren(ctx context.Context, outing *models.Outing) error {
	participants, err := s.listIDs(ctx,
		"SELECT user_id FROM outing_participants WHERE outing_id = ? ORDER BY user_id", outing.ID)
	if err != nil {
		return err
	}
	outing.Participants = participants

	eventIDs, err := s.listIDs(ctx,
		"SELECT event_id FROM outing_events WHERE outing_id = ? ORDER BY event_id", outing.ID)
	if err != nil {
		return err
	}
	outing.EventIDs = eventIDs

	if err := s.loadActivities(ctx, outing); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, from_user_id, to_user_id, amount, status FROM debts WHERE outing_id = ? ORDER BY id", outing.ID)
	if err != nil {
		return fmt.Errorf("failed to get debts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var debt models.Debt
		var status string
		if err := rows.Scan(&debt.ID, &debt.FromUserID, &debt.ToUserID, &debt.Amount, &status); err != nil {
			return fmt.Errorf("failed to scan debt: %w", err)
		}
		debt.Status = models.DebtStatus(status)
		outing.Debts = append(outing.Debts, debt)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate debts: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadActivities(ctx context.Context, outing *models.Outing) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, amount, payer_id, created_at, updated_at
		FROM activities WHERE outing_id = ? ORDER BY created_at`, outing.ID)
	if err != nil {
		return fmt.Errorf("failed to get activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var activity models.Activity
		var createdAt, updatedAt int64
		if err := rows.Scan(&activity.ID, &activity.Title, &activity.Description,
			&activity.Amount, &activity.PayerID, &createdAt, &updatedAt); err != nil {
			return fmt.Errorf("failed to scan activity: %w", err)
		}
		activity.CreatedAt = time.Unix(createdAt, 0).UTC()
		activity.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		outing.Activities = append(outing.Activities, activity)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate activities: %w", err)
	}

	for i := range outing.Activities {
		activity := &outing.Activities[i]
		participants, err := s.listIDs(ctx,
			"SELECT user_id FROM activity_participants WHERE activity_id = ? ORDER BY user_id", activity.ID)
		if err != nil {
			return err
		}
		activity.Participants = participants

		references, err := s.listIDs(ctx,
			"SELECT value FROM activity_references WHERE activity_id = ? ORDER BY position", activity.ID)
		if err != nil {
			return err
		}
		activity.References = references
	}
	return nil
}

// listIDs reads a single string column for the given parent id.
func (s *SQLiteStore) listIDs(ctx context.Context, query, parentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query child rows: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan child row: %w", err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate child rows: %w", err)
	}
	return values, nil
}
