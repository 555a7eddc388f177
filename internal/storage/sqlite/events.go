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

// ReplaceEvents reconciles the events tables to exactly the fetched
// collection: upsert by id, then delete rows whose ids are absent.
// Parent rows keep their identity across fetches; child rows (amenities,
// requirements, ticket types) are rewritten per event.
func (s *SQLiteStore) ReplaceEvents(ctx context.Context, events []models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(events))
	for i := range events {
		event := &events[i]
		ids = append(ids, event.ID)
		if err := upsertEvent(ctx, tx, event); err != nil {
			return err
		}
	}

	if err := deleteAbsent(tx, "events", ids); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func upsertEvent(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO events (id, title, description, type, location_name, location_address,
			location_coordinates, date, organizer_name, organizer_phone, organizer_email,
			capacity, sold, weather, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			type = excluded.type,
			location_name = excluded.location_name,
			location_address = excluded.location_address,
			location_coordinates = excluded.location_coordinates,
			date = excluded.date,
			organizer_name = excluded.organizer_name,
			organizer_phone = excluded.organizer_phone,
			organizer_email = excluded.organizer_email,
			capacity = excluded.capacity,
			sold = excluded.sold,
			weather = excluded.weather,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		event.ID, event.Title, event.Description, string(event.Type),
		event.Location.Name, event.Location.Address, event.Location.Coordinates,
		event.Date.Unix(), event.Organizer.Name, event.Organizer.Phone, event.Organizer.Email,
		event.Capacity, event.Sold, event.Weather, event.CreatedAt.Unix(), event.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert event: %w", err)
	}

	// Child rows are rewritten wholesale; a later DTO never patches them.
	for _, table := range []string{"event_amenities", "event_requirements", "event_ticket_types"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE event_id = ?", event.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, value := range event.Amenities {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO event_amenities (event_id, position, value) VALUES (?, ?, ?)",
			event.ID, i, value,
		); err != nil {
			return fmt.Errorf("failed to insert amenity: %w", err)
		}
	}

	for i, value := range event.Requirements {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO event_requirements (event_id, position, value) VALUES (?, ?, ?)",
			event.ID, i, value,
		); err != nil {
			return fmt.Errorf("failed to insert requirement: %w", err)
		}
	}

	for _, tier := range event.TicketTypes {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO event_ticket_types (event_id, name, price, total_quantity, sold_quantity) VALUES (?, ?, ?, ?, ?)",
			event.ID, tier.Name, tier.Price, tier.TotalQuantity, tier.SoldQuantity,
		); err != nil {
			return fmt.Errorf("failed to insert ticket type: %w", err)
		}
	}

	return nil
}

// ListEvents returns the cached collection ordered by date.
func (s *SQLiteStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, type, location_name, location_address,
			location_coordinates, date, organizer_name, organizer_phone, organizer_email,
			capacity, sold, weather, created_at, updated_at
		FROM events ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	for i := range events {
		if err := s.loadEventChildren(ctx, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// GetEvent returns one cached event, or storage.ErrNotFound.
func (s *SQLiteStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, type, location_name, location_address,
			location_coordinates, date, organizer_name, organizer_phone, organizer_email,
			capacity, sold, weather, created_at, updated_at
		FROM events WHERE id = ?`, id)

	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadEventChildren(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*models.Event, error) {
	event := &models.Event{}
	var eventType string
	var date, createdAt, updatedAt int64
	err := row.Scan(
		&event.ID, &event.Title, &event.Description, &eventType,
		&event.Location.Name, &event.Location.Address, &event.Location.Coordinates,
		&date, &event.Organizer.Name, &event.Organizer.Phone, &event.Organizer.Email,
		&event.Capacity, &event.Sold, &event.Weather, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	event.Type = models.EventType(eventType)
	event.Date = time.Unix(date, 0).UTC()
	event.CreatedAt = time.Unix(createdAt, 0).UTC()
	event.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return event, nil
}

func (s *SQLiteStore) loadEventChildren(ctx context.Context, event *models.Event) error {
	var err error
	event.Amenities, err = s.listValues(ctx, "event_amenities", event.ID)
	if err != nil {
		return err
	}
	event.Requirements, err = s.listValues(ctx, "event_requirements", event.ID)
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, price, total_quantity, sold_quantity FROM event_ticket_types WHERE event_id = ? ORDER BY name",
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get ticket types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tier models.TicketType
		if err := rows.Scan(&tier.Name, &tier.Price, &tier.TotalQuantity, &tier.SoldQuantity); err != nil {
			return fmt.Errorf("failed to scan ticket type: %w", err)
		}
		event.TicketTypes = append(event.TicketTypes, tier)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate ticket types: %w", err)
	}
	return nil
}

// listValues reads an ordered value list from a (parent_id, position, value) table.
func (s *SQLiteStore) listValues(ctx context.Context, table, eventID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT value FROM "+table+" WHERE event_id = ? ORDER BY position", eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", table, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return values, nil
}
