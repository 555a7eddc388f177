// Package storage provides abstractions for the on-device cache.
package storage

import (
	"context"
	"errors"

	"github.com/outly-app/outly-go/internal/models"
)

// ErrNotFound is returned when a requested row does not exist in the cache.
var ErrNotFound = errors.New("not found")

// IdentityStore is the single-row session cache.
// Saving a session purges any existing row first; there are never two
// concurrent sessions.
type IdentityStore interface {
	// SaveIdentity replaces any existing session row with identity.
	SaveIdentity(ctx context.Context, identity *models.Identity) error

	// GetIdentity returns the cached session row, or ErrNotFound.
	GetIdentity(ctx context.Context) (*models.Identity, error)

	// DeleteIdentity hard-deletes the session row. Deleting an absent
	// row is not an error.
	DeleteIdentity(ctx context.Context) error
}

// EventStore caches the event collection.
type EventStore interface {
	// ReplaceEvents reconciles the cache to exactly events: rows are
	// upserted by id and rows whose ids are absent from events are
	// deleted, in one transaction.
	ReplaceEvents(ctx context.Context, events []models.Event) error

	// ListEvents returns the cached collection ordered by date.
	ListEvents(ctx context.Context) ([]models.Event, error)

	// GetEvent returns one cached event, or ErrNotFound.
	GetEvent(ctx context.Context, id string) (*models.Event, error)
}

// OutingStore caches the outing collection.
type OutingStore interface {
	// ReplaceOutings reconciles the cache to exactly outings, upsert
	// by id plus deletion of absent ids, in one transaction.
	ReplaceOutings(ctx context.Context, outings []models.Outing) error

	// InsertOuting appends a single outing, used for the optimistic
	// append after a successful create call.
	InsertOuting(ctx context.Context, outing *models.Outing) error

	// ListOutings returns the cached collection ordered by creation time.
	ListOutings(ctx context.Context) ([]models.Outing, error)

	// GetOuting returns one cached outing, or ErrNotFound.
	GetOuting(ctx context.Context, id string) (*models.Outing, error)
}

// NotificationStore caches the notification collection.
type NotificationStore interface {
	// ReplaceNotifications reconciles the cache to exactly
	// notifications, upsert by id plus deletion of absent ids.
	ReplaceNotifications(ctx context.Context, notifications []models.Notification) error

	// ListNotifications returns the cached collection, newest first.
	ListNotifications(ctx context.Context) ([]models.Notification, error)
}

// Store is the full on-device cache: every domain's table set inside one
// shared physical database.
type Store interface {
	IdentityStore
	EventStore
	OutingStore
	NotificationStore

	// Close releases the underlying database.
	Close() error
}
