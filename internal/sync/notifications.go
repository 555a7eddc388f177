package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/outly-app/outly-go/internal/api"
	"github.com/outly-app/outly-go/internal/metrics"
	"github.com/outly-app/outly-go/internal/models"
	"github.com/outly-app/outly-go/internal/storage"
)

// NotificationSync is the notification domain synchronizer.
type NotificationSync struct {
	core   *collection[models.Notification]
	api    *api.NotificationClient
	logger *slog.Logger
}

// NewNotificationSync creates the notification synchronizer over the given
// remote client and cache store.
func NewNotificationSync(client *api.NotificationClient, store storage.NotificationStore, logger *slog.Logger, recorder metrics.Recorder) *NotificationSync {
	fetch := func(ctx context.Context) ([]models.Notification, error) {
		dtos, err := client.List(ctx)
		if err != nil {
			return nil, err
		}
		notifications := make([]models.Notification, len(dtos))
		for i, dto := range dtos {
			notifications[i] = notificationFromDTO(dto)
		}
		return notifications, nil
	}

	return &NotificationSync{
		core:   newCollection("notifications", logger, recorder, fetch, store.ReplaceNotifications, store.ListNotifications),
		api:    client,
		logger: logger,
	}
}

// Prime loads the persisted notification cache into the snapshot without a
// network call.
func (s *NotificationSync) Prime(ctx context.Context) error {
	return s.core.prime(ctx)
}

// Refresh fetches the remote collection and reconciles the cache. Failures
// are absorbed; the returned error is for callers that choose to surface it.
func (s *NotificationSync) Refresh(ctx context.Context) error {
	return s.core.refresh(ctx)
}

// Notifications returns a copy of the current snapshot.
func (s *NotificationSync) Notifications() []models.Notification {
	return s.core.snapshot()
}

// Unread counts the notifications without a read marker.
func (s *NotificationSync) Unread() int {
	var unread int
	for _, n := range s.core.snapshot() {
		if !n.Read() {
			unread++
		}
	}
	return unread
}

// State returns the synchronizer state.
func (s *NotificationSync) State() State {
	return s.core.currentState()
}

// Subscribe registers an observer of the published collection.
func (s *NotificationSync) Subscribe() (<-chan []models.Notification, func()) {
	return s.core.subscribe()
}

// MarkRead marks one notification read remotely, then refetches.
func (s *NotificationSync) MarkRead(ctx context.Context, id string) error {
	s.core.metrics.RecordWrite("notifications", "mark_read")

	if err := s.api.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after mark read failed", "notification_id", id, "error", err)
	}
	return nil
}

// MarkAllRead marks every notification read remotely, then refetches.
func (s *NotificationSync) MarkAllRead(ctx context.Context) error {
	s.core.metrics.RecordWrite("notifications", "mark_all_read")

	if err := s.api.MarkAllRead(ctx); err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after mark all read failed", "error", err)
	}
	return nil
}

// Close stops the synchronizer's mailbox goroutine.
func (s *NotificationSync) Close() {
	s.core.close()
}
