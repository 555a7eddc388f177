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

// EventSync is the event domain synchronizer. One shared instance serves
// every UI surface observing events.
type EventSync struct {
	core   *collection[models.Event]
	api    *api.EventClient
	logger *slog.Logger
}

// NewEventSync creates the event synchronizer over the given remote client
// and cache store.
func NewEventSync(client *api.EventClient, store storage.EventStore, logger *slog.Logger, recorder metrics.Recorder) *EventSync {
	fetch := func(ctx context.Context) ([]models.Event, error) {
		dtos, err := client.List(ctx)
		if err != nil {
			return nil, err
		}
		events := make([]models.Event, len(dtos))
		for i, dto := range dtos {
			events[i] = eventFromDTO(dto)
		}
		return events, nil
	}

	return &EventSync{
		core:   newCollection("events", logger, recorder, fetch, store.ReplaceEvents, store.ListEvents),
		api:    client,
		logger: logger,
	}
}

// Prime loads the persisted event cache into the snapshot without a network
// call.
func (s *EventSync) Prime(ctx context.Context) error {
	return s.core.prime(ctx)
}

// Refresh fetches the remote collection and reconciles the cache. Failures
// are absorbed (logged, previous snapshot kept); the returned error is for
// callers that choose to surface it.
func (s *EventSync) Refresh(ctx context.Context) error {
	return s.core.refresh(ctx)
}

// Events returns a copy of the current snapshot.
func (s *EventSync) Events() []models.Event {
	return s.core.snapshot()
}

// Event returns one event from the snapshot by id.
func (s *EventSync) Event(id string) (*models.Event, bool) {
	for _, e := range s.core.snapshot() {
		if e.ID == id {
			return &e, true
		}
	}
	return nil, false
}

// State returns the synchronizer state.
func (s *EventSync) State() State {
	return s.core.currentState()
}

// Subscribe registers an observer of the published collection.
func (s *EventSync) Subscribe() (<-chan []models.Event, func()) {
	return s.core.subscribe()
}

// PurchaseTickets buys qty tickets of the named tier, then refetches the
// collection to reconcile sold counts instead of patching locally.
// Write failures are returned to the caller.
func (s *EventSync) PurchaseTickets(ctx context.Context, eventID, ticketType string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	s.core.metrics.RecordWrite("events", "purchase_tickets")
	if err := s.api.PurchaseTickets(ctx, eventID, ticketType, qty); err != nil {
		return fmt.Errorf("failed to purchase tickets: %w", err)
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after purchase failed", "event_id", eventID, "error", err)
	}
	return nil
}

// Close stops the synchronizer's mailbox goroutine.
func (s *EventSync) Close() {
	s.core.close()
}
