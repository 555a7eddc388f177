package sync

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/outly-app/outly-go/internal/api"
	"github.com/outly-app/outly-go/internal/metrics"
	"github.com/outly-app/outly-go/internal/storage"
)

// Hub owns the one shared synchronizer instance per domain. UI surfaces
// inject the Hub and subscribe to the synchronizers they observe; no
// surface constructs its own synchronizer or issues duplicate fetches.
type Hub struct {
	Session       *SessionSync
	Events        *EventSync
	Outings       *OutingSync
	Notifications *NotificationSync
}

// NewHub wires the domain clients and the shared store into one synchronizer
// per domain.
func NewHub(client *api.Client, store storage.Store, logger *slog.Logger, recorder metrics.Recorder) *Hub {
	return &Hub{
		Session:       NewSessionSync(api.NewIdentityClient(client), store, logger, recorder),
		Events:        NewEventSync(api.NewEventClient(client), store, logger, recorder),
		Outings:       NewOutingSync(api.NewOutingClient(client), store, logger, recorder),
		Notifications: NewNotificationSync(api.NewNotificationClient(client), store, logger, recorder),
	}
}

// Prime loads every domain's persisted cache into memory, network-free.
func (h *Hub) Prime(ctx context.Context) error {
	if err := h.Session.Prime(ctx); err != nil {
		return err
	}
	if err := h.Events.Prime(ctx); err != nil {
		return err
	}
	if err := h.Outings.Prime(ctx); err != nil {
		return err
	}
	return h.Notifications.Prime(ctx)
}

// RefreshAll fetches the three collection domains concurrently. Each fetch
// already absorbs its own failure; the returned error is the first one, for
// callers that want to surface anything at all.
func (h *Hub) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return h.Events.Refresh(ctx) })
	g.Go(func() error { return h.Outings.Refresh(ctx) })
	g.Go(func() error { return h.Notifications.Refresh(ctx) })
	return g.Wait()
}

// Close stops every synchronizer.
func (h *Hub) Close() {
	h.Session.Close()
	h.Events.Close()
	h.Outings.Close()
	h.Notifications.Close()
}
