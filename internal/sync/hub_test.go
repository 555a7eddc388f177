package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/outly-app/outly-go/internal/api"
	"github.com/outly-app/outly-go/internal/metrics"
	"github.com/outly-app/outly-go/internal/storage/sqlite"
)

func newHub(t *testing.T, handler http.Handler) *Hub {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := sqlite.New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	client := api.NewClient(api.Options{
		BaseURL: server.URL,
		Tokens:  fixedTokens("tok"),
		Logger:  discardLogger(),
	})
	hub := NewHub(client, store, discardLogger(), metrics.Noop{})
	t.Cleanup(hub.Close)
	return hub
}

func TestHubRefreshAll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.EventDTO{{ID: "e1", Title: "Fest", Type: "festival"}})
	})
	mux.HandleFunc("/outings", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.OutingDTO{{ID: "o1", Title: "Trip", Status: "draft"}})
	})
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.NotificationDTO{{ID: "n1", Type: "event_update"}})
	})

	hub := newHub(t, mux)
	if err := hub.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	if got := len(hub.Events.Events()); got != 1 {
		t.Errorf("events = %d, want 1", got)
	}
	if got := len(hub.Outings.Outings()); got != 1 {
		t.Errorf("outings = %d, want 1", got)
	}
	if got := len(hub.Notifications.Notifications()); got != 1 {
		t.Errorf("notifications = %d, want 1", got)
	}
}

func TestHubRefreshAllPartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "event service down"}`))
	})
	mux.HandleFunc("/outings", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.OutingDTO{{ID: "o1", Title: "Trip", Status: "draft"}})
	})
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.NotificationDTO{})
	})

	hub := newHub(t, mux)
	err := hub.RefreshAll(context.Background())
	if !api.IsKind(err, api.KindServer) {
		t.Errorf("got %v, want the event domain's KindServer", err)
	}

	// One failing domain does not hold the others back.
	if hub.Events.State() != StateFailed {
		t.Errorf("events state = %s, want failed", hub.Events.State())
	}
	if got := len(hub.Outings.Outings()); got != 1 {
		t.Errorf("outings = %d, want 1 despite event failure", got)
	}
	if hub.Notifications.State() != StatePopulated {
		t.Errorf("notifications state = %s, want populated", hub.Notifications.State())
	}
}
