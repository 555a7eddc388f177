package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/outly-app/outly-go/internal/api"
	"github.com/outly-app/outly-go/internal/models"
	"github.com/outly-app/outly-go/internal/storage/sqlite"
)

type fixedTokens string

func (f fixedTokens) SessionToken(ctx context.Context) (string, error) {
	return string(f), nil
}

func newDomainFixture(t *testing.T, handler http.Handler) (*api.Client, *sqlite.SQLiteStore) {
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
	return client, store
}

func TestEventSyncReconcilesRemovals(t *testing.T) {
	var remote atomic.Value
	remote.Store([]api.EventDTO{
		{ID: "e1", Title: "Fest", Type: "festival"},
		{ID: "e2", Title: "Match", Type: "sports"},
	})
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(remote.Load())
	})

	client, store := newDomainFixture(t, mux)
	events := NewEventSync(api.NewEventClient(client), store, discardLogger(), &countingRecorder{})
	defer events.Close()
	ctx := context.Background()

	if err := events.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := len(events.Events()); got != 2 {
		t.Fatalf("got %d events, want 2", got)
	}
	if event, ok := events.Event("e2"); !ok || event.Type != models.EventTypeSports {
		t.Errorf("Event(e2) = %+v/%v, want sports event", event, ok)
	}

	// e1 vanished remotely; the next fetch removes it locally too.
	remote.Store([]api.EventDTO{{ID: "e2", Title: "Match", Type: "sports"}})
	if err := events.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := events.Events(); len(got) != 1 || got[0].ID != "e2" {
		t.Errorf("snapshot = %+v, want exactly [e2]", got)
	}
	if cached, err := store.ListEvents(ctx); err != nil || len(cached) != 1 {
		t.Errorf("store holds %d events (%v), want 1", len(cached), err)
	}
}

func TestEventSyncPrimeWarmStart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.EventDTO{{ID: "e1", Title: "Fest", Type: "festival"}})
	})

	client, store := newDomainFixture(t, mux)
	first := NewEventSync(api.NewEventClient(client), store, discardLogger(), &countingRecorder{})
	ctx := context.Background()
	if err := first.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	first.Close()

	// Cold start over the same cache file: data is visible before any fetch.
	restarted := NewEventSync(api.NewEventClient(client), store, discardLogger(), &countingRecorder{})
	defer restarted.Close()
	if err := restarted.Prime(ctx); err != nil {
		t.Fatalf("Prime failed: %v", err)
	}
	if got := restarted.Events(); len(got) != 1 || got[0].Title != "Fest" {
		t.Errorf("primed snapshot = %+v, want cached [Fest]", got)
	}
	if restarted.State() != StatePopulated {
		t.Errorf("state = %s, want populated", restarted.State())
	}
}

func TestEventSyncUnknownTypeDefaults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.EventDTO{{ID: "e1", Title: "Mystery", Type: "rave"}})
	})

	client, store := newDomainFixture(t, mux)
	events := NewEventSync(api.NewEventClient(client), store, discardLogger(), &countingRecorder{})
	defer events.Close()

	if err := events.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := events.Events(); len(got) != 1 || got[0].Type != models.EventTypeOther {
		t.Errorf("snapshot = %+v, want type other", got)
	}
}

func TestOutingSyncCreateAppendsWithoutRefetch(t *testing.T) {
	var listCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/outings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var params api.CreateOutingParams
			json.NewDecoder(r.Body).Decode(&params)
			json.NewEncoder(w).Encode(api.OutingDTO{
				ID:           "o-new",
				Title:        params.Title,
				OwnerID:      "u1",
				Participants: params.Participants,
				Status:       "draft",
			})
			return
		}
		listCalls.Add(1)
		json.NewEncoder(w).Encode([]api.OutingDTO{})
	})

	client, store := newDomainFixture(t, mux)
	outings := NewOutingSync(api.NewOutingClient(client), store, discardLogger(), &countingRecorder{})
	defer outings.Close()
	ctx := context.Background()

	if err := outings.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	fetchesBefore := listCalls.Load()

	created, err := outings.Create(ctx, api.CreateOutingParams{
		Title:        "Ski weekend",
		Participants: []string{"u1", "u2"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != "o-new" || created.Status != models.OutingStatusDraft {
		t.Errorf("created = %+v, want o-new draft", created)
	}

	// The write appends locally instead of refetching the collection.
	if listCalls.Load() != fetchesBefore {
		t.Errorf("create triggered %d extra list fetches, want 0", listCalls.Load()-fetchesBefore)
	}
	if got := outings.Outings(); len(got) != 1 || got[0].ID != "o-new" {
		t.Errorf("snapshot = %+v, want [o-new]", got)
	}
	if cached, err := store.ListOutings(ctx); err != nil || len(cached) != 1 {
		t.Errorf("store holds %d outings (%v), want 1", len(cached), err)
	}
}

func TestOutingSyncCreateRequiresTitle(t *testing.T) {
	client, store := newDomainFixture(t, http.NewServeMux())
	outings := NewOutingSync(api.NewOutingClient(client), store, discardLogger(), &countingRecorder{})
	defer outings.Close()

	if _, err := outings.Create(context.Background(), api.CreateOutingParams{}); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestOutingSyncAddActivityRefetchesDebts(t *testing.T) {
	var hasActivity atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/outings", func(w http.ResponseWriter, r *http.Request) {
		outing := api.OutingDTO{
			ID:           "o1",
			Title:        "Dinner club",
			OwnerID:      "alice",
			Participants: []string{"alice", "bob"},
			Status:       "in_progress",
		}
		if hasActivity.Load() {
			outing.Activities = []api.ActivityDTO{
				{ID: "a1", Title: "Dinner", Amount: 90, PayerID: "alice", Participants: []string{"alice", "bob"}},
			}
			outing.Debts = []api.DebtDTO{
				{ID: "d1", FromUserID: "bob", ToUserID: "alice", Amount: 45, Status: "pending"},
			}
		}
		json.NewEncoder(w).Encode([]api.OutingDTO{outing})
	})
	mux.HandleFunc("/outings/o1/activities", func(w http.ResponseWriter, r *http.Request) {
		hasActivity.Store(true)
	})

	client, store := newDomainFixture(t, mux)
	outings := NewOutingSync(api.NewOutingClient(client), store, discardLogger(), &countingRecorder{})
	defer outings.Close()
	ctx := context.Background()

	if err := outings.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	err := outings.AddActivity(ctx, "o1", api.AddActivityParams{
		Title:        "Dinner",
		Amount:       90,
		PayerID:      "alice",
		Participants: []string{"alice", "bob"},
	})
	if err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}

	// The snapshot now carries the server's recomputed debts.
	outing, ok := outings.Outing("o1")
	if !ok {
		t.Fatal("outing o1 missing from snapshot")
	}
	if len(outing.Activities) != 1 {
		t.Errorf("got %d activities, want 1", len(outing.Activities))
	}
	if len(outing.Debts) != 1 || outing.Debts[0].Amount != 45 {
		t.Errorf("debts = %+v, want bob owes alice 45", outing.Debts)
	}
}

func TestOutingSyncAddActivityValidation(t *testing.T) {
	client, store := newDomainFixture(t, http.NewServeMux())
	outings := NewOutingSync(api.NewOutingClient(client), store, discardLogger(), &countingRecorder{})
	defer outings.Close()
	ctx := context.Background()

	tests := []struct {
		name   string
		params api.AddActivityParams
	}{
		{
			name:   "no participants",
			params: api.AddActivityParams{Title: "Dinner", Amount: 90, PayerID: "alice"},
		},
		{
			name:   "negative amount",
			params: api.AddActivityParams{Title: "Dinner", Amount: -1, PayerID: "alice", Participants: []string{"alice"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := outings.AddActivity(ctx, "o1", tt.params); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOutingSyncUpdateStatusRejectsUnknown(t *testing.T) {
	client, store := newDomainFixture(t, http.NewServeMux())
	outings := NewOutingSync(api.NewOutingClient(client), store, discardLogger(), &countingRecorder{})
	defer outings.Close()

	if err := outings.UpdateStatus(context.Background(), "o1", models.OutingStatus("archived")); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestNotificationSyncUnreadAndMarkAllRead(t *testing.T) {
	var allRead atomic.Bool
	now := time.Now().UTC().Truncate(time.Second)
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		var readAt *time.Time
		if allRead.Load() {
			readAt = &now
		}
		json.NewEncoder(w).Encode([]api.NotificationDTO{
			{ID: "n1", Type: "debt_reminder", Title: "You owe Alice", SentAt: now, ReadAt: readAt},
			{ID: "n2", Type: "outing_invite", Title: "Join us", SentAt: now.Add(-time.Hour), ReadAt: readAt},
		})
	})
	mux.HandleFunc("/notifications/read-all", func(w http.ResponseWriter, r *http.Request) {
		allRead.Store(true)
	})

	client, store := newDomainFixture(t, mux)
	notifications := NewNotificationSync(api.NewNotificationClient(client), store, discardLogger(), &countingRecorder{})
	defer notifications.Close()
	ctx := context.Background()

	if err := notifications.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := notifications.Unread(); got != 2 {
		t.Errorf("Unread() = %d, want 2", got)
	}

	if err := notifications.MarkAllRead(ctx); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if got := notifications.Unread(); got != 0 {
		t.Errorf("Unread() after mark all = %d, want 0", got)
	}
}
