package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/outly-app/outly-go/internal/api"
	"github.com/outly-app/outly-go/internal/metrics"
	"github.com/outly-app/outly-go/internal/models"
	"github.com/outly-app/outly-go/internal/storage"
)

// OutingSync is the outing domain synchronizer.
type OutingSync struct {
	core   *collection[models.Outing]
	api    *api.OutingClient
	store  storage.OutingStore
	logger *slog.Logger
}

// NewOutingSync creates the outing synchronizer over the given remote client
// and cache store.
func NewOutingSync(client *api.OutingClient, store storage.OutingStore, logger *slog.Logger, recorder metrics.Recorder) *OutingSync {
	fetch := func(ctx context.Context) ([]models.Outing, error) {
		dtos, err := client.List(ctx)
		if err != nil {
			return nil, err
		}
		outings := make([]models.Outing, len(dtos))
		for i, dto := range dtos {
			outings[i] = outingFromDTO(dto)
		}
		return outings, nil
	}

	return &OutingSync{
		core:   newCollection("outings", logger, recorder, fetch, store.ReplaceOutings, store.ListOutings),
		api:    client,
		store:  store,
		logger: logger,
	}
}

// Prime loads the persisted outing cache into the snapshot without a
// network call.
func (s *OutingSync) Prime(ctx context.Context) error {
	return s.core.prime(ctx)
}

// Refresh fetches the remote collection and reconciles the cache. Failures
// are absorbed; the returned error is for callers that choose to surface it.
func (s *OutingSync) Refresh(ctx context.Context) error {
	return s.core.refresh(ctx)
}

// Outings returns a copy of the current snapshot.
func (s *OutingSync) Outings() []models.Outing {
	return s.core.snapshot()
}

// Outing returns one outing from the snapshot by id.
func (s *OutingSync) Outing(id string) (*models.Outing, bool) {
	for _, o := range s.core.snapshot() {
		if o.ID == id {
			return &o, true
		}
	}
	return nil, false
}

// State returns the synchronizer state.
func (s *OutingSync) State() State {
	return s.core.currentState()
}

// Subscribe registers an observer of the published collection.
func (s *OutingSync) Subscribe() (<-chan []models.Outing, func()) {
	return s.core.subscribe()
}

// Create creates an outing remotely, then appends the returned entity to the
// snapshot and the cache without a full refetch, so the UI reflects the
// write immediately. The next Refresh supersedes the appended row.
func (s *OutingSync) Create(ctx context.Context, params api.CreateOutingParams) (*models.Outing, error) {
	if params.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	s.core.metrics.RecordWrite("outings", "create")

	dto, err := s.api.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create outing: %w", err)
	}

	outing := outingFromDTO(*dto)
	if outing.ID == "" {
		// A remote that echoes no id still gets a usable local row.
		outing.ID = uuid.New().String()
	}
	if outing.CreatedAt.IsZero() {
		outing.CreatedAt = time.Now()
	}

	if err := s.store.InsertOuting(ctx, &outing); err != nil {
		s.logger.Error("failed to cache created outing", "outing_id", outing.ID, "error", err)
	}
	s.core.append(outing)
	return &outing, nil
}

// AddActivity logs an expense on the outing, then triggers a full refetch to
// pick up the server's recomputed debts rather than patching locally.
func (s *OutingSync) AddActivity(ctx context.Context, outingID string, params api.AddActivityParams) error {
	if len(params.Participants) == 0 {
		return fmt.Errorf("activity must have at least one participant")
	}
	if params.Amount < 0 {
		return fmt.Errorf("amount cannot be negative")
	}
	s.core.metrics.RecordWrite("outings", "add_activity")

	if err := s.api.AddActivity(ctx, outingID, params); err != nil {
		return fmt.Errorf("failed to add activity: %w", err)
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after add activity failed", "outing_id", outingID, "error", err)
	}
	return nil
}

// MarkDebtPaid settles a debt remotely, then refetches.
func (s *OutingSync) MarkDebtPaid(ctx context.Context, outingID, debtID string) error {
	s.core.metrics.RecordWrite("outings", "mark_debt_paid")

	if err := s.api.MarkDebtPaid(ctx, outingID, debtID); err != nil {
		return fmt.Errorf("failed to mark debt paid: %w", err)
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after debt settlement failed", "outing_id", outingID, "error", err)
	}
	return nil
}

// UpdateStatus moves the outing through its lifecycle, then refetches.
func (s *OutingSync) UpdateStatus(ctx context.Context, outingID string, status models.OutingStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid outing status: %q", status)
	}
	s.core.metrics.RecordWrite("outings", "update_status")

	if err := s.api.UpdateStatus(ctx, outingID, string(status)); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after status update failed", "outing_id", outingID, "error", err)
	}
	return nil
}

// Close stops the synchronizer's mailbox goroutine.
func (s *OutingSync) Close() {
	s.core.close()
}
