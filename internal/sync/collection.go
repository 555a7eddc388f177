package sync

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/outly-app/outly-go/internal/api"
	"github.com/outly-app/outly-go/internal/metrics"
)

// State is the synchronizer lifecycle: Idle until the first fetch, Fetching
// while one is in flight, then Populated or Failed. Failed keeps the last
// Populated snapshot intact: stale-but-present beats empty.
type State int

const (
	StateIdle State = iota
	StateFetching
	StatePopulated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StatePopulated:
		return "populated"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// collection is the shared synchronizer core for a domain's cached
// collection. Domain synchronizers wrap it with their write operations.
//
// Every snapshot mutation runs on the mailbox goroutine. Completions carry
// the request id they were issued with; a completion whose id is no longer
// the latest is discarded, so an out-of-order earlier-issued response can
// never overwrite a newer one.
type collection[T any] struct {
	domain  string
	mbox    *mailbox
	logger  *slog.Logger
	metrics metrics.Recorder

	fetchRemote func(ctx context.Context) ([]T, error)
	persist     func(ctx context.Context, items []T) error
	loadLocal   func(ctx context.Context) ([]T, error)

	seq atomic.Uint64

	// Owned by the mailbox goroutine.
	state State
	items []T

	subs *broadcaster[[]T]
}

func newCollection[T any](
	domain string,
	logger *slog.Logger,
	recorder metrics.Recorder,
	fetchRemote func(ctx context.Context) ([]T, error),
	persist func(ctx context.Context, items []T) error,
	loadLocal func(ctx context.Context) ([]T, error),
) *collection[T] {
	return &collection[T]{
		domain:      domain,
		mbox:        newMailbox(),
		logger:      logger.With("domain", domain),
		metrics:     recorder,
		fetchRemote: fetchRemote,
		persist:     persist,
		loadLocal:   loadLocal,
		subs:        newBroadcaster[[]T](),
	}
}

// prime loads the persisted cache into the snapshot without touching the
// network, so the UI has data before the first fetch completes. An empty
// cache leaves the state Idle.
func (c *collection[T]) prime(ctx context.Context) error {
	items, err := c.loadLocal(ctx)
	if err != nil {
		return err
	}
	c.mbox.doWait(func() {
		if c.state != StateIdle || len(items) == 0 {
			return
		}
		c.items = items
		c.state = StatePopulated
		c.subs.publish(items)
	})
	return nil
}

// refresh fetches the remote collection, reconciles the store, and
// republishes. The returned error exists for callers that want it; fetch
// failures are absorbed here: logged, counted, previous snapshot kept,
// subscribers not re-notified.
func (c *collection[T]) refresh(ctx context.Context) error {
	reqID := c.seq.Add(1)
	c.mbox.do(func() { c.state = StateFetching })

	start := time.Now()
	items, err := c.fetchRemote(ctx)
	c.metrics.RecordFetchLatency(c.domain, time.Since(start))

	var applyErr error
	c.mbox.doWait(func() {
		if reqID != c.seq.Load() {
			// A newer fetch was issued after this one; last issued wins.
			c.metrics.RecordStaleDiscard(c.domain)
			c.logger.Debug("discarded superseded fetch completion", "request_id", reqID)
			return
		}

		if err != nil {
			c.state = StateFailed
			c.metrics.RecordFetchFailure(c.domain, api.KindOf(err).String())
			c.logger.Warn("fetch failed, keeping previous snapshot",
				"error", err,
				"cached", len(c.items),
			)
			applyErr = err
			return
		}

		if perr := c.persist(ctx, items); perr != nil {
			c.state = StateFailed
			c.metrics.RecordFetchFailure(c.domain, "persist")
			c.logger.Error("failed to persist fetched collection", "error", perr)
			applyErr = perr
			return
		}

		c.items = items
		c.state = StatePopulated
		c.metrics.RecordFetchSuccess(c.domain)
		c.logger.Debug("collection reconciled", "count", len(items))
		c.subs.publish(items)
	})
	return applyErr
}

// append adds one entity to the snapshot and publishes, used for the
// optimistic local append after a successful create call. The caller has
// already persisted the row.
func (c *collection[T]) append(item T) {
	c.mbox.doWait(func() {
		next := make([]T, len(c.items), len(c.items)+1)
		copy(next, c.items)
		next = append(next, item)
		c.items = next
		c.state = StatePopulated
		c.subs.publish(next)
	})
}

// snapshot returns a copy of the current collection.
func (c *collection[T]) snapshot() []T {
	var out []T
	c.mbox.doWait(func() {
		out = make([]T, len(c.items))
		copy(out, c.items)
	})
	return out
}

// currentState returns the synchronizer state.
func (c *collection[T]) currentState() State {
	var s State
	c.mbox.doWait(func() { s = c.state })
	return s
}

// subscribe registers an observer of the published collection. The first
// snapshot arrives on the next publish; cancel removes the subscription.
func (c *collection[T]) subscribe() (<-chan []T, func()) {
	return c.subs.subscribe()
}

// close stops the mailbox goroutine.
func (c *collection[T]) close() {
	c.mbox.close()
}
