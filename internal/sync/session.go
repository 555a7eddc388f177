package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/outly-app/outly-go/internal/api"
	"github.com/outly-app/outly-go/internal/metrics"
	"github.com/outly-app/outly-go/internal/models"
	"github.com/outly-app/outly-go/internal/storage"
)

// SessionSync is the identity domain synchronizer, restricted to at most one
// cached row. Saving a session purges any existing row first; logout
// hard-deletes it.
type SessionSync struct {
	mbox    *mailbox
	api     *api.IdentityClient
	store   storage.IdentityStore
	logger  *slog.Logger
	metrics metrics.Recorder

	// Owned by the mailbox goroutine. Nil when no session is cached.
	current *models.Identity

	subs *broadcaster[*models.Identity]
}

// NewSessionSync creates the session cache over the given remote client and
// identity store.
func NewSessionSync(client *api.IdentityClient, store storage.IdentityStore, logger *slog.Logger, recorder metrics.Recorder) *SessionSync {
	return &SessionSync{
		mbox:    newMailbox(),
		api:     client,
		store:   store,
		logger:  logger.With("domain", "identity"),
		metrics: recorder,
		subs:    newBroadcaster[*models.Identity](),
	}
}

// Prime loads the persisted session row, if any, into memory.
func (s *SessionSync) Prime(ctx context.Context) error {
	identity, err := s.store.GetIdentity(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.mbox.doWait(func() {
		s.current = identity
		s.subs.publish(identity)
	})
	return nil
}

// Login exchanges credentials for a session and caches it, replacing any
// existing session row.
func (s *SessionSync) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	s.metrics.RecordWrite("identity", "login")
	dto, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return s.saveSession(ctx, *dto)
}

// Signup registers an account and caches its first session.
func (s *SessionSync) Signup(ctx context.Context, name, email, phone, password string) (*models.Identity, error) {
	s.metrics.RecordWrite("identity", "signup")
	dto, err := s.api.Signup(ctx, name, email, phone, password)
	if err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	return s.saveSession(ctx, *dto)
}

// saveSession converts, persists (purging any prior row in the same
// transaction), then republishes.
func (s *SessionSync) saveSession(ctx context.Context, dto api.SessionDTO) (*models.Identity, error) {
	identity := identityFromSession(dto)
	identity.CreatedAt = time.Now()

	var saveErr error
	s.mbox.doWait(func() {
		if err := s.store.SaveIdentity(ctx, &identity); err != nil {
			saveErr = fmt.Errorf("failed to cache session: %w", err)
			return
		}
		s.current = &identity
		s.subs.publish(&identity)
	})
	if saveErr != nil {
		return nil, saveErr
	}
	return &identity, nil
}

// Me refetches the account profile behind the current session and updates
// the cached row in place, keeping the token.
func (s *SessionSync) Me(ctx context.Context) (*models.Identity, error) {
	dto, err := s.api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	var updated *models.Identity
	var saveErr error
	s.mbox.doWait(func() {
		if s.current == nil {
			saveErr = api.ErrNoSession
			return
		}
		next := *s.current
		next.UserID = dto.ID
		next.Name = dto.Name
		next.Email = dto.Email
		next.Phone = dto.Phone
		if err := s.store.SaveIdentity(ctx, &next); err != nil {
			saveErr = fmt.Errorf("failed to cache profile: %w", err)
			return
		}
		s.current = &next
		s.subs.publish(&next)
		updated = &next
	})
	if saveErr != nil {
		return nil, saveErr
	}
	return updated, nil
}

// Logout invalidates the session remotely and always clears the local row,
// even when the remote call fails.
func (s *SessionSync) Logout(ctx context.Context) error {
	s.metrics.RecordWrite("identity", "logout")
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn("remote logout failed, clearing local session anyway", "error", err)
	}

	var clearErr error
	s.mbox.doWait(func() {
		if err := s.store.DeleteIdentity(ctx); err != nil {
			clearErr = fmt.Errorf("failed to clear session: %w", err)
			return
		}
		s.current = nil
		s.subs.publish(nil)
	})
	return clearErr
}

// Current returns the cached identity, or nil when logged out.
func (s *SessionSync) Current() *models.Identity {
	var identity *models.Identity
	s.mbox.doWait(func() { identity = s.current })
	return identity
}

// Authenticated reports whether a session row exists with a usable token.
// Tokens that parse as JWTs and carry an expired exp claim count as not
// authenticated; opaque tokens count as usable while present.
func (s *SessionSync) Authenticated() bool {
	identity := s.Current()
	if identity == nil || identity.Token == "" {
		return false
	}
	return !tokenExpired(identity.Token)
}

// Subscribe registers an observer of the session row. Publishes the new
// identity on login/signup and nil on logout.
func (s *SessionSync) Subscribe() (<-chan *models.Identity, func()) {
	return s.subs.subscribe()
}

// Close stops the mailbox goroutine.
func (s *SessionSync) Close() {
	s.mbox.close()
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; verification is the server's job. Unparseable tokens are
// treated as unexpired.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
