package sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/outly-app/outly-go/internal/api"
	"github.com/outly-app/outly-go/internal/storage"
	"github.com/outly-app/outly-go/internal/storage/sqlite"
)

func newSessionFixture(t *testing.T, handler http.Handler) (*SessionSync, *sqlite.SQLiteStore) {
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
		Tokens:  store,
		Logger:  discardLogger(),
	})
	sess := NewSessionSync(api.NewIdentityClient(client), store, discardLogger(), &countingRecorder{})
	t.Cleanup(sess.Close)
	return sess, store
}

// sessionHandler answers login/signup/logout with a fixed token.
func sessionHandler(token string) http.Handler {
	respond := func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(api.SessionDTO{
			Token: token,
			User:  api.IdentityDTO{ID: "u1", Name: body.Name, Email: body.Email, Phone: "555"},
		})
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/identity/login", respond)
	mux.HandleFunc("/identity/signup", respond)
	mux.HandleFunc("/identity/logout", func(w http.ResponseWriter, r *http.Request) {})
	return mux
}

func TestLoginCachesSession(t *testing.T) {
	sess, store := newSessionFixture(t, sessionHandler("tok-1"))
	ctx := context.Background()

	identity, err := sess.Login(ctx, "a@example.com", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if identity.UserID != "u1" || identity.Token != "tok-1" {
		t.Errorf("got %s/%s, want u1/tok-1", identity.UserID, identity.Token)
	}
	if !sess.Authenticated() {
		t.Error("expected authenticated after login")
	}

	// The session survives in the store for the next cold start.
	persisted, err := store.GetIdentity(ctx)
	if err != nil {
		t.Fatalf("GetIdentity failed: %v", err)
	}
	if persisted.Token != "tok-1" {
		t.Errorf("persisted token = %q, want tok-1", persisted.Token)
	}

	// The store now feeds the Bearer token for authenticated calls.
	token, err := store.SessionToken(ctx)
	if err != nil || token != "tok-1" {
		t.Errorf("SessionToken = %q/%v, want tok-1", token, err)
	}
}

func TestSignupReplacesExistingSession(t *testing.T) {
	var issued int
	mux := http.NewServeMux()
	mux.HandleFunc("/identity/login", func(w http.ResponseWriter, r *http.Request) {
		issued++
		json.NewEncoder(w).Encode(api.SessionDTO{Token: "tok-login", User: api.IdentityDTO{ID: "u1"}})
	})
	mux.HandleFunc("/identity/signup", func(w http.ResponseWriter, r *http.Request) {
		issued++
		json.NewEncoder(w).Encode(api.SessionDTO{Token: "tok-signup", User: api.IdentityDTO{ID: "u2"}})
	})

	sess, store := newSessionFixture(t, mux)
	ctx := context.Background()

	if _, err := sess.Login(ctx, "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := sess.Signup(ctx, "Bob", "b@example.com", "555", "pw"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	// At most one session row ever exists.
	persisted, err := store.GetIdentity(ctx)
	if err != nil {
		t.Fatalf("GetIdentity failed: %v", err)
	}
	if persisted.UserID != "u2" || persisted.Token != "tok-signup" {
		t.Errorf("got %s/%s, want u2/tok-signup", persisted.UserID, persisted.Token)
	}
	if current := sess.Current(); current == nil || current.UserID != "u2" {
		t.Errorf("Current() = %+v, want u2", current)
	}
}

func TestLogoutClearsLocalEvenWhenRemoteFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/identity/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.SessionDTO{Token: "tok-1", User: api.IdentityDTO{ID: "u1"}})
	})
	mux.HandleFunc("/identity/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	sess, store := newSessionFixture(t, mux)
	ctx := context.Background()

	if _, err := sess.Login(ctx, "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := sess.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if sess.Authenticated() {
		t.Error("expected not authenticated after logout")
	}
	if sess.Current() != nil {
		t.Error("Current() should be nil after logout")
	}
	if _, err := store.GetIdentity(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetIdentity error = %v, want ErrNotFound", err)
	}
}

func TestPrimeRestoresSession(t *testing.T) {
	sess, store := newSessionFixture(t, sessionHandler("tok-1"))
	ctx := context.Background()

	if _, err := sess.Login(ctx, "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	sess.Close()

	// A fresh synchronizer over the same store warm-starts from the row.
	restarted := NewSessionSync(nil, store, discardLogger(), &countingRecorder{})
	defer restarted.Close()

	if err := restarted.Prime(ctx); err != nil {
		t.Fatalf("Prime failed: %v", err)
	}
	if !restarted.Authenticated() {
		t.Error("expected authenticated after prime")
	}
	if current := restarted.Current(); current == nil || current.UserID != "u1" {
		t.Errorf("Current() = %+v, want u1", current)
	}
}

func TestMeUpdatesCachedProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/identity/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.SessionDTO{
			Token: "tok-1",
			User:  api.IdentityDTO{ID: "u1", Name: "Alice", Email: "a@example.com"},
		})
	})
	mux.HandleFunc("/identity/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.IdentityDTO{
			ID: "u1", Name: "Alice Cooper", Email: "alice@example.com", Phone: "555",
		})
	})

	sess, store := newSessionFixture(t, mux)
	ctx := context.Background()

	if _, err := sess.Login(ctx, "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	identity, err := sess.Me(ctx)
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if identity.Name != "Alice Cooper" || identity.Phone != "555" {
		t.Errorf("got %s/%s, want refreshed profile", identity.Name, identity.Phone)
	}
	if identity.Token != "tok-1" {
		t.Errorf("token = %q, profile refresh must keep the session token", identity.Token)
	}

	persisted, err := store.GetIdentity(ctx)
	if err != nil {
		t.Fatalf("GetIdentity failed: %v", err)
	}
	if persisted.Name != "Alice Cooper" {
		t.Errorf("persisted name = %q, want Alice Cooper", persisted.Name)
	}
}

func TestAuthenticatedTokenExpiry(t *testing.T) {
	signed := func(exp time.Time) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u1",
			"exp": exp.Unix(),
		}).SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("Failed to sign token: %v", err)
		}
		return token
	}

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{
			name:  "valid jwt",
			token: signed(time.Now().Add(time.Hour)),
			want:  true,
		},
		{
			name:  "expired jwt",
			token: signed(time.Now().Add(-time.Hour)),
			want:  false,
		},
		{
			name:  "opaque token counts as usable",
			token: "not-a-jwt-at-all",
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, _ := newSessionFixture(t, sessionHandler(tt.token))
			if _, err := sess.Login(context.Background(), "a@example.com", "pw"); err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			if got := sess.Authenticated(); got != tt.want {
				t.Errorf("Authenticated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionSubscribe(t *testing.T) {
	sess, _ := newSessionFixture(t, sessionHandler("tok-1"))
	ctx := context.Background()

	updates, cancel := sess.Subscribe()
	defer cancel()

	if _, err := sess.Login(ctx, "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	select {
	case identity := <-updates:
		if identity == nil || identity.Token != "tok-1" {
			t.Errorf("published %+v, want tok-1 session", identity)
		}
	case <-time.After(time.Second):
		t.Fatal("no publish after login")
	}

	if err := sess.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	select {
	case identity := <-updates:
		if identity != nil {
			t.Errorf("published %+v after logout, want nil", identity)
		}
	case <-time.After(time.Second):
		t.Fatal("no publish after logout")
	}
}
