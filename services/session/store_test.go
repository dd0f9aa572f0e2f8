package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"cinescintille/models"
	"cinescintille/services/backend"
	"cinescintille/services/session"
)

func newBackend(t *testing.T, configure func(r *mux.Router)) *backend.Client {
	t.Helper()

	r := mux.NewRouter()
	configure(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := backend.NewClient(srv.URL)
	require.NoError(t, err)
	return client
}

func TestBootstrapProbesAtMostOnce(t *testing.T) {
	var probes atomic.Int64

	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/me", func(w http.ResponseWriter, req *http.Request) {
			probes.Add(1)
			json.NewEncoder(w).Encode(models.Session{ID: 1, Username: "nina"})
		})
	})

	store := session.NewStore(client)
	require.Equal(t, session.StateChecking, store.State())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Bootstrap(context.Background())
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), probes.Load())
	require.Equal(t, session.StateAuthenticated, store.State())

	user, ok := store.Current()
	require.True(t, ok)
	require.Equal(t, "nina", user.Username)
}

func TestProbeFailureIsSilentlyAnonymous(t *testing.T) {
	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/me", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
	})

	store := session.NewStore(client)
	store.Bootstrap(context.Background())

	require.Equal(t, session.StateAnonymous, store.State())
	_, ok := store.Current()
	require.False(t, ok)
}

func TestProbeUserlessPayloadIsAnonymous(t *testing.T) {
	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/me", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"user": null}`))
		})
	})

	store := session.NewStore(client)
	store.Bootstrap(context.Background())
	require.Equal(t, session.StateAnonymous, store.State())
}

func TestGuardAdmitsWithoutNetworkWhenSessionPresent(t *testing.T) {
	var probes atomic.Int64

	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/login", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(models.Session{ID: 1, Username: "nina"})
		}).Methods(http.MethodPost)
		r.HandleFunc("/me", func(w http.ResponseWriter, req *http.Request) {
			probes.Add(1)
			json.NewEncoder(w).Encode(models.Session{ID: 1, Username: "nina"})
		})
	})

	store := session.NewStore(client)
	_, err := store.Login(context.Background(), "nina", "secret")
	require.NoError(t, err)

	guard := session.NewGuard(store)
	require.Equal(t, session.Allow, guard.Admit(context.Background()))
	require.Equal(t, int64(0), probes.Load())
}

func TestGuardReprobesWhenSessionAbsent(t *testing.T) {
	var probes atomic.Int64

	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/me", func(w http.ResponseWriter, req *http.Request) {
			probes.Add(1)
			json.NewEncoder(w).Encode(models.Session{ID: 2, Username: "marco"})
		})
	})

	store := session.NewStore(client)
	guard := session.NewGuard(store)

	require.Equal(t, session.Allow, guard.Admit(context.Background()))
	require.Equal(t, int64(1), probes.Load())

	// The reprobe installed the session, so the next admit is free.
	require.Equal(t, session.Allow, guard.Admit(context.Background()))
	require.Equal(t, int64(1), probes.Load())
}

func TestGuardRedirectsAnonymousVisitor(t *testing.T) {
	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/me", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`null`))
		})
	})

	store := session.NewStore(client)
	guard := session.NewGuard(store)
	require.Equal(t, session.RedirectLogin, guard.Admit(context.Background()))
}

func TestLogoutClearsImmediatelyAndNotifiesInBackground(t *testing.T) {
	release := make(chan struct{})
	delivered := make(chan struct{})

	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/login", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(models.Session{ID: 1, Username: "nina"})
		}).Methods(http.MethodPost)
		r.HandleFunc("/logout", func(w http.ResponseWriter, req *http.Request) {
			<-release
			close(delivered)
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		}).Methods(http.MethodPost)
	})

	store := session.NewStore(client)
	_, err := store.Login(context.Background(), "nina", "secret")
	require.NoError(t, err)

	start := time.Now()
	store.Logout()
	require.Less(t, time.Since(start), time.Second, "logout must not wait on the network")

	// Local state is gone before the backend ever responds.
	require.Equal(t, session.StateAnonymous, store.State())
	_, ok := store.Current()
	require.False(t, ok)

	close(release)
	select {
	case <-delivered:
	case <-time.After(3 * time.Second):
		t.Fatal("logout notification never reached the backend")
	}
}

func TestRefreshIgnoresInvalidSession(t *testing.T) {
	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/login", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(models.Session{ID: 1, Username: "nina", Name: "Nina"})
		}).Methods(http.MethodPost)
	})

	store := session.NewStore(client)
	_, err := store.Login(context.Background(), "nina", "secret")
	require.NoError(t, err)

	store.Refresh(models.Session{})
	user, ok := store.Current()
	require.True(t, ok)
	require.Equal(t, "nina", user.Username)

	store.Refresh(models.Session{ID: 1, Username: "nina", Name: "Nina R."})
	user, _ = store.Current()
	require.Equal(t, "Nina R.", user.Name)
}
