// Package session owns the authenticated-user state for the lifetime of
// the client. It is the only component allowed to mutate the session;
// everything else reads a copy.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"cinescintille/models"
	"cinescintille/services/backend"
)

// State describes what the store knows about the current user.
type State int

const (
	// StateChecking means the startup probe has not completed yet.
	// Protected views must not render (and must not redirect) while
	// checking, to avoid a login flicker.
	StateChecking State = iota
	// StateAnonymous means there is no session. Probe failures land
	// here silently; "not logged in" and "network failure" are not
	// distinguished.
	StateAnonymous
	// StateAuthenticated means a valid session is present.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

const logoutTimeout = 5 * time.Second

// Store holds the session for the lifetime of the client process.
type Store struct {
	mu        sync.Mutex
	client    *backend.Client
	bootstrap sync.Once

	state   State
	session models.Session
}

// NewStore creates a session store in the checking state.
func NewStore(client *backend.Client) *Store {
	return &Store{client: client, state: StateChecking}
}

// Bootstrap issues the startup session probe. It runs the probe at most
// once no matter how many callers race; later calls return after the
// first probe has settled the state. Probe failure is silent: the user
// is simply anonymous.
func (s *Store) Bootstrap(ctx context.Context) {
	s.bootstrap.Do(func() {
		s.probe(ctx)
	})
}

// Reprobe re-checks session validity with the backend. The route guard
// calls this when it mounts with no session present, e.g. on direct
// navigation before Bootstrap has run.
func (s *Store) Reprobe(ctx context.Context) (models.Session, bool) {
	return s.probe(ctx)
}

func (s *Store) probe(ctx context.Context) (models.Session, bool) {
	user, err := s.client.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil || user == nil {
		if err != nil {
			log.Printf("[session] probe failed, treating as anonymous: %v", err)
		}
		s.state = StateAnonymous
		s.session = models.Session{}
		return models.Session{}, false
	}

	s.state = StateAuthenticated
	s.session = *user
	log.Printf("[session] probe ok userId=%d username=%s", user.ID, user.Username)
	return s.session, true
}

// State reports the current session state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns a copy of the session, if present.
func (s *Store) Current() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return models.Session{}, false
	}
	return s.session, true
}

// Login authenticates and installs the resulting session.
func (s *Store) Login(ctx context.Context, username, password string) (models.Session, error) {
	user, err := s.client.Login(ctx, username, password)
	if err != nil {
		return models.Session{}, err
	}
	s.install(user)
	return user, nil
}

// Register creates an account; a successful registration also logs the
// user in.
func (s *Store) Register(ctx context.Context, req backend.RegisterRequest) (models.Session, error) {
	user, err := s.client.Register(ctx, req)
	if err != nil {
		return models.Session{}, err
	}
	s.install(user)
	return user, nil
}

// Logout clears the session synchronously and notifies the backend in
// the background. Navigation away from the protected area never waits
// on the network.
func (s *Store) Logout() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.session = models.Session{}
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
		defer cancel()
		if err := s.client.Logout(ctx); err != nil {
			log.Printf("[session] logout notification failed: %v", err)
		}
	}()
}

// Refresh overwrites the stored session after a profile update.
func (s *Store) Refresh(user models.Session) {
	if !user.Valid() {
		return
	}
	s.install(user)
}

func (s *Store) install(user models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthenticated
	s.session = user
}
