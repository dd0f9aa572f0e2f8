package session

import "context"

// Decision is the route guard's verdict for a protected view.
type Decision int

const (
	// Allow renders the protected view.
	Allow Decision = iota
	// RedirectLogin sends the visitor to the login view.
	RedirectLogin
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "redirect-login"
}

// Guard gates protected views on session state.
type Guard struct {
	store *Store
}

func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Admit decides whether a protected view may render. A present session
// admits without any network call; otherwise the guard performs one
// validity probe and redirects if it comes back anonymous. The caller
// shows a neutral "checking" state while Admit is in flight.
func (g *Guard) Admit(ctx context.Context) Decision {
	if _, ok := g.store.Current(); ok {
		return Allow
	}
	if _, ok := g.store.Reprobe(ctx); ok {
		return Allow
	}
	return RedirectLogin
}
