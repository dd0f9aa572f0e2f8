// Package profile loads the profile page (account info plus the
// watchlist, watched, and review collections) and applies profile
// edits.
package profile

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"cinescintille/models"
	"cinescintille/services/backend"
)

// Phase is the load state of a profile view instance.
type Phase int

const (
	Loading Phase = iota
	Ready
	Failed
)

// GenericErrorMessage is shown when the account fetch fails.
const GenericErrorMessage = "Session expired or network error. Please login again."

var ErrInvalidAvatar = errors.New("avatar is not one of the selectable options")

// View is one mounted profile page.
type View struct {
	client *backend.Client
	id     string

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	phase     Phase
	errMsg    string
	account   models.Session
	watchlist []models.MovieSummary
	watched   []models.MovieSummary
	reviews   []models.ProfileReview
}

// Snapshot is a point-in-time copy of the view state.
type Snapshot struct {
	Phase     Phase
	Message   string
	Account   models.Session
	Watchlist []models.MovieSummary
	Watched   []models.MovieSummary
	Reviews   []models.ProfileReview
}

// NewView mounts a profile view.
func NewView(parent context.Context, client *backend.Client) *View {
	ctx, cancel := context.WithCancel(parent)
	return &View{
		client: client,
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		phase:  Loading,
	}
}

// Close invalidates the view; late results are discarded.
func (v *View) Close() {
	v.cancel()
}

// Load fetches the account info plus the three collections. The account
// fetch is the primary one; the collections fail independently and
// silently to empty lists.
func (v *View) Load() {
	log.Printf("[profile] %s load begin", v.id)

	var wg conc.WaitGroup
	wg.Go(func() {
		account, err := v.client.Profile(v.ctx)
		if err != nil {
			if v.ctx.Err() != nil {
				return
			}
			log.Printf("[profile] %s account fetch failed: %v", v.id, err)
			v.mu.Lock()
			v.phase = Failed
			v.errMsg = GenericErrorMessage
			v.mu.Unlock()
			return
		}
		v.commit(func() { v.account = account })
	})
	wg.Go(func() {
		items, err := v.client.ProfileWatchlist(v.ctx)
		if err != nil {
			log.Printf("[profile] %s watchlist fetch failed: %v", v.id, err)
			return
		}
		v.commit(func() { v.watchlist = items })
	})
	wg.Go(func() {
		items, err := v.client.ProfileWatched(v.ctx)
		if err != nil {
			log.Printf("[profile] %s watched fetch failed: %v", v.id, err)
			return
		}
		v.commit(func() { v.watched = items })
	})
	wg.Go(func() {
		reviews, err := v.client.ProfileReviews(v.ctx)
		if err != nil {
			log.Printf("[profile] %s reviews fetch failed: %v", v.id, err)
			return
		}
		v.commit(func() { v.reviews = reviews })
	})
	wg.Wait()

	v.commit(func() {
		if v.phase == Loading {
			v.phase = Ready
		}
	})
	log.Printf("[profile] %s load complete", v.id)
}

// Snapshot returns the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{
		Phase:     v.phase,
		Message:   v.errMsg,
		Account:   v.account,
		Watchlist: v.watchlist,
		Watched:   v.watched,
		Reviews:   v.reviews,
	}
}

// Update saves edited profile fields and applies them locally on
// success. The avatar must come from the fixed option set.
func (v *View) Update(name string, age int, avatar string) error {
	if !models.ValidAvatar(avatar) {
		return ErrInvalidAvatar
	}

	update := backend.ProfileUpdate{Name: name, Age: age, Avatar: avatar}
	if err := v.client.UpdateProfile(v.ctx, update); err != nil {
		return err
	}

	v.commit(func() {
		v.account.Name = name
		v.account.Age = age
		v.account.Avatar = avatar
	})
	return nil
}

// commit applies a state mutation unless the view has been closed.
func (v *View) commit(apply func()) bool {
	if v.ctx.Err() != nil {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	apply()
	return true
}
