// Package detail assembles a movie detail page from one primary fetch
// and four dependent fetches, and applies the engagement and review
// mutations for that movie.
//
// The identifier dependency graph is deliberately asymmetric: the crew
// recommendation fetch keys off the TMDB id and may start as soon as
// the primary fetch returns, while status, hybrid recommendations, and
// reviews key off the internal id and must wait for its resolution.
package detail

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

// Phase is the load state of a detail view instance.
type Phase int

const (
	Loading Phase = iota
	Ready
	Failed
)

// GenericErrorMessage is shown when the primary detail fetch fails.
const GenericErrorMessage = "Session expired or network error. Please login again."

// DeleteFailedNotice is the only feedback surfaced for a failed review
// deletion; state stays unchanged.
const DeleteFailedNotice = "Could not delete the review. Please try again."

var (
	ErrNotResolved  = errors.New("movie has no resolved internal id")
	ErrNotOwner     = errors.New("review belongs to another user")
	ErrNotConfirmed = errors.New("deletion not confirmed")
)

// SessionSource exposes the current user for advisory ownership checks.
type SessionSource interface {
	Current() (models.Session, bool)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// View is one mounted detail page for a single TMDB id. Results from a
// previous instance can never leak into a new one: each instance owns
// its context and all commits check it first.
type View struct {
	client   *backend.Client
	sessions SessionSource
	confirm  Confirmer
	tmdbID   models.TMDBID
	id       string

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	phase      Phase
	errMsg     string
	detail     *models.MovieDetail
	internalID models.MovieID
	status     models.EngagementStatus
	hybrid     []models.MovieSummary
	crewRec    []models.MovieSummary
	reviews    []models.Review
	draft      models.ReviewDraft
	notice     string
}

// Snapshot is a point-in-time copy of the view state.
type Snapshot struct {
	Phase      Phase
	Message    string
	Detail     *models.MovieDetail
	InternalID models.MovieID
	Status     models.EngagementStatus
	Hybrid     []models.MovieSummary
	Crew       []models.MovieSummary
	Reviews    []models.Review
	Draft      models.ReviewDraft
	Notice     string
}

// Option customizes a detail view.
type Option func(*View)

// WithConfirmer installs the interactive confirmation used before
// deleting a review. Without one, deletions are always declined.
func WithConfirmer(c Confirmer) Option {
	return func(v *View) { v.confirm = c }
}

// NewView mounts a detail view for the given TMDB id.
func NewView(parent context.Context, client *backend.Client, sessions SessionSource, tmdbID models.TMDBID, opts ...Option) *View {
	ctx, cancel := context.WithCancel(parent)
	v := &View{
		client:   client,
		sessions: sessions,
		tmdbID:   tmdbID,
		id:       uuid.NewString(),
		ctx:      ctx,
		cancel:   cancel,
		phase:    Loading,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Close invalidates the view; late results are discarded.
func (v *View) Close() {
	v.cancel()
}

// TMDBID returns the external id this view was mounted for.
func (v *View) TMDBID() models.TMDBID { return v.tmdbID }

// Load fetches the primary detail and fans out to the dependent
// fetches. The primary payload is committed (and renderable) before any
// dependent fetch completes; each dependent fetch fails independently
// to an empty result.
func (v *View) Load() {
	log.Printf("[detail] %s load begin tmdbId=%d", v.id, v.tmdbID)

	detail, err := v.client.MovieDetail(v.ctx, v.tmdbID)
	if err != nil {
		if v.ctx.Err() != nil {
			return
		}
		log.Printf("[detail] %s primary fetch failed tmdbId=%d: %v", v.id, v.tmdbID, err)
		v.mu.Lock()
		v.phase = Failed
		v.errMsg = GenericErrorMessage
		v.mu.Unlock()
		return
	}

	internalID := detail.Movie.InternalID
	if !v.commit(func() {
		v.detail = detail
		v.internalID = internalID
		v.phase = Ready
	}) {
		return
	}

	var wg conc.WaitGroup

	// Crew recommendations key off the TMDB id, so this fetch does not
	// wait for internal-id resolution.
	wg.Go(func() {
		items, err := v.client.CrewRecommendations(v.ctx, v.tmdbID)
		if err != nil {
			log.Printf("[detail] %s crew fetch failed tmdbId=%d: %v", v.id, v.tmdbID, err)
			return
		}
		v.commit(func() { v.crewRec = items })
	})

	if internalID.Valid() {
		wg.Go(func() {
			status, err := v.client.MovieStatus(v.ctx, internalID)
			if err != nil {
				log.Printf("[detail] %s status fetch failed movieId=%d: %v", v.id, internalID, err)
				return
			}
			v.commit(func() { v.status = status })
		})
		wg.Go(func() {
			items, err := v.client.HybridRecommendations(v.ctx, internalID)
			if err != nil {
				log.Printf("[detail] %s hybrid fetch failed movieId=%d: %v", v.id, internalID, err)
				return
			}
			v.commit(func() { v.hybrid = items })
		})
		wg.Go(func() {
			v.refreshReviews(internalID)
		})
	} else {
		// No internal id in the primary payload: the internal-id-keyed
		// fetches are skipped for the rest of this page instance.
		log.Printf("[detail] %s no internal id resolved tmdbId=%d, skipping dependent fetches", v.id, v.tmdbID)
	}

	wg.Wait()
	log.Printf("[detail] %s load complete tmdbId=%d", v.id, v.tmdbID)
}

// Snapshot returns the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{
		Phase:      v.phase,
		Message:    v.errMsg,
		Detail:     v.detail,
		InternalID: v.internalID,
		Status:     v.status,
		Hybrid:     v.hybrid,
		Crew:       v.crewRec,
		Reviews:    v.reviews,
		Draft:      v.draft,
		Notice:     v.notice,
	}
}

// ToggleWatchlist flips the watchlist flag. Local state follows the
// server's acknowledgment; it is never flipped ahead of the response.
func (v *View) ToggleWatchlist() error {
	movieID, err := v.resolved()
	if err != nil {
		return err
	}

	state, err := v.client.ToggleWatchlist(v.ctx, movieID)
	if err != nil {
		return err
	}

	v.commit(func() { v.status.InWatchlist = state.Added() })
	return nil
}

// ToggleWatched flips the watched flag. Marking a movie watched always
// clears the watchlist flag locally, mirroring the backend's
// mutual-exclusion rule regardless of what it reports.
func (v *View) ToggleWatched() error {
	movieID, err := v.resolved()
	if err != nil {
		return err
	}

	state, err := v.client.ToggleWatched(v.ctx, movieID)
	if err != nil {
		return err
	}

	v.commit(func() {
		v.status.Watched = state.Added()
		v.status.InWatchlist = false
	})
	return nil
}

// SetRating updates the review draft's star rating.
func (v *View) SetRating(rating int) {
	v.commit(func() { v.draft.Rating = rating })
}

// SetComment updates the review draft's text.
func (v *View) SetComment(comment string) {
	v.commit(func() { v.draft.Comment = comment })
}

// SubmitReview validates the draft and posts it. Invalid drafts are
// rejected before any request. On success the reviews list is refetched
// in full and the draft is cleared.
func (v *View) SubmitReview() error {
	movieID, err := v.resolved()
	if err != nil {
		return err
	}

	v.mu.Lock()
	draft := v.draft
	v.mu.Unlock()

	if err := draft.Validate(); err != nil {
		return err
	}

	if err := v.client.SubmitReview(v.ctx, movieID, draft); err != nil {
		return err
	}

	v.refreshReviews(movieID)
	v.commit(func() { v.draft = models.ReviewDraft{} })
	return nil
}

// DeleteReview removes one of the current user's reviews after
// interactive confirmation. The ownership check here is advisory; the
// backend decides for real. A declined confirmation is a no-op, and a
// failed deletion leaves state unchanged apart from a generic notice.
func (v *View) DeleteReview(reviewID int64) error {
	movieID, err := v.resolved()
	if err != nil {
		return err
	}

	v.mu.Lock()
	var target *models.Review
	for i := range v.reviews {
		if v.reviews[i].ID == reviewID {
			target = &v.reviews[i]
			break
		}
	}
	v.mu.Unlock()

	if target != nil && v.sessions != nil {
		if user, ok := v.sessions.Current(); ok && !user.Owns(*target) {
			return ErrNotOwner
		}
	}

	if v.confirm == nil || !v.confirm.Confirm("Are you sure you want to delete this review?") {
		return ErrNotConfirmed
	}

	if err := v.client.DeleteReview(v.ctx, reviewID); err != nil {
		log.Printf("[detail] %s delete review failed reviewId=%d: %v", v.id, reviewID, err)
		v.commit(func() { v.notice = DeleteFailedNotice })
		return err
	}

	v.commit(func() { v.notice = "" })
	v.refreshReviews(movieID)
	return nil
}

// refreshReviews replaces the reviews list with a full refetch. A
// failure leaves the previous list in place on initial load paths and
// is silent either way.
func (v *View) refreshReviews(movieID models.MovieID) {
	reviews, err := v.client.Reviews(v.ctx, movieID)
	if err != nil {
		log.Printf("[detail] %s reviews fetch failed movieId=%d: %v", v.id, movieID, err)
		return
	}
	v.commit(func() { v.reviews = reviews })
}

// resolved returns the internal id, or ErrNotResolved when the primary
// fetch did not yield one. All mutations require a resolved movie.
func (v *View) resolved() (models.MovieID, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.internalID.Valid() {
		return 0, ErrNotResolved
	}
	return v.internalID, nil
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
