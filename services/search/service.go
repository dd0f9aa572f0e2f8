// Package search runs the debounced, race-safe interactive title
// search that overlays every view.
package search

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"cinescintille/models"
	"cinescintille/services/backend"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// query is issued.
const DefaultDebounce = 350 * time.Millisecond

// Navigator receives the selected result's TMDB id.
type Navigator func(models.TMDBID)

// Orchestrator debounces free-text input and maintains the transient
// result list. A keystroke inside the quiet period resets the timer and
// invalidates any pending request's effect: the request may still
// complete, but its result will not be applied.
type Orchestrator struct {
	client   *backend.Client
	debounce time.Duration
	navigate Navigator
	id       string

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	query   string
	results []models.MovieSummary
	closed  bool
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithDebounce overrides the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// New creates a search orchestrator. The navigator is invoked when a
// result is selected.
func New(parent context.Context, client *backend.Client, navigate Navigator, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(parent)
	o := &Orchestrator{
		client:   client,
		debounce: DefaultDebounce,
		navigate: navigate,
		id:       uuid.NewString(),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetQuery records a keystroke. A blank query clears the results
// immediately with no network call; anything else restarts the
// debounce timer.
func (o *Orchestrator) SetQuery(query string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}

	o.query = query
	o.gen++
	o.stopTimerLocked()

	normalized := models.NormalizeQuery(query)
	if normalized == "" {
		o.results = nil
		return
	}

	gen := o.gen
	o.timer = time.AfterFunc(o.debounce, func() {
		o.fire(normalized, gen)
	})
}

// fire issues the query after the quiet period. The generation captured
// at scheduling time gates both the request and the commit, so a stale
// timer or a late response can never touch current state.
func (o *Orchestrator) fire(query string, gen uint64) {
	o.mu.Lock()
	stale := o.closed || gen != o.gen
	o.mu.Unlock()
	if stale {
		return
	}

	results, err := o.client.Search(o.ctx, query)
	if err != nil {
		// Silent: a failed search just shows nothing.
		log.Printf("[search] %s query failed q=%q: %v", o.id, query, err)
		results = nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || gen != o.gen {
		return
	}
	o.results = results
}

// Query returns the current input text.
func (o *Orchestrator) Query() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.query
}

// Results returns a copy of the transient result list.
func (o *Orchestrator) Results() []models.MovieSummary {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]models.MovieSummary, len(o.results))
	copy(out, o.results)
	return out
}

// Select picks a result by index: the query text and result list are
// cleared and the navigator is invoked with the item's TMDB id.
func (o *Orchestrator) Select(index int) (models.TMDBID, bool) {
	o.mu.Lock()
	if o.closed || index < 0 || index >= len(o.results) {
		o.mu.Unlock()
		return 0, false
	}
	item := o.results[index]
	o.clearLocked()
	navigate := o.navigate
	o.mu.Unlock()

	if navigate != nil {
		navigate(item.ID)
	}
	return item.ID, true
}

// Dismiss clears the search surface's own transient state (query text
// and results). It touches nothing else: other transient surfaces
// dismiss independently.
func (o *Orchestrator) Dismiss() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearLocked()
}

// Close stops the debounce timer and invalidates any in-flight effect.
func (o *Orchestrator) Close() {
	o.cancel()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.stopTimerLocked()
	o.results = nil
	o.query = ""
}

func (o *Orchestrator) clearLocked() {
	o.gen++
	o.stopTimerLocked()
	o.query = ""
	o.results = nil
}

func (o *Orchestrator) stopTimerLocked() {
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}
