// Package feed assembles the home feed: the fixed recommendation rows
// plus the two personalized rows derived from a seed movie.
package feed

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"cinescintille/models"
	"cinescintille/services/backend"
)

// Phase is the load state of a feed view instance.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

// GenericErrorMessage is the only error surfaced by the feed pipeline.
// No finer classification is shown to the user.
const GenericErrorMessage = "Session expired or network error. Please login again."

// Row labels, in render order.
const (
	LabelTrending  = "Trending Now"
	LabelTopRated  = "Top Gems (Unwatched)"
	LabelCommunity = "Community Favorites"
	LabelContent   = "Because You Watched Something Like This"
	LabelCrew      = "From the Same Creative Team"
)

// View is one mounted home feed. Its fetched rows are owned by this
// instance alone and discarded when it closes.
type View struct {
	client *backend.Client
	id     string

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	phase    Phase
	errMsg   string
	popular  []models.MovieSummary
	topRated []models.MovieSummary
	collab   []models.MovieSummary
	content  []models.MovieSummary
	crew     []models.MovieSummary
	seed     models.TMDBID
	hasSeed  bool
}

// Snapshot is a point-in-time copy of the view state.
type Snapshot struct {
	Phase   Phase
	Message string
	Rows    []models.RecommendationRow
	Seed    models.TMDBID
	HasSeed bool
}

// NewView mounts a feed view. The parent context bounds the instance's
// lifetime; Close releases it early.
func NewView(parent context.Context, client *backend.Client) *View {
	ctx, cancel := context.WithCancel(parent)
	return &View{
		client: client,
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		phase:  Idle,
	}
}

// Close invalidates the view. In-flight results arriving afterwards are
// discarded instead of committed.
func (v *View) Close() {
	v.cancel()
}

// Load runs the feed pipeline once. Re-entering loading requires a
// fresh view instance; there is no retry.
func (v *View) Load() {
	v.setPhase(Loading)
	log.Printf("[feed] %s load begin", v.id)

	// The trending row is the primary load: without it there is
	// nothing to show and no popularity fallback for the seed.
	home, err := v.client.Home(v.ctx)
	if err != nil {
		v.fail("home", err)
		return
	}
	popular := home.Popular
	if !v.commit(func() { v.popular = popular }) {
		return
	}

	// Top-rated and collaborative are independent of everything else.
	// Each absorbs its own failure to an empty row rather than taking
	// the rest of the feed down with it.
	var wg conc.WaitGroup
	wg.Go(func() {
		items, err := v.client.TopRated(v.ctx)
		if err != nil {
			log.Printf("[feed] %s top-rated failed, hiding row: %v", v.id, err)
			return
		}
		v.commit(func() { v.topRated = items })
	})
	wg.Go(func() {
		items, err := v.client.Collaborative(v.ctx)
		if err != nil {
			log.Printf("[feed] %s collaborative failed, hiding row: %v", v.id, err)
			return
		}
		v.commit(func() { v.collab = items })
	})
	wg.Wait()

	// Seed selection strictly follows the watched-history fetch: most
	// recently watched movie, else the first popular movie, else no
	// seed at all.
	watched, err := v.client.ProfileWatched(v.ctx)
	if err != nil {
		v.fail("watched history", err)
		return
	}

	seed, hasSeed := models.SeedFromHistory(watched, popular)
	if !v.commit(func() { v.seed, v.hasSeed = seed, hasSeed }) {
		return
	}

	if hasSeed {
		log.Printf("[feed] %s seed selected tmdbId=%d fromHistory=%v", v.id, seed, len(watched) > 0)

		var seedWG conc.WaitGroup
		seedWG.Go(func() {
			items, err := v.client.ContentRecommendations(v.ctx, seed)
			if err != nil {
				log.Printf("[feed] %s content row failed, hiding row: %v", v.id, err)
				return
			}
			v.commit(func() { v.content = items })
		})
		seedWG.Go(func() {
			items, err := v.client.CrewRecommendations(v.ctx, seed)
			if err != nil {
				log.Printf("[feed] %s crew row failed, hiding row: %v", v.id, err)
				return
			}
			v.commit(func() { v.crew = items })
		})
		seedWG.Wait()
	} else {
		// Never query the seed-keyed endpoints without a seed.
		log.Printf("[feed] %s no seed available, skipping personalized rows", v.id)
	}

	v.setPhase(Ready)
	log.Printf("[feed] %s load complete", v.id)
}

// Snapshot returns the current state. Empty rows are omitted, except
// the trending row which always renders.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		Phase:   v.phase,
		Message: v.errMsg,
		Seed:    v.seed,
		HasSeed: v.hasSeed,
	}

	snap.Rows = append(snap.Rows, models.RecommendationRow{Label: LabelTrending, Items: v.popular})
	for _, row := range []models.RecommendationRow{
		{Label: LabelTopRated, Items: v.topRated},
		{Label: LabelCommunity, Items: v.collab},
		{Label: LabelContent, Items: v.content},
		{Label: LabelCrew, Items: v.crew},
	} {
		if !row.Empty() {
			snap.Rows = append(snap.Rows, row)
		}
	}

	return snap
}

// commit applies a state mutation unless the view has been closed, in
// which case the result is stale and dropped.
func (v *View) commit(apply func()) bool {
	if v.ctx.Err() != nil {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	apply()
	return true
}

func (v *View) setPhase(p Phase) {
	v.commit(func() { v.phase = p })
}

func (v *View) fail(stage string, err error) {
	if v.ctx.Err() != nil {
		return
	}
	log.Printf("[feed] %s %s load failed: %v", v.id, stage, err)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.phase = Failed
	v.errMsg = GenericErrorMessage
}
