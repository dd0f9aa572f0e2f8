package models

import "strings"

// TMDBID identifies a movie in the upstream TMDB catalog. It is the id
// used for navigation, search results, and crew recommendation queries.
type TMDBID int64

// MovieID identifies a movie row in the CineScintille database. Status,
// review, and hybrid recommendation operations accept only this id.
//
// TMDBID and MovieID are deliberately distinct types: the two identifier
// spaces are never interchangeable, and a zero MovieID means the backend
// has not resolved the movie yet.
type MovieID int64

// Valid reports whether the id refers to a resolved catalog entry.
func (id MovieID) Valid() bool { return id > 0 }

// Valid reports whether the id refers to an upstream catalog entry.
func (id TMDBID) Valid() bool { return id > 0 }

// MovieSummary is the compact movie shape returned by every list
// endpoint: search, home rows, recommendation rows, and profile lists.
type MovieSummary struct {
	ID         TMDBID `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

// MovieCore is the primary block of the movie detail payload. InternalID
// is resolved by the backend on first lookup; dependent fetches must not
// run until it is known.
type MovieCore struct {
	ID           TMDBID   `json:"id"`
	InternalID   MovieID  `json:"internal_id"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath string   `json:"backdrop_path"`
	Genres       []string `json:"genres"`
	Runtime      int      `json:"runtime"`
	Rating       float64  `json:"rating"`
	ReleaseDate  string   `json:"release_date"`
}

// CastMember is one top-billed cast entry of a movie detail payload.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

// Provider is a streaming availability entry.
type Provider struct {
	Name     string `json:"name"`
	LogoPath string `json:"logo_path"`
}

// MovieDetail is the full /movie/{tmdbID} payload.
type MovieDetail struct {
	Movie     MovieCore      `json:"movie"`
	Trailer   string         `json:"trailer"`
	Cast      []CastMember   `json:"cast"`
	Director  string         `json:"director"`
	Providers []Provider     `json:"providers"`
	Similar   []MovieSummary `json:"similar"`
}

// EngagementStatus tracks the current user's relationship to one movie.
// The two flags are mutually exclusive: marking a movie watched removes
// it from the watchlist.
type EngagementStatus struct {
	InWatchlist bool `json:"watchlist"`
	Watched     bool `json:"watched"`
}

// RecommendationRow is one labeled shelf of the home feed or detail
// page. Rows are ephemeral view state, rebuilt on every load.
type RecommendationRow struct {
	Label string         `json:"label"`
	Items []MovieSummary `json:"items"`
}

// Empty reports whether the row has no items to show.
func (r RecommendationRow) Empty() bool { return len(r.Items) == 0 }

// SeedFromHistory derives the seed TMDB id for personalized
// recommendation rows. The watched history is ordered oldest first, so
// the most recently watched movie is the last element. With no history
// the first popular movie seeds the rows; with neither, there is no
// seed and no seed-keyed query may be issued.
func SeedFromHistory(watched, popular []MovieSummary) (TMDBID, bool) {
	if len(watched) > 0 {
		return watched[len(watched)-1].ID, true
	}
	if len(popular) > 0 {
		return popular[0].ID, true
	}
	return 0, false
}

// NormalizeQuery trims a free-text search query. A query that normalizes
// to "" must clear results without a network call.
func NormalizeQuery(q string) string {
	return strings.TrimSpace(q)
}
