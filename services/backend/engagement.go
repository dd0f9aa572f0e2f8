package backend

import (
	"context"
	"fmt"
	"net/http"

	"cinescintille/models"
)

// ToggleState is the server's authoritative answer to a toggle: the
// item was either just added or just removed.
type ToggleState string

const (
	ToggleAdded   ToggleState = "added"
	ToggleRemoved ToggleState = "removed"
)

// Added reports whether the toggle left the flag set.
func (t ToggleState) Added() bool { return t == ToggleAdded }

type togglePayload struct {
	Status ToggleState `json:"status"`
}

type movieIDPayload struct {
	MovieID models.MovieID `json:"movie_id"`
}

// MovieStatus fetches the current user's engagement flags for a movie.
func (c *Client) MovieStatus(ctx context.Context, id models.MovieID) (models.EngagementStatus, error) {
	var status models.EngagementStatus
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/status", id), nil, &status); err != nil {
		return models.EngagementStatus{}, err
	}
	return status, nil
}

// ToggleWatchlist flips the watchlist flag server-side and returns the
// resulting state. Callers apply local state from this acknowledgment,
// never optimistically.
func (c *Client) ToggleWatchlist(ctx context.Context, id models.MovieID) (ToggleState, error) {
	var payload togglePayload
	if err := c.sendJSON(ctx, http.MethodPost, "/watchlist/toggle", movieIDPayload{MovieID: id}, &payload); err != nil {
		return "", err
	}
	return payload.Status, nil
}

// ToggleWatched flips the watched flag server-side. The backend also
// drops the movie from the watchlist; callers mirror that locally.
func (c *Client) ToggleWatched(ctx context.Context, id models.MovieID) (ToggleState, error) {
	var payload togglePayload
	if err := c.sendJSON(ctx, http.MethodPost, "/watched/toggle", movieIDPayload{MovieID: id}, &payload); err != nil {
		return "", err
	}
	return payload.Status, nil
}

// Reviews fetches all reviews for a movie by internal id.
func (c *Client) Reviews(ctx context.Context, id models.MovieID) ([]models.Review, error) {
	var reviews []models.Review
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/reviews", id), nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

type reviewSubmission struct {
	MovieID models.MovieID `json:"movie_id"`
	Rating  int            `json:"rating"`
	Comment string         `json:"comment"`
}

// SubmitReview posts a review for a movie. Draft validation happens in
// the caller before any request is made.
func (c *Client) SubmitReview(ctx context.Context, id models.MovieID, draft models.ReviewDraft) error {
	return c.sendJSON(ctx, http.MethodPost, "/review", reviewSubmission{
		MovieID: id,
		Rating:  draft.Rating,
		Comment: draft.Comment,
	}, nil)
}

// DeleteReview removes a review by its id. Ownership is enforced
// server-side.
func (c *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	return c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/review/%d", reviewID), nil, nil)
}
