package backend

import (
	"context"
	"net/http"

	"cinescintille/models"
)

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Avatar string `json:"avatar"`
}

// Profile fetches the current user's profile.
func (c *Client) Profile(ctx context.Context) (models.Session, error) {
	var profile models.Session
	if err := c.getJSON(ctx, "/profile", nil, &profile); err != nil {
		return models.Session{}, err
	}
	return profile, nil
}

// ProfileWatchlist fetches the user's saved movies.
func (c *Client) ProfileWatchlist(ctx context.Context) ([]models.MovieSummary, error) {
	var items []models.MovieSummary
	if err := c.getJSON(ctx, "/profile/watchlist", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ProfileWatched fetches the user's watched history, ordered oldest
// first. The feed aggregator reads the last element as the most recent
// watch.
func (c *Client) ProfileWatched(ctx context.Context) ([]models.MovieSummary, error) {
	var items []models.MovieSummary
	if err := c.getJSON(ctx, "/profile/watched", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ProfileReviews fetches the reviews written by the current user.
func (c *Client) ProfileReviews(ctx context.Context) ([]models.ProfileReview, error) {
	var reviews []models.ProfileReview
	if err := c.getJSON(ctx, "/profile/reviews", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpdateProfile saves edited profile fields.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	return c.sendJSON(ctx, http.MethodPost, "/profile/update", update, nil)
}
