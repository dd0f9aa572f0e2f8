package backend

import (
	"context"
	"fmt"
	"net/url"

	"cinescintille/models"
)

// HomePayload is the /home response: the hero carousel subset plus the
// full popular (trending) row.
type HomePayload struct {
	Hero    []models.MovieSummary `json:"hero"`
	Popular []models.MovieSummary `json:"popular"`
}

// Search runs a free-text title search. Results are ordered by the
// backend; an empty query is the caller's responsibility to suppress.
func (c *Client) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	q := url.Values{"q": {query}}
	var results []models.MovieSummary
	if err := c.getJSON(ctx, "/search", q, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Home fetches the trending/popular row set.
func (c *Client) Home(ctx context.Context) (HomePayload, error) {
	var payload HomePayload
	if err := c.getJSON(ctx, "/home", nil, &payload); err != nil {
		return HomePayload{}, err
	}
	return payload, nil
}

// TopRated fetches the ranked top-rated-unwatched row for the current
// user.
func (c *Client) TopRated(ctx context.Context) ([]models.MovieSummary, error) {
	var items []models.MovieSummary
	if err := c.getJSON(ctx, "/recommend/top-rated", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Collaborative fetches the collaborative-filtering row for the current
// user.
func (c *Client) Collaborative(ctx context.Context) ([]models.MovieSummary, error) {
	var items []models.MovieSummary
	if err := c.getJSON(ctx, "/recommend/collaborative", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ContentRecommendations fetches movies similar in content to the seed.
// The seed is a TMDB id.
func (c *Client) ContentRecommendations(ctx context.Context, seed models.TMDBID) ([]models.MovieSummary, error) {
	var items []models.MovieSummary
	if err := c.getJSON(ctx, fmt.Sprintf("/recommend/content/%d", seed), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CrewRecommendations fetches movies sharing key crew with the seed.
// This endpoint is keyed by TMDB id, unlike the hybrid endpoint.
func (c *Client) CrewRecommendations(ctx context.Context, seed models.TMDBID) ([]models.MovieSummary, error) {
	var items []models.MovieSummary
	if err := c.getJSON(ctx, fmt.Sprintf("/recommend/crew/%d", seed), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// HybridRecommendations fetches the blended row for a movie. It accepts
// only the resolved internal id.
func (c *Client) HybridRecommendations(ctx context.Context, movieID models.MovieID) ([]models.MovieSummary, error) {
	q := url.Values{"movie_id": {fmt.Sprintf("%d", movieID)}}
	var items []models.MovieSummary
	if err := c.getJSON(ctx, "/recommend/hybrid", q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MovieDetail fetches the primary detail payload by TMDB id. The
// response is the only source of the movie's internal id.
func (c *Client) MovieDetail(ctx context.Context, id models.TMDBID) (*models.MovieDetail, error) {
	var detail models.MovieDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
