package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"cinescintille/models"
)

func newFakeBackend(t *testing.T, configure func(r *mux.Router)) (*httptest.Server, *Client) {
	t.Helper()

	r := mux.NewRouter()
	configure(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	return srv, client
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	require.ErrorIs(t, err, ErrBaseURLRequired)
}

func TestLoginEstablishesSessionCookie(t *testing.T) {
	_, client := newFakeBackend(t, func(r *mux.Router) {
		r.HandleFunc("/login", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			json.NewDecoder(req.Body).Decode(&body)
			if body.Username != "nina" || body.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok-1", Path: "/"})
			writeJSON(w, models.Session{ID: 7, Username: "nina"})
		}).Methods(http.MethodPost)

		r.HandleFunc("/me", func(w http.ResponseWriter, req *http.Request) {
			cookie, err := req.Cookie("session")
			if err != nil || cookie.Value != "tok-1" {
				writeJSON(w, map[string]any{"user": nil})
				return
			}
			writeJSON(w, models.Session{ID: 7, Username: "nina"})
		}).Methods(http.MethodGet)
	})

	ctx := context.Background()

	// Anonymous before login.
	user, err := client.Me(ctx)
	require.NoError(t, err)
	require.Nil(t, user)

	session, err := client.Login(ctx, "nina", "secret")
	require.NoError(t, err)
	require.Equal(t, int64(7), session.ID)

	// The jar now carries the opaque credential automatically.
	user, err = client.Me(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, "nina", user.Username)
}

func TestLoginInvalidCredentials(t *testing.T) {
	_, client := newFakeBackend(t, func(r *mux.Router) {
		r.HandleFunc("/login", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}).Methods(http.MethodPost)
	})

	_, err := client.Login(context.Background(), "nina", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMeAnonymousShapes(t *testing.T) {
	for name, body := range map[string]string{
		"null":       `null`,
		"userNull":   `{"user": null}`,
		"emptyUser":  `{"id": 0, "username": ""}`,
		"noUsername": `{"id": 3}`,
	} {
		t.Run(name, func(t *testing.T) {
			payload := body
			_, client := newFakeBackend(t, func(r *mux.Router) {
				r.HandleFunc("/me", func(w http.ResponseWriter, req *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					fmt.Fprint(w, payload)
				})
			})

			user, err := client.Me(context.Background())
			require.NoError(t, err)
			require.Nil(t, user)
		})
	}
}

func TestIdentifierSpacesOnTheWire(t *testing.T) {
	var crewPath, hybridQuery, statusPath string

	_, client := newFakeBackend(t, func(r *mux.Router) {
		r.HandleFunc("/recommend/crew/{id}", func(w http.ResponseWriter, req *http.Request) {
			crewPath = req.URL.Path
			writeJSON(w, []models.MovieSummary{})
		})
		r.HandleFunc("/recommend/hybrid", func(w http.ResponseWriter, req *http.Request) {
			hybridQuery = req.URL.Query().Get("movie_id")
			writeJSON(w, []models.MovieSummary{})
		})
		r.HandleFunc("/movie/{id}/status", func(w http.ResponseWriter, req *http.Request) {
			statusPath = req.URL.Path
			writeJSON(w, models.EngagementStatus{})
		})
	})

	ctx := context.Background()
	_, err := client.CrewRecommendations(ctx, models.TMDBID(603))
	require.NoError(t, err)
	_, err = client.HybridRecommendations(ctx, models.MovieID(12))
	require.NoError(t, err)
	_, err = client.MovieStatus(ctx, models.MovieID(12))
	require.NoError(t, err)

	require.Equal(t, "/recommend/crew/603", crewPath)
	require.Equal(t, "12", hybridQuery)
	require.Equal(t, "/movie/12/status", statusPath)
}

func TestMovieDetailDecodesInternalID(t *testing.T) {
	_, client := newFakeBackend(t, func(r *mux.Router) {
		r.HandleFunc("/movie/{id}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, map[string]any{
				"movie": map[string]any{
					"id":          603,
					"internal_id": 12,
					"title":       "The Matrix",
					"genres":      []string{"Action", "Science Fiction"},
				},
				"trailer":  "vKQi3bBA1y8",
				"director": "Lana Wachowski",
				"cast": []map[string]any{
					{"id": 1, "name": "Keanu Reeves", "character": "Neo"},
				},
				"similar": []map[string]any{
					{"id": 604, "title": "The Matrix Reloaded"},
				},
			})
		})
	})

	detail, err := client.MovieDetail(context.Background(), models.TMDBID(603))
	require.NoError(t, err)
	require.Equal(t, models.TMDBID(603), detail.Movie.ID)
	require.Equal(t, models.MovieID(12), detail.Movie.InternalID)
	require.Equal(t, "The Matrix", detail.Movie.Title)
	require.Equal(t, "Lana Wachowski", detail.Director)
	require.Len(t, detail.Similar, 1)
}

func TestToggleAcknowledgments(t *testing.T) {
	var watchlistBody, watchedBody map[string]int64

	_, client := newFakeBackend(t, func(r *mux.Router) {
		r.HandleFunc("/watchlist/toggle", func(w http.ResponseWriter, req *http.Request) {
			json.NewDecoder(req.Body).Decode(&watchlistBody)
			writeJSON(w, map[string]string{"status": "added"})
		}).Methods(http.MethodPost)
		r.HandleFunc("/watched/toggle", func(w http.ResponseWriter, req *http.Request) {
			json.NewDecoder(req.Body).Decode(&watchedBody)
			writeJSON(w, map[string]string{"status": "removed"})
		}).Methods(http.MethodPost)
	})

	ctx := context.Background()

	state, err := client.ToggleWatchlist(ctx, models.MovieID(12))
	require.NoError(t, err)
	require.True(t, state.Added())
	require.Equal(t, int64(12), watchlistBody["movie_id"])

	state, err = client.ToggleWatched(ctx, models.MovieID(12))
	require.NoError(t, err)
	require.False(t, state.Added())
	require.Equal(t, int64(12), watchedBody["movie_id"])
}

func TestDeleteReviewMethodAndPath(t *testing.T) {
	var gotMethod, gotPath string

	_, client := newFakeBackend(t, func(r *mux.Router) {
		r.HandleFunc("/review/{id}", func(w http.ResponseWriter, req *http.Request) {
			gotMethod = req.Method
			gotPath = req.URL.Path
			writeJSON(w, map[string]string{"message": "deleted"})
		}).Methods(http.MethodDelete)
	})

	require.NoError(t, client.DeleteReview(context.Background(), 44))
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/review/44", gotPath)
}

func TestServerErrorSurfacesStatus(t *testing.T) {
	_, client := newFakeBackend(t, func(r *mux.Router) {
		r.HandleFunc("/home", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
	})

	_, err := client.Home(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}
