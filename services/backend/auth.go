package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cinescintille/models"
)

// RegisterRequest carries the fields for account creation.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Age      int    `json:"age,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates and returns the resulting session. The backend
// sets the session cookie on success; the jar carries it from then on.
func (c *Client) Login(ctx context.Context, username, password string) (models.Session, error) {
	var session models.Session
	err := c.sendJSON(ctx, http.MethodPost, "/login", loginRequest{Username: username, Password: password}, &session)
	if errors.Is(err, ErrUnauthorized) {
		return models.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// Register creates an account and, like login, establishes a session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (models.Session, error) {
	var session models.Session
	if err := c.sendJSON(ctx, http.MethodPost, "/register", req, &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// Logout tells the backend to drop the session. Callers treat this as
// best-effort; local session state is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/logout", nil, nil)
}

// Me probes the current session. A nil session with a nil error means
// the backend answered but no user is logged in; only transport or
// server failures return an error.
func (c *Client) Me(ctx context.Context) (*models.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	// The anonymous shapes are null and {"user": null}; both decode to
	// a session without an id.
	var session models.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	if !session.Valid() {
		return nil, nil
	}
	return &session, nil
}
