// Package client is the Go client for the TaskPilot REST API. It owns the
// session token, attaches it as a bearer header on every authenticated call,
// and exposes the task operations the TaskPilot front ends are built on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNoSession is returned when an operation needs a session and no
	// token is stored. No network call has been made.
	ErrNoSession = errors.New("client: not logged in")

	// ErrUnauthorized is returned when the server rejects the stored token.
	// The token has already been cleared; the caller should log in again.
	ErrUnauthorized = errors.New("client: session rejected by server")

	// ErrSessionExpired is returned by RequireSession when a stored token
	// turned out to be unusable.
	ErrSessionExpired = errors.New("client: session expired")

	// ErrPastDueDate is returned by Create and Update before any network
	// call when the due date is earlier than today.
	ErrPastDueDate = errors.New("client: due date cannot be in the past")
)

// APIError carries a non-2xx response's status code and server message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: server responded %d: %s", e.StatusCode, e.Message)
}

// Task mirrors the API's task wire format. DueDate is a YYYY-MM-DD string and
// is compared as such.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"dueDate"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// User is the read-only profile projection returned by the API.
type User struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// PlaceholderAvatarURL substitutes for an unset avatar.
const PlaceholderAvatarURL = "https://randomuser.me/api/portraits/lego/1.jpg"

type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenStore

	user *User
}

// New returns a client for the API at baseURL. The underlying http.Client has
// no timeout: a request runs until it completes or its context is done.
func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		tokens:  tokens,
	}
}

// CurrentUser returns the profile cached by the last successful Me call, or
// nil when none is cached. Logout and a rejected session both drop it.
func (c *Client) CurrentUser() *User {
	return c.user
}

func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, out any) error {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		if err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, err := c.tokens.Load()
		if err != nil {
			return err
		}
		if token == "" {
			return ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized && authed {
		// Session is no longer good. Drop the token so the next
		// operation reports ErrNoSession instead of retrying a dead one.
		c.tokens.Clear()
		c.user = nil
		return ErrUnauthorized
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{
			StatusCode: res.StatusCode,
			Message:    serverMessage(res),
		}
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}

func serverMessage(res *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	err := json.NewDecoder(res.Body).Decode(&body)
	if err != nil || body.Message == "" {
		return http.StatusText(res.StatusCode)
	}
	return body.Message
}
