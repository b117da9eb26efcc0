package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Login validates the credentials locally, exchanges them for a token and
// persists it. A validation failure issues no network call. One attempt, no
// retries.
func (c *Client) Login(ctx context.Context, email, password string) error {
	err := ValidateCredentials(email, password)
	if err != nil {
		return err
	}

	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	var out struct {
		Token string `json:"token"`
	}
	err = c.do(ctx, http.MethodPost, "/api/auth/login", body, false, &out)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if out.Token == "" {
		return errors.New("login failed: server returned no token")
	}
	return c.tokens.Save(out.Token)
}

// Register creates an account and returns the server's confirmation message.
// It does not log the new user in.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	err := ValidateRegistration(name, email, password)
	if err != nil {
		return "", err
	}

	body := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{name, email, password}
	var out struct {
		Message string `json:"message"`
	}
	err = c.do(ctx, http.MethodPost, "/api/auth/register", body, false, &out)
	if err != nil {
		return "", fmt.Errorf("registration failed: %w", err)
	}
	return out.Message, nil
}

// Me fetches the current user's profile. The avatar falls back to a
// placeholder when the account has none.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, true, &out)
	if err != nil {
		return nil, err
	}
	if out.User.AvatarURL == "" {
		out.User.AvatarURL = PlaceholderAvatarURL
	}
	c.user = &out.User
	return c.user, nil
}

// RequireSession gates a protected view. With no stored token it returns
// ErrNoSession without touching the network. With one, it asks the server who
// the token belongs to; any failure clears the token and reports
// ErrSessionExpired so the caller sends the user back to login.
func (c *Client) RequireSession(ctx context.Context) (*User, error) {
	token, err := c.tokens.Load()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNoSession
	}
	u, err := c.Me(ctx)
	if err != nil {
		c.tokens.Clear()
		c.user = nil
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return u, nil
}

// Logout drops the stored token and cached profile. The server is not told;
// the token simply stops being presented.
func (c *Client) Logout() error {
	c.user = nil
	return c.tokens.Clear()
}
