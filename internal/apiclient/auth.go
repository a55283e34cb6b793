package apiclient

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrLoginRejected = errors.New("login rejected")

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	OK        bool       `json:"ok"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// User is the authenticated account
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

// Login exchanges credentials for a session token. The backend answers 200
// with ok=false for bad credentials; that is reported as ErrLoginRejected.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, "/auth/login", LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	if !resp.OK || resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "no token issued"
		}
		return &resp, fmt.Errorf("%w: %s", ErrLoginRejected, msg)
	}
	return &resp, nil
}

// Logout revokes the current token on the backend
func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, "/auth/logout", nil, nil)
}

// Me returns the user owning the current token
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.Get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
