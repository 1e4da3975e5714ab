package chatsdk

import (
	"context"
	"net/http"
)

// Register creates an account from an invite and keeps the returned token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/v1/auth/register", req, http.StatusCreated)
}

// Login keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/v1/auth/login", req, http.StatusOK)
}

// Logout clears the server cookie and forgets the local token.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, false)
	if err != nil {
		return err
	}
	if err := checkStatusNoContent(resp); err != nil {
		return err
	}

	c.SetToken("")
	return nil
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/auth/me", nil, true)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) authenticate(ctx context.Context, path string, body any, expected int) (*AuthResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, path, body, false)
	if err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := decodeJSON(resp, &auth, expected); err != nil {
		return nil, err
	}

	c.SetToken(auth.Token)
	return &auth, nil
}
