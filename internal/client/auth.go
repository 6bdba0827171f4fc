package client

import (
	"context"
	"net/http"

	"taskboard/internal/models/user"
)

// Login opens a backend session; the session cookie lands in the jar.
func (c *Client) Login(ctx context.Context, username, password string) (*user.User, error) {
	var me user.User
	err := c.do(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Username: username, Password: password}, &me)
	if err != nil {
		return nil, err
	}
	return &me, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	var created user.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Me returns the session user; a 401 means there is no session.
func (c *Client) Me(ctx context.Context) (*user.User, error) {
	var me user.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
