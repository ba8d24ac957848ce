package flipcash

import (
	"context"
	"net/http"
)

// LoginRequest authenticates a partner against the upstream API
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,inphone"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the upstream bearer token and partner profile
type LoginResponse struct {
	Token   string  `json:"token"`
	Partner Partner `json:"partner"`
}

// Login exchanges partner credentials for an upstream bearer token. It is
// the only call issued without a TokenSource.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/partner-auth/login/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the upstream token, best-effort
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/partner-auth/logout/", nil, nil)
	return err
}

// Me fetches the authenticated partner profile
func (c *Client) Me(ctx context.Context) (*Partner, error) {
	var partner Partner
	if err := c.getJSON(ctx, "/partner-auth/me/", nil, &partner); err != nil {
		return nil, err
	}
	return &partner, nil
}
