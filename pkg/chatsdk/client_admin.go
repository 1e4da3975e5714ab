package chatsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Bootstrap creates the first administrator and keeps its token.
func (c *Client) Bootstrap(ctx context.Context, req BootstrapRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/v1/admin/bootstrap", req, http.StatusCreated)
}

func (c *Client) GetConfig(ctx context.Context) (*AppConfigResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/admin/config", nil, true)
	if err != nil {
		return nil, err
	}

	var cfg AppConfigResponse
	if err := decodeJSON(resp, &cfg, http.StatusOK); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaultInvites changes the quota handed to accounts created from now on.
func (c *Client) SetDefaultInvites(ctx context.Context, value int) (*AppConfigResponse, error) {
	resp, err := c.do(ctx, http.MethodPatch, "/v1/admin/config", AppConfigRequest{DefaultInvitesPerUser: &value}, true)
	if err != nil {
		return nil, err
	}

	var cfg AppConfigResponse
	if err := decodeJSON(resp, &cfg, http.StatusOK); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AdjustQuota adds amount (possibly negative) to one user's invites.
func (c *Client) AdjustQuota(ctx context.Context, userID string, amount int) (*QuotaAdjustResponse, error) {
	path := "/v1/admin/users/" + url.PathEscape(userID) + "/invites/adjust"
	resp, err := c.do(ctx, http.MethodPost, path, QuotaAdjustRequest{Amount: amount}, true)
	if err != nil {
		return nil, err
	}

	var out QuotaAdjustResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetQuotas sets every user's invites to value.
func (c *Client) ResetQuotas(ctx context.Context, value int) (*QuotaResetResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/v1/admin/invites/reset", QuotaResetRequest{Value: &value}, true)
	if err != nil {
		return nil, err
	}

	var out QuotaResetResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
