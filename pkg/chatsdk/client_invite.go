package chatsdk

import (
	"context"
	"net/http"
	"net/url"
)

// IssueInvite spends one of the caller's invites.
func (c *Client) IssueInvite(ctx context.Context, req InviteRequest) (*InviteResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/v1/invites", req, true)
	if err != nil {
		return nil, err
	}

	var invite InviteResponse
	if err := decodeJSON(resp, &invite, http.StatusCreated); err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListInvites returns the caller's invites, newest first.
func (c *Client) ListInvites(ctx context.Context) ([]InviteResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/invites", nil, true)
	if err != nil {
		return nil, err
	}

	var list InviteListResponse
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}
	return list.Invites, nil
}

// RevokeInvite cancels one of the caller's unresolved invites.
func (c *Client) RevokeInvite(ctx context.Context, code string) error {
	resp, err := c.do(ctx, http.MethodPost, "/v1/invites/"+url.PathEscape(code)+"/revoke", nil, true)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ValidateInvite needs no token; it is what a signup page calls.
func (c *Client) ValidateInvite(ctx context.Context, code string) (*InviteValidationResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/invites/"+url.PathEscape(code), nil, false)
	if err != nil {
		return nil, err
	}

	var v InviteValidationResponse
	if err := decodeJSON(resp, &v, http.StatusOK); err != nil {
		return nil, err
	}
	return &v, nil
}

// InviteTree returns the referral tree under the caller, or under root when
// the caller is an admin and root is non-empty.
func (c *Client) InviteTree(ctx context.Context, root string) (*ReferralTreeResponse, error) {
	path := "/v1/invites/tree"
	if root != "" {
		path += "?root=" + url.QueryEscape(root)
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}

	var tree ReferralTreeResponse
	if err := decodeJSON(resp, &tree, http.StatusOK); err != nil {
		return nil, err
	}
	return &tree, nil
}
