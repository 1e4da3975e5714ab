// Package chatsdk is a Go client for the tabchat HTTP API.
//
// The request and response types here are also what the server decodes and
// encodes, so the two sides cannot drift apart.
//
//	c := chatsdk.NewClient("http://localhost:4000")
//	if _, err := c.Login(ctx, chatsdk.LoginRequest{EmailOrUsername: "alice", Password: "..."}); err != nil {
//		return err
//	}
//	invite, err := c.IssueInvite(ctx, chatsdk.InviteRequest{ExpiresInDays: 3})
//
// Errors returned by the server come back as *APIError and can be matched
// on Code or StatusCode.
package chatsdk
