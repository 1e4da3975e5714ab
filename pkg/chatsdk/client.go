package chatsdk

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client talks to one tabchat server. After Register, Login or Bootstrap it
// holds the returned access token and sends it on every later call.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken replaces the access token, e.g. one restored from disk.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// RealtimeURL is the websocket endpoint with the current token attached as
// a query parameter, which browsers need since they cannot set headers on
// upgrade requests.
func (c *Client) RealtimeURL() string {
	u := c.BaseURL + "/v1/realtime"
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}

	if tok := c.Token(); tok != "" {
		u += "?token=" + tok
	}
	return u
}
