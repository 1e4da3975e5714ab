package realtime

import (
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// fakeSub records every frame it is sent.
type fakeSub struct {
	id     string
	userID string
	limit  int

	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newFakeSub(id, userID string) *fakeSub {
	return &fakeSub{id: id, userID: userID, limit: -1}
}

func (f *fakeSub) ID() string     { return f.id }
func (f *fakeSub) UserID() string { return f.userID }

func (f *fakeSub) Send(frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrSubscriberClosed
	}
	if f.limit >= 0 && len(f.frames) >= f.limit {
		return ErrSendBufferFull
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeSub) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeSub) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type decodedFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (f *fakeSub) received(t *testing.T) []decodedFrame {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]decodedFrame, 0, len(f.frames))
	for _, raw := range f.frames {
		var d decodedFrame
		require.NoError(t, json.Unmarshal(raw, &d))
		out = append(out, d)
	}
	return out
}
