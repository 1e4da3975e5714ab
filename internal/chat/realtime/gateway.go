package realtime

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/aussiebroadwan/tabchat/pkg/httpx"
	"github.com/aussiebroadwan/tabchat/pkg/jwtx"
	"github.com/aussiebroadwan/tabchat/pkg/slogx"
)

var ErrUnauthorized = errors.New("realtime: missing or invalid token")

// Gateway upgrades authenticated requests to websockets and translates
// client frames into room and typing operations.
type Gateway struct {
	verifier   jwtx.Verifier
	presence   *Presence
	dispatcher *Dispatcher
	typing     *Typing
	upgrader   websocket.Upgrader

	// InboundLimit caps client frames per connection.
	InboundLimit httpx.RateLimitConfig
}

// NewGateway wires a gateway. allowedOrigins restricts browser origins;
// empty or "*" accepts any.
func NewGateway(v jwtx.Verifier, p *Presence, d *Dispatcher, allowedOrigins []string) *Gateway {
	return &Gateway{
		verifier:   v,
		presence:   p,
		dispatcher: d,
		typing:     NewTyping(d),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		InboundLimit: httpx.RealtimeLimit,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// ServeHTTP authenticates once, then holds the connection until the client
// goes away.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	raw := httpx.TokenFromRequest(r, true)
	if raw == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", ErrUnauthorized.Error())
		return
	}

	claims, err := g.verifier.Verify(raw)
	if err != nil {
		log.Warn("realtime token rejected", slog.Any("error", err))
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", ErrUnauthorized.Error())
		return
	}

	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the response
		log.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	conn := newConn(claims.Subject, ws)
	ctx = slogx.WithConn(ctx, conn.ID(), conn.UserID())

	g.connect(ctx, conn)
	defer g.disconnect(ctx, conn)

	g.readLoop(ctx, conn)
}

func (g *Gateway) connect(ctx context.Context, conn *Conn) {
	g.dispatcher.Attach(conn)
	go conn.writePump()

	g.presence.Transition(conn.UserID(), true, g.announcePresence)

	_ = g.dispatcher.SendTo(conn, EventPresenceSnapshot, PresenceSnapshotPayload{
		UserIDs: g.presence.Snapshot(),
	})

	slogx.FromContext(ctx).Info("realtime connection opened")
}

func (g *Gateway) disconnect(ctx context.Context, conn *Conn) {
	left := g.dispatcher.Detach(conn.ID())
	conn.Close()

	g.presence.Transition(conn.UserID(), false, g.announcePresence)

	slogx.FromContext(ctx).Info("realtime connection closed", slog.Int("rooms_left", len(left)))
}

// announcePresence runs under the presence lock. BroadcastAll only queues
// frames, so it never waits on a client.
func (g *Gateway) announcePresence(userID string, online bool) {
	g.dispatcher.BroadcastAll(EventPresenceOnline, PresencePayload{UserID: userID, Online: online})
}

func (g *Gateway) readLoop(ctx context.Context, conn *Conn) {
	log := slogx.FromContext(ctx)
	limiter := g.InboundLimit.Limiter()

	conn.ws.SetReadLimit(maxFrameSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				log.Debug("websocket read ended", slog.Any("error", err))
			}
			return
		}

		if !limiter.Allow() {
			inboundFrames.WithLabelValues("", "rate_limited").Inc()
			g.replyError(conn, "rate_limited", "too many frames")
			continue
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			inboundFrames.WithLabelValues("", "malformed").Inc()
			g.replyError(conn, "bad_request", "frame is not valid JSON")
			continue
		}

		g.handleFrame(ctx, conn, frame)
	}
}

func (g *Gateway) handleFrame(ctx context.Context, conn *Conn, frame inboundFrame) {
	switch frame.Event {
	case EventConversationJoin, EventConversationLeave, EventTypingStart, EventTypingStop:
	default:
		inboundFrames.WithLabelValues("unknown", "unsupported").Inc()
		g.replyError(conn, "unsupported_event", "unknown event "+frame.Event)
		return
	}

	conversationID, ok := decodeConversationID(frame.Data)
	if !ok {
		inboundFrames.WithLabelValues(frame.Event, "bad_request").Inc()
		g.replyError(conn, "bad_request", "conversationId is required")
		return
	}

	rooms := g.dispatcher.Rooms()
	switch frame.Event {
	case EventConversationJoin:
		rooms.Join(conn, conversationID)
		slogx.FromContext(ctx).Debug("joined conversation", slog.String("conversation_id", conversationID))
	case EventConversationLeave:
		rooms.Leave(conn.ID(), conversationID)
	case EventTypingStart:
		g.typing.Set(conversationID, conn.UserID(), true)
	case EventTypingStop:
		g.typing.Set(conversationID, conn.UserID(), false)
	}
	inboundFrames.WithLabelValues(frame.Event, "ok").Inc()
}

func (g *Gateway) replyError(conn *Conn, code, message string) {
	_ = g.dispatcher.SendTo(conn, EventError, ErrorPayload{Code: code, Message: message})
}

// decodeConversationID accepts either a bare string or
// {"conversationId": "..."} as frame data.
func decodeConversationID(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, id != ""
	}

	var obj struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ConversationID, obj.ConversationID != ""
	}
	return "", false
}
