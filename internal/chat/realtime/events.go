package realtime

import "github.com/goccy/go-json"

// Server to client events.
const (
	EventMessageNew       = "message:new"
	EventMessageEdited    = "message:edited"
	EventMessageDeleted   = "message:deleted"
	EventReactionAdded    = "reaction:added"
	EventReactionRemoved  = "reaction:removed"
	EventTyping           = "typing"
	EventPresenceOnline   = "presence:online"
	EventPresenceSnapshot = "presence:snapshot"
	EventError            = "error"
)

// Client to server events.
const (
	EventConversationJoin  = "conversation:join"
	EventConversationLeave = "conversation:leave"
	EventTypingStart       = "typing:start"
	EventTypingStop        = "typing:stop"
)

// Envelope is the frame shape in both directions.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type MessageDeletedPayload struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
}

type ReactionRemovedPayload struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
	Emoji     string `json:"emoji"`
}

type TypingPayload struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	Typing         bool   `json:"typing"`
}

type PresencePayload struct {
	UserID string `json:"userId"`
	Online bool   `json:"online"`
}

type PresenceSnapshotPayload struct {
	UserIDs []string `json:"userIds"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func encodeEnvelope(event string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, Data: payload})
}
