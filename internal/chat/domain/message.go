package domain

import "time"

// Messages and reactions are owned by the persistence layer. The realtime
// core only ever receives committed instances to broadcast, so these carry
// their wire tags directly.

type MessageType string

const (
	MessageText  MessageType = "TEXT"
	MessageImage MessageType = "IMAGE"
	MessageVoice MessageType = "VOICE"
	MessageFile  MessageType = "FILE"
)

type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationId"`
	SenderID       string      `json:"senderId"`
	Type           MessageType `json:"type"`
	Text           string      `json:"text,omitempty"`
	MediaURL       string      `json:"mediaUrl,omitempty"`
	MediaMimeType  string      `json:"mediaMimeType,omitempty"`
	FileName       string      `json:"fileName,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	EditedAt       *time.Time  `json:"editedAt,omitempty"`
	DeletedAt      *time.Time  `json:"deletedAt,omitempty"`
}

type Reaction struct {
	ID             string    `json:"id"`
	MessageID      string    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	UserID         string    `json:"userId"`
	Emoji          string    `json:"emoji"`
	CreatedAt      time.Time `json:"createdAt"`
}
