package realtime

// Typing relays typing indicators. It keeps no state; a client that
// reconnects assumes nobody is typing until told otherwise.
type Typing struct {
	dispatcher *Dispatcher
}

func NewTyping(d *Dispatcher) *Typing {
	return &Typing{dispatcher: d}
}

// Set broadcasts userID's typing state to the conversation room.
func (t *Typing) Set(conversationID, userID string, typing bool) int {
	return t.dispatcher.Broadcast(conversationID, EventTyping, TypingPayload{
		ConversationID: conversationID,
		UserID:         userID,
		Typing:         typing,
	})
}
