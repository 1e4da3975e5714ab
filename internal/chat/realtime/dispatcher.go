package realtime

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
)

var (
	ErrSubscriberClosed = errors.New("realtime: subscriber closed")
	ErrSendBufferFull   = errors.New("realtime: send buffer full")
)

// Subscriber is one live connection as the dispatcher sees it. Send must
// not block; a full or closed subscriber reports an error instead.
type Subscriber interface {
	ID() string
	UserID() string
	Send(frame []byte) error
	Close()
}

// Publisher is what the message and reaction write paths call once a change
// is committed.
type Publisher interface {
	MessageNew(msg domain.Message) int
	MessageEdited(msg domain.Message) int
	MessageDeleted(messageID, conversationID string) int
	ReactionAdded(r domain.Reaction) int
	ReactionRemoved(messageID, conversationID, userID, emoji string) int
}

// Dispatcher fans events out to the subscribers of a conversation room, or
// to everyone attached for global events. Delivery is best effort: nothing
// is queued for subscribers that are slow or gone.
type Dispatcher struct {
	rooms  *Rooms
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[string]Subscriber
}

var _ Publisher = (*Dispatcher)(nil)

func NewDispatcher(rooms *Rooms, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		rooms:  rooms,
		logger: logger,
		subs:   make(map[string]Subscriber),
	}
}

// Rooms exposes the membership table the dispatcher routes through.
func (d *Dispatcher) Rooms() *Rooms { return d.rooms }

// Attach makes sub reachable by global broadcasts.
func (d *Dispatcher) Attach(sub Subscriber) {
	d.mu.Lock()
	d.subs[sub.ID()] = sub
	n := len(d.subs)
	d.mu.Unlock()

	activeConnections.Set(float64(n))
}

// Detach forgets connID entirely, including every room it had joined, and
// returns those rooms.
func (d *Dispatcher) Detach(connID string) []string {
	left := d.rooms.LeaveAll(connID)

	d.mu.Lock()
	delete(d.subs, connID)
	n := len(d.subs)
	d.mu.Unlock()

	activeConnections.Set(float64(n))
	return left
}

// Broadcast sends event to every subscriber joined to conversationID and
// returns how many accepted it.
func (d *Dispatcher) Broadcast(conversationID, event string, payload any) int {
	return d.deliver(d.rooms.Members(conversationID), event, payload)
}

// BroadcastAll sends event to every attached subscriber.
func (d *Dispatcher) BroadcastAll(event string, payload any) int {
	d.mu.RLock()
	subs := make([]Subscriber, 0, len(d.subs))
	for _, sub := range d.subs {
		subs = append(subs, sub)
	}
	d.mu.RUnlock()

	return d.deliver(subs, event, payload)
}

// SendTo delivers event to a single subscriber.
func (d *Dispatcher) SendTo(sub Subscriber, event string, payload any) error {
	frame, err := encodeEnvelope(event, payload)
	if err != nil {
		return err
	}
	if err := sub.Send(frame); err != nil {
		fanoutDropped.WithLabelValues(event).Inc()
		return err
	}
	fanoutDeliveries.WithLabelValues(event).Inc()
	return nil
}

// deliver encodes once and offers the same frame to each subscriber.
func (d *Dispatcher) deliver(subs []Subscriber, event string, payload any) int {
	if len(subs) == 0 {
		return 0
	}

	frame, err := encodeEnvelope(event, payload)
	if err != nil {
		d.logger.Error("failed to encode event", slog.String("event", event), slog.Any("error", err))
		return 0
	}

	delivered := 0
	for _, sub := range subs {
		if err := sub.Send(frame); err != nil {
			fanoutDropped.WithLabelValues(event).Inc()
			d.logger.Debug("subscriber dropped event",
				slog.String("event", event),
				slog.String("conn_id", sub.ID()),
				slog.Any("error", err),
			)
			continue
		}
		delivered++
	}

	fanoutDeliveries.WithLabelValues(event).Add(float64(delivered))
	return delivered
}

// Close shuts every attached subscriber down, in id order.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	subs := make([]Subscriber, 0, len(d.subs))
	for _, sub := range d.subs {
		subs = append(subs, sub)
	}
	d.subs = make(map[string]Subscriber)
	d.mu.Unlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].ID() < subs[j].ID() })
	for _, sub := range subs {
		d.rooms.LeaveAll(sub.ID())
		sub.Close()
	}

	activeConnections.Set(0)
	d.logger.Info("realtime dispatcher closed", slog.Int("subscribers_closed", len(subs)))
}

func (d *Dispatcher) MessageNew(msg domain.Message) int {
	return d.Broadcast(msg.ConversationID, EventMessageNew, msg)
}

func (d *Dispatcher) MessageEdited(msg domain.Message) int {
	return d.Broadcast(msg.ConversationID, EventMessageEdited, msg)
}

func (d *Dispatcher) MessageDeleted(messageID, conversationID string) int {
	return d.Broadcast(conversationID, EventMessageDeleted, MessageDeletedPayload{
		ID:             messageID,
		ConversationID: conversationID,
	})
}

func (d *Dispatcher) ReactionAdded(r domain.Reaction) int {
	return d.Broadcast(r.ConversationID, EventReactionAdded, r)
}

func (d *Dispatcher) ReactionRemoved(messageID, conversationID, userID, emoji string) int {
	return d.Broadcast(conversationID, EventReactionRemoved, ReactionRemovedPayload{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	})
}
