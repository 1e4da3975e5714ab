package realtime

import (
	"sort"
	"sync"
)

// Rooms tracks which connections are subscribed to which conversation.
// Membership is a plain set: joining twice is a no-op and so is leaving a
// room you are not in. Callers are trusted to have checked access already.
type Rooms struct {
	mu        sync.RWMutex
	rooms     map[string]map[string]Subscriber // conversationID -> connID -> sub
	connRooms map[string]map[string]struct{}   // connID -> conversationIDs
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms:     make(map[string]map[string]Subscriber),
		connRooms: make(map[string]map[string]struct{}),
	}
}

// Join subscribes sub to conversationID.
func (r *Rooms) Join(sub Subscriber, conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.rooms[conversationID]
	if room == nil {
		room = make(map[string]Subscriber)
		r.rooms[conversationID] = room
	}
	room[sub.ID()] = sub

	memberships := r.connRooms[sub.ID()]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.connRooms[sub.ID()] = memberships
	}
	memberships[conversationID] = struct{}{}
}

// Leave unsubscribes connID from conversationID.
func (r *Rooms) Leave(connID, conversationID string) {
	r.mu.Lock()
	r.leaveLocked(connID, conversationID)
	r.mu.Unlock()
}

// LeaveAll drops every membership connID holds and returns the rooms it was in.
func (r *Rooms) LeaveAll(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	left := make([]string, 0, len(r.connRooms[connID]))
	for conversationID := range r.connRooms[connID] {
		left = append(left, conversationID)
	}
	for _, conversationID := range left {
		r.leaveLocked(connID, conversationID)
	}

	sort.Strings(left)
	return left
}

// Members is a snapshot of the subscribers in conversationID.
func (r *Rooms) Members(conversationID string) []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[conversationID]
	members := make([]Subscriber, 0, len(room))
	for _, sub := range room {
		members = append(members, sub)
	}
	return members
}

// RoomsOf lists the conversations connID is subscribed to, sorted.
func (r *Rooms) RoomsOf(connID string) []string {
	r.mu.RLock()
	rooms := make([]string, 0, len(r.connRooms[connID]))
	for conversationID := range r.connRooms[connID] {
		rooms = append(rooms, conversationID)
	}
	r.mu.RUnlock()

	sort.Strings(rooms)
	return rooms
}

func (r *Rooms) leaveLocked(connID, conversationID string) {
	room := r.rooms[conversationID]
	if room == nil {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, conversationID)
	}

	if memberships, ok := r.connRooms[connID]; ok {
		delete(memberships, conversationID)
		if len(memberships) == 0 {
			delete(r.connRooms, connID)
		}
	}
}
