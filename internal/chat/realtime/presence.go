package realtime

import (
	"sort"
	"sync"
)

// Presence counts live connections per user. A user is online while the
// count is above zero, so several tabs or devices only announce once.
type Presence struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewPresence() *Presence {
	return &Presence{counts: make(map[string]int)}
}

// MarkOnline records one more connection for userID and returns the new
// count. A result of 1 means the user just came online.
func (p *Presence) MarkOnline(userID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.markOnlineLocked(userID)
}

func (p *Presence) markOnlineLocked(userID string) int {
	p.counts[userID]++
	onlineUsers.Set(float64(len(p.counts)))
	return p.counts[userID]
}

// MarkOffline drops one connection for userID and returns what is left,
// never going below zero.
func (p *Presence) MarkOffline(userID string) int {
	n, _ := p.MarkOfflineTransition(userID)
	return n
}

// MarkOfflineTransition is MarkOffline that also reports whether this call
// took the user from one connection to none. Unknown users report false.
func (p *Presence) MarkOfflineTransition(userID string) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.markOfflineLocked(userID)
}

func (p *Presence) markOfflineLocked(userID string) (int, bool) {
	n, ok := p.counts[userID]
	if !ok {
		return 0, false
	}

	n--
	if n <= 0 {
		delete(p.counts, userID)
		onlineUsers.Set(float64(len(p.counts)))
		return 0, true
	}
	p.counts[userID] = n
	return n, false
}

// Transition marks one connection opened (online) or closed and, when that
// crosses the zero boundary, calls emit before the registry lock is
// released. Announcements for a user therefore go out in the same order as
// the transitions they describe. emit must not call back into p.
func (p *Presence) Transition(userID string, online bool, emit func(userID string, online bool)) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if online {
		n := p.markOnlineLocked(userID)
		if n == 1 {
			emit(userID, true)
		}
		return n
	}

	n, wentOffline := p.markOfflineLocked(userID)
	if wentOffline {
		emit(userID, false)
	}
	return n
}

func (p *Presence) IsOnline(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[userID] > 0
}

// Count returns the number of live connections userID has.
func (p *Presence) Count(userID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[userID]
}

// Snapshot lists every online user, sorted.
func (p *Presence) Snapshot() []string {
	p.mu.Lock()
	users := make([]string, 0, len(p.counts))
	for id := range p.counts {
		users = append(users, id)
	}
	p.mu.Unlock()

	sort.Strings(users)
	return users
}

// Len is the number of online users.
func (p *Presence) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.counts)
}
