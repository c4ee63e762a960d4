package core

import (
	"sort"
	"time"
)

// Status is a user's reachability as shown to other users.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusAway      Status = "Away"
	// StatusOffline only ever appears in departure notices; an offline
	// user has no presence entry at all.
	StatusOffline Status = "Offline"
)

// presenceEntry is the live record for one online username.
type presenceEntry struct {
	session     *Session
	status      Status
	awayMessage *string
	signOnTime  time.Time
}

// presenceTable is the source of truth for who is online. Only the
// room's event loop touches it.
type presenceTable struct {
	entries map[string]*presenceEntry
}

func newPresenceTable() *presenceTable {
	return &presenceTable{entries: make(map[string]*presenceEntry)}
}

// signOn records a username as online. A concurrent duplicate login
// overwrites the previous entry, last writer wins.
func (p *presenceTable) signOn(username string, s *Session) {
	p.entries[username] = &presenceEntry{
		session:    s,
		status:     StatusAvailable,
		signOnTime: time.Now(),
	}
}

func (p *presenceTable) get(username string) (*presenceEntry, bool) {
	e, ok := p.entries[username]
	return e, ok
}

func (p *presenceTable) remove(username string) {
	delete(p.entries, username)
}

// usernames returns every online username except exclude, sorted for
// deterministic payloads.
func (p *presenceTable) usernames(exclude string) []string {
	names := make([]string, 0, len(p.entries))
	for name := range p.entries {
		if name != exclude {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// each visits entries in username order.
func (p *presenceTable) each(fn func(username string, e *presenceEntry)) {
	for _, name := range p.usernames("") {
		fn(name, p.entries[name])
	}
}

// changeStatus mutates the presence entry in place and broadcasts the
// change to every other online session. Presence changes are room-wide
// public information; the buddy-filtered fan-out is a separate path.
func (r *Room) changeStatus(username string, status Status, awayMessage *string) {
	if e, ok := r.presence.get(username); ok {
		e.status = status
		e.awayMessage = awayMessage
	}

	ev := &Event{
		Kind:        EventBuddyStatus,
		Username:    username,
		Status:      status,
		AwayMessage: awayMessage,
		Timestamp:   time.Now(),
	}
	r.presence.each(func(name string, e *presenceEntry) {
		if name != username {
			e.session.trySend(ev)
		}
	})
}

// setAwayMessage is sugar for going Away with a message.
func (r *Room) setAwayMessage(username, message string) {
	r.changeStatus(username, StatusAway, &message)
}
