package core

import (
	"sort"
	"time"
)

// buddyGraph tracks which usernames each user watches. Entries survive
// disconnects for the lifetime of the room actor and may reference
// users who are currently offline.
type buddyGraph struct {
	sets map[string]map[string]struct{}
}

func newBuddyGraph() *buddyGraph {
	return &buddyGraph{sets: make(map[string]map[string]struct{})}
}

// add inserts buddy into owner's set. Returns false if already present.
func (g *buddyGraph) add(owner, buddy string) bool {
	set, ok := g.sets[owner]
	if !ok {
		set = make(map[string]struct{})
		g.sets[owner] = set
	}
	if _, exists := set[buddy]; exists {
		return false
	}
	set[buddy] = struct{}{}
	return true
}

func (g *buddyGraph) size(owner string) int {
	return len(g.sets[owner])
}

// watchers returns every owner whose buddy set contains username,
// sorted for deterministic fan-out.
func (g *buddyGraph) watchers(username string) []string {
	var owners []string
	for owner, set := range g.sets {
		if _, ok := set[username]; ok {
			owners = append(owners, owner)
		}
	}
	sort.Strings(owners)
	return owners
}

// addBuddy records the relationship and resends the owner's buddy list.
func (r *Room) addBuddy(s *Session, owner, buddy string) {
	r.buddies.add(owner, buddy)
	s.trySend(r.buddyListEvent(owner))
}

// buddyListEvent computes the buddy list a client sees: every other
// online user with status, away message, and warning level. The list is
// not filtered to the owner's declared buddy set.
func (r *Room) buddyListEvent(username string) *Event {
	entries := make([]BuddyEntry, 0)
	r.presence.each(func(name string, e *presenceEntry) {
		if name == username {
			return
		}
		entries = append(entries, BuddyEntry{
			Username:     name,
			Status:       e.status,
			AwayMessage:  e.awayMessage,
			WarningLevel: r.warnings.level(name),
		})
	})
	return &Event{Kind: EventBuddyList, Username: username, Buddies: entries}
}

// sendBuddyListToAll resends every online session its personalized
// buddy list.
func (r *Room) sendBuddyListToAll() {
	r.presence.each(func(name string, e *presenceEntry) {
		e.session.trySend(r.buddyListEvent(name))
	})
}

// notifyBuddiesOfStatus fans a status update out to the online owners
// watching username. This is the one path that honors the buddy set.
func (r *Room) notifyBuddiesOfStatus(username string, status Status, awayMessage *string) {
	ev := &Event{
		Kind:        EventBuddyStatus,
		Username:    username,
		Status:      status,
		AwayMessage: awayMessage,
		Timestamp:   time.Now(),
	}
	for _, owner := range r.buddies.watchers(username) {
		if e, ok := r.presence.get(owner); ok {
			e.session.trySend(ev)
		}
	}
}
