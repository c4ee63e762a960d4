package core

import "time"

// EventKind is a notification the room emits to sessions.
type EventKind int

const (
	// EventWelcome greets a new session with the other online users.
	EventWelcome EventKind = iota
	// EventBuddyList delivers a session's personalized buddy list.
	EventBuddyList
	// EventUserJoined announces an arrival to the rest of the room.
	EventUserJoined
	// EventUserLeft announces a departure to the rest of the room.
	EventUserLeft
	// EventMessage delivers an instant message to its recipient.
	EventMessage
	// EventMessageDelivered acknowledges delivery to the sender.
	EventMessageDelivered
	// EventMessageOffline tells the sender the peer is unreachable.
	EventMessageOffline
	// EventBuddyStatus reports a status change for one user.
	EventBuddyStatus
	// EventWarningReceived tells a user someone warned them.
	EventWarningReceived
)

// Event describes something that happened in the room. The transport
// layer maps it onto the wire format.
type Event struct {
	Kind EventKind

	// Username is the subject user: the greeted user for EventWelcome,
	// the mover for joined/left/status events.
	Username string

	// Users lists the other online usernames for EventWelcome.
	Users []string

	// Buddies is the list payload for EventBuddyList.
	Buddies []BuddyEntry

	// Instant-message fields.
	From string
	To   string
	Body string

	Status      Status
	AwayMessage *string

	// WarningLevel is the new level for EventWarningReceived.
	WarningLevel int

	Timestamp time.Time
}

// BuddyEntry is one row of a computed buddy list.
type BuddyEntry struct {
	Username     string
	Status       Status
	AwayMessage  *string
	WarningLevel int
}
