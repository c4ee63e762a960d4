package core

import "time"

// Session is one live connection as seen by the room actor. Exactly one
// Session exists per open connection; it is created after the upgrade
// handshake supplied a username and destroyed when the connection
// closes.
type Session struct {
	ID       string
	Username string
	JoinedAt time.Time

	// Events is drained by the connection's write loop. Sends into it
	// never block: a full buffer means a slow or dead peer and the
	// frame is dropped.
	Events chan *Event
}

// NewSession constructs a session with a buffered outbound queue.
func NewSession(id, username string, buffer int) *Session {
	if buffer <= 0 {
		buffer = 32
	}
	return &Session{
		ID:       id,
		Username: username,
		JoinedAt: time.Now(),
		Events:   make(chan *Event, buffer),
	}
}

// trySend queues an event for the session's write loop. Delivery is
// best effort; a session that cannot keep up loses frames rather than
// stalling the room.
func (s *Session) trySend(ev *Event) bool {
	select {
	case s.Events <- ev:
		return true
	default:
		return false
	}
}
