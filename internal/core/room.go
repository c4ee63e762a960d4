package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomline/roomline-server/internal/store"
)

type roomEventKind int

const (
	evtJoin roomEventKind = iota
	evtLeave
	evtCommand
)

// roomEvent is one item on the actor's inbound queue.
type roomEvent struct {
	kind    roomEventKind
	session *Session
	cmd     Command
}

// Room is the actor owning all live state for one chat room: the
// session registry, presence table, buddy graph, and warning tracker.
// A single goroutine drains the event queue, so exactly one event
// mutates the tables at a time and no mutex is needed.
type Room struct {
	Name string

	store store.Store
	log   *zerolog.Logger

	events chan roomEvent
	done   chan struct{}

	sessions map[*Session]struct{}
	presence *presenceTable
	buddies  *buddyGraph
	warnings *warningTracker
}

// NewRoom constructs a room actor. Call Run to start processing.
func NewRoom(name string, st store.Store, logger *zerolog.Logger) *Room {
	return &Room{
		Name:     name,
		store:    st,
		log:      logger,
		events:   make(chan roomEvent, 256),
		done:     make(chan struct{}),
		sessions: make(map[*Session]struct{}),
		presence: newPresenceTable(),
		buddies:  newBuddyGraph(),
		warnings: newWarningTracker(),
	}
}

// Run drains the event queue until ctx is canceled. Each event is
// processed to completion before the next is considered.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case ev := <-r.events:
			r.handle(ev)
		case <-ctx.Done():
			return
		}
	}
}

// Join enqueues a session arrival.
func (r *Room) Join(s *Session) {
	r.enqueue(roomEvent{kind: evtJoin, session: s})
}

// Leave enqueues a session departure.
func (r *Room) Leave(s *Session) {
	r.enqueue(roomEvent{kind: evtLeave, session: s})
}

// Dispatch enqueues a client command.
func (r *Room) Dispatch(s *Session, cmd Command) {
	r.enqueue(roomEvent{kind: evtCommand, session: s, cmd: cmd})
}

func (r *Room) enqueue(ev roomEvent) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

func (r *Room) handle(ev roomEvent) {
	switch ev.kind {
	case evtJoin:
		r.handleJoin(ev.session)
	case evtLeave:
		r.handleLeave(ev.session)
	case evtCommand:
		r.handleCommand(ev.session, ev.cmd)
	}
}

// handleJoin brings a session to Active. The order is fixed: the new
// session gets its welcome and buddy list before anyone else hears
// about it, then the join is broadcast and every list is refreshed.
func (r *Room) handleJoin(s *Session) {
	now := time.Now()

	r.sessions[s] = struct{}{}
	r.presence.signOn(s.Username, s)

	s.trySend(&Event{
		Kind:     EventWelcome,
		Username: s.Username,
		Users:    r.presence.usernames(s.Username),
	})
	s.trySend(r.buddyListEvent(s.Username))

	r.broadcast(&Event{
		Kind:      EventUserJoined,
		Username:  s.Username,
		Status:    StatusAvailable,
		Timestamp: now,
	}, s)

	r.sendBuddyListToAll()

	r.log.Info().Str("room", r.Name).Str("username", s.Username).Msg("session joined")
}

// handleLeave purges the session and presence entry, announces the
// departure, runs the buddy-filtered offline fan-out, and refreshes
// every remaining buddy list. Buddy sets and warning levels are kept.
func (r *Room) handleLeave(s *Session) {
	if _, ok := r.sessions[s]; !ok {
		return
	}
	delete(r.sessions, s)

	// A duplicate login overwrites the presence entry, so only the
	// session that still owns it announces a departure.
	if e, ok := r.presence.get(s.Username); !ok || e.session != s {
		r.log.Debug().Str("room", r.Name).Str("username", s.Username).Msg("stale session left silently")
		return
	}
	r.presence.remove(s.Username)

	r.broadcast(&Event{
		Kind:      EventUserLeft,
		Username:  s.Username,
		Timestamp: time.Now(),
	}, nil)

	r.notifyBuddiesOfStatus(s.Username, StatusOffline, nil)
	r.sendBuddyListToAll()

	r.log.Info().Str("room", r.Name).Str("username", s.Username).Msg("session left")
}

func (r *Room) handleCommand(s *Session, cmd Command) {
	switch cmd.Kind {
	case CommandSendMessage:
		r.sendInstantMessage(s, s.Username, cmd.To, cmd.Body)
	case CommandChangeStatus:
		r.changeStatus(s.Username, cmd.Status, cmd.AwayMessage)
	case CommandSetAwayMessage:
		var message string
		if cmd.AwayMessage != nil {
			message = *cmd.AwayMessage
		}
		r.setAwayMessage(s.Username, message)
	case CommandAddBuddy:
		r.addBuddy(s, s.Username, cmd.Buddy)
	case CommandWarnUser:
		r.warnUser(s.Username, cmd.Target)
	default:
		r.log.Warn().Str("room", r.Name).Int("kind", int(cmd.Kind)).Msg("unknown command dropped")
	}
}

// broadcast sends an event to every online session except exclude.
func (r *Room) broadcast(ev *Event, exclude *Session) {
	r.presence.each(func(_ string, e *presenceEntry) {
		if e.session != exclude {
			e.session.trySend(ev)
		}
	})
}
