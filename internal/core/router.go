package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const archiveTimeout = 5 * time.Second

// messageRecord is the archived form of an instant message. Records are
// append-only; the room never reads them back.
type messageRecord struct {
	Type      string    `json:"type"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// sendInstantMessage routes a point-to-point message. An online
// recipient gets the message and the sender gets an acknowledgment with
// the same timestamp; otherwise the sender gets an offline notice. The
// record is archived either way.
func (r *Room) sendInstantMessage(s *Session, from, to, body string) {
	now := time.Now()

	if target, ok := r.presence.get(to); ok {
		target.session.trySend(&Event{
			Kind:      EventMessage,
			From:      from,
			To:        to,
			Body:      body,
			Timestamp: now,
		})
		s.trySend(&Event{
			Kind:      EventMessageDelivered,
			To:        to,
			Timestamp: now,
		})
	} else {
		s.trySend(&Event{
			Kind: EventMessageOffline,
			To:   to,
			Body: fmt.Sprintf("%s is not currently signed on.", to),
		})
	}

	r.archiveMessage(from, to, body, now)
}

// archiveMessage writes the record to the persistent store without
// blocking the event loop. Failures are logged and swallowed; in-memory
// state has already moved on.
func (r *Room) archiveMessage(from, to, body string, ts time.Time) {
	record := messageRecord{
		Type:      "message",
		From:      from,
		To:        to,
		Message:   body,
		Timestamp: ts,
	}
	key := fmt.Sprintf("message:%d:%s:%s", ts.UnixMilli(), from, to)

	data, err := json.Marshal(record)
	if err != nil {
		r.log.Error().Err(err).Str("key", key).Msg("marshal message record")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := r.store.Put(ctx, key, data); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("archive message")
		}
	}()
}
