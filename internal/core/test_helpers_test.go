package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var errFailedPut = errors.New("store unavailable")

// fakeStore records puts in memory and can be told to fail.
type fakeStore struct {
	mu     sync.Mutex
	puts   map[string][]byte
	putErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{puts: make(map[string][]byte)}
}

func (f *fakeStore) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (f *fakeStore) Put(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.puts[key] = value
	return nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) archivedMessages() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for key := range f.puts {
		if strings.HasPrefix(key, "message:") {
			n++
		}
	}
	return n
}

func newTestRoom(t *testing.T) (*Room, *fakeStore) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	st := newFakeStore()
	logger := zerolog.Nop()
	room := NewRoom("lobby", st, &logger)
	go room.Run(ctx)
	return room, st
}

func joinUser(t *testing.T, room *Room, username string) *Session {
	t.Helper()

	s := NewSession(username+"-conn", username, 64)
	room.Join(s)
	return s
}

// nextEvent reads the next event from the session, failing on timeout.
func nextEvent(t *testing.T, s *Session) *Event {
	t.Helper()

	select {
	case ev := <-s.Events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		return nil
	}
}

// mustEvent drains the session until an event of the given kind arrives.
func mustEvent(t *testing.T, s *Session, kind EventKind) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-s.Events:
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event kind %v not received", kind)
			return nil
		}
	}
}

// drainFor collects every event arriving within d.
func drainFor(s *Session, d time.Duration) []*Event {
	var events []*Event
	deadline := time.After(d)
	for {
		select {
		case ev := <-s.Events:
			events = append(events, ev)
		case <-deadline:
			return events
		}
	}
}

// waitArchived polls the store until n messages are archived.
func waitArchived(t *testing.T, st *fakeStore, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st.archivedMessages() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d archived messages, have %d", n, st.archivedMessages())
}
