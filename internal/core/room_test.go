package core

import (
	"testing"
	"time"
)

func TestJoinSequenceLobbyScenario(t *testing.T) {
	room, _ := newTestRoom(t)

	alice := joinUser(t, room, "alice")

	welcome := nextEvent(t, alice)
	if welcome.Kind != EventWelcome {
		t.Fatalf("expected welcome first, got kind %v", welcome.Kind)
	}
	if welcome.Username != "alice" || len(welcome.Users) != 0 {
		t.Fatalf("unexpected welcome: %+v", welcome)
	}

	list := nextEvent(t, alice)
	if list.Kind != EventBuddyList || len(list.Buddies) != 0 {
		t.Fatalf("expected empty buddy list, got %+v", list)
	}

	// The room-wide list refresh reaches the joiner too.
	if again := nextEvent(t, alice); again.Kind != EventBuddyList {
		t.Fatalf("expected refreshed buddy list, got kind %v", again.Kind)
	}

	bob := joinUser(t, room, "bob")

	// Bob always hears about himself before anyone else does.
	bobWelcome := nextEvent(t, bob)
	if bobWelcome.Kind != EventWelcome {
		t.Fatalf("expected welcome first for bob, got kind %v", bobWelcome.Kind)
	}
	if len(bobWelcome.Users) != 1 || bobWelcome.Users[0] != "alice" {
		t.Fatalf("bob's welcome should list alice, got %v", bobWelcome.Users)
	}

	bobList := nextEvent(t, bob)
	if bobList.Kind != EventBuddyList || len(bobList.Buddies) != 1 || bobList.Buddies[0].Username != "alice" {
		t.Fatalf("unexpected buddy list for bob: %+v", bobList)
	}

	// Alice sees the join but never her own.
	joined := nextEvent(t, alice)
	if joined.Kind != EventUserJoined || joined.Username != "bob" || joined.Status != StatusAvailable {
		t.Fatalf("unexpected join notice: %+v", joined)
	}

	refreshed := mustEvent(t, alice, EventBuddyList)
	if len(refreshed.Buddies) != 1 || refreshed.Buddies[0].Username != "bob" {
		t.Fatalf("alice's refreshed list should contain bob, got %+v", refreshed.Buddies)
	}

	for _, ev := range drainFor(bob, 100*time.Millisecond) {
		if ev.Kind == EventUserJoined && ev.Username == "bob" {
			t.Fatalf("bob received his own join notice")
		}
	}
}

func TestInstantMessageOnlineRecipient(t *testing.T) {
	room, st := newTestRoom(t)

	alice := joinUser(t, room, "alice")
	bob := joinUser(t, room, "bob")
	drainFor(alice, 100*time.Millisecond)
	drainFor(bob, 100*time.Millisecond)

	room.Dispatch(alice, Command{Kind: CommandSendMessage, To: "bob", Body: "hi"})

	msg := mustEvent(t, bob, EventMessage)
	if msg.From != "alice" || msg.To != "bob" || msg.Body != "hi" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	ack := mustEvent(t, alice, EventMessageDelivered)
	if ack.To != "bob" {
		t.Fatalf("unexpected ack: %+v", ack)
	}
	if !ack.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("ack timestamp %v differs from message timestamp %v", ack.Timestamp, msg.Timestamp)
	}

	waitArchived(t, st, 1)
}

func TestInstantMessageOfflineRecipient(t *testing.T) {
	room, st := newTestRoom(t)

	alice := joinUser(t, room, "alice")
	drainFor(alice, 100*time.Millisecond)

	room.Dispatch(alice, Command{Kind: CommandSendMessage, To: "ghost", Body: "anyone there?"})

	offline := mustEvent(t, alice, EventMessageOffline)
	if offline.To != "ghost" || offline.Body != "ghost is not currently signed on." {
		t.Fatalf("unexpected offline notice: %+v", offline)
	}

	// Archived regardless of delivery.
	waitArchived(t, st, 1)

	for _, ev := range drainFor(alice, 100*time.Millisecond) {
		if ev.Kind == EventMessageDelivered {
			t.Fatalf("unexpected delivery ack for offline recipient")
		}
	}
}

func TestArchiveFailureDoesNotAffectDelivery(t *testing.T) {
	room, st := newTestRoom(t)
	st.mu.Lock()
	st.putErr = errFailedPut
	st.mu.Unlock()

	alice := joinUser(t, room, "alice")
	bob := joinUser(t, room, "bob")
	drainFor(alice, 100*time.Millisecond)
	drainFor(bob, 100*time.Millisecond)

	room.Dispatch(alice, Command{Kind: CommandSendMessage, To: "bob", Body: "hi"})

	if msg := mustEvent(t, bob, EventMessage); msg.Body != "hi" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	mustEvent(t, alice, EventMessageDelivered)
}

func TestStatusChangeBroadcastsRoomWide(t *testing.T) {
	room, _ := newTestRoom(t)

	alice := joinUser(t, room, "alice")
	bob := joinUser(t, room, "bob")
	carol := joinUser(t, room, "carol")
	drainFor(alice, 100*time.Millisecond)
	drainFor(bob, 100*time.Millisecond)
	drainFor(carol, 100*time.Millisecond)

	away := "out to lunch"
	room.Dispatch(bob, Command{Kind: CommandChangeStatus, Status: StatusAway, AwayMessage: &away})

	// Everyone except bob hears it, buddy set or not.
	for _, s := range []*Session{alice, carol} {
		ev := mustEvent(t, s, EventBuddyStatus)
		if ev.Username != "bob" || ev.Status != StatusAway || ev.AwayMessage == nil || *ev.AwayMessage != away {
			t.Fatalf("unexpected status notice for %s: %+v", s.Username, ev)
		}
	}

	for _, ev := range drainFor(bob, 100*time.Millisecond) {
		if ev.Kind == EventBuddyStatus {
			t.Fatalf("bob received his own status notice")
		}
	}
}

func TestAwayMessageIsStatusChangeSugar(t *testing.T) {
	room, _ := newTestRoom(t)

	alice := joinUser(t, room, "alice")
	bob := joinUser(t, room, "bob")
	drainFor(alice, 100*time.Millisecond)
	drainFor(bob, 100*time.Millisecond)

	msg := "brb"
	room.Dispatch(bob, Command{Kind: CommandSetAwayMessage, AwayMessage: &msg})

	ev := mustEvent(t, alice, EventBuddyStatus)
	if ev.Status != StatusAway || ev.AwayMessage == nil || *ev.AwayMessage != "brb" {
		t.Fatalf("unexpected away notice: %+v", ev)
	}

	// The away message shows up in subsequently computed buddy lists.
	room.Dispatch(alice, Command{Kind: CommandAddBuddy, Buddy: "bob"})
	list := mustEvent(t, alice, EventBuddyList)
	if len(list.Buddies) != 1 || list.Buddies[0].Status != StatusAway {
		t.Fatalf("buddy list should show bob away: %+v", list.Buddies)
	}
}

func TestDisconnectPurgesAndNotifiesOnce(t *testing.T) {
	room, _ := newTestRoom(t)

	alice := joinUser(t, room, "alice")
	bob := joinUser(t, room, "bob")
	drainFor(alice, 100*time.Millisecond)
	drainFor(bob, 100*time.Millisecond)

	// Alice watches bob, so she also gets the buddy-filtered fan-out.
	room.Dispatch(alice, Command{Kind: CommandAddBuddy, Buddy: "bob"})
	mustEvent(t, alice, EventBuddyList)

	room.Leave(bob)

	events := drainFor(alice, 300*time.Millisecond)
	var leftCount, offlineCount int
	var lastList *Event
	for _, ev := range events {
		switch ev.Kind {
		case EventUserLeft:
			if ev.Username != "bob" {
				t.Fatalf("unexpected user_left: %+v", ev)
			}
			leftCount++
		case EventBuddyStatus:
			if ev.Username == "bob" && ev.Status == StatusOffline {
				offlineCount++
			}
		case EventBuddyList:
			lastList = ev
		}
	}

	if leftCount != 1 {
		t.Fatalf("expected exactly one user_left, got %d", leftCount)
	}
	if offlineCount != 1 {
		t.Fatalf("expected one offline buddy fan-out, got %d", offlineCount)
	}
	if lastList == nil {
		t.Fatalf("expected a refreshed buddy list after disconnect")
	}
	for _, b := range lastList.Buddies {
		if b.Username == "bob" {
			t.Fatalf("bob still present in buddy list after disconnect")
		}
	}
}

func TestDuplicateLoginKeepsNewerSessionVisible(t *testing.T) {
	room, _ := newTestRoom(t)

	alice := joinUser(t, room, "alice")
	bob1 := joinUser(t, room, "bob")
	bob2 := joinUser(t, room, "bob")
	drainFor(alice, 100*time.Millisecond)
	drainFor(bob1, 100*time.Millisecond)
	drainFor(bob2, 100*time.Millisecond)

	// The older connection closing must not evict the newer one.
	room.Leave(bob1)
	for _, ev := range drainFor(alice, 200*time.Millisecond) {
		if ev.Kind == EventUserLeft {
			t.Fatalf("stale session close announced a departure: %+v", ev)
		}
	}

	room.Dispatch(alice, Command{Kind: CommandSendMessage, To: "bob", Body: "still there?"})
	if msg := mustEvent(t, bob2, EventMessage); msg.Body != "still there?" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	// The owning session's close still announces normally.
	room.Leave(bob2)
	left := mustEvent(t, alice, EventUserLeft)
	if left.Username != "bob" {
		t.Fatalf("unexpected user_left: %+v", left)
	}
}

func TestWarningLevelSurvivesDisconnect(t *testing.T) {
	room, _ := newTestRoom(t)

	alice := joinUser(t, room, "alice")
	bob := joinUser(t, room, "bob")
	drainFor(alice, 100*time.Millisecond)
	drainFor(bob, 100*time.Millisecond)

	room.Dispatch(alice, Command{Kind: CommandWarnUser, Target: "bob"})
	mustEvent(t, bob, EventWarningReceived)

	room.Leave(bob)
	drainFor(alice, 200*time.Millisecond)

	// Bob reconnects with a fresh session and keeps his level.
	bob2 := joinUser(t, room, "bob")
	drainFor(bob2, 100*time.Millisecond)

	list := mustEvent(t, alice, EventBuddyList)
	found := false
	for _, b := range list.Buddies {
		if b.Username == "bob" {
			found = true
			if b.WarningLevel != 10 {
				t.Fatalf("expected warning level 10 after reconnect, got %d", b.WarningLevel)
			}
		}
	}
	if !found {
		t.Fatalf("bob missing from refreshed buddy list: %+v", list.Buddies)
	}
}
