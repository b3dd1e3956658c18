package chat

import (
	"encoding/json"
	"testing"

	"chat-relay-server/internal/domain"
)

// received drains every queued frame for a session and decodes them.
func received(t *testing.T, s *Session) []domain.OutboundEvent {
	t.Helper()
	var events []domain.OutboundEvent
	for {
		select {
		case frame := <-s.send:
			var ev domain.OutboundEvent
			if err := json.Unmarshal(frame, &ev); err != nil {
				t.Fatalf("bad outbound frame %s: %v", frame, err)
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestDispatchFanOut(t *testing.T) {
	reg := NewRegistry()
	room := DirectRoomID("alice", "bob")
	alice := newTestSession("alice", room)
	bob := newTestSession("bob", room)
	reg.Join(room, alice)
	reg.Join(room, bob)

	d := NewDispatcher(reg)
	d.Dispatch(room, &Event{
		MessageID: "m1",
		Text:      "hi",
		Sender:    "alice",
		Time:      "09:30",
		origin:    alice.id,
	})

	got := received(t, bob)
	if len(got) != 1 {
		t.Fatalf("bob received %d events, want 1", len(got))
	}
	ev := got[0]
	if ev.MessageID != "m1" || ev.Message != "hi" || ev.Sender != "alice" || ev.Time != "09:30" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.File != nil {
		t.Errorf("File = %+v, want null", ev.File)
	}

	if got := received(t, alice); len(got) != 0 {
		t.Errorf("alice received %d events, want 0 (echo suppression)", len(got))
	}
}

func TestDispatchSuppressesSameIdentityConnections(t *testing.T) {
	// alice has two tabs open in the group; bob and carol each have one.
	reg := NewRegistry()
	room := GroupRoomID("7")
	aliceTab1 := newTestSession("alice", room)
	aliceTab2 := newTestSession("alice", room)
	bob := newTestSession("bob", room)
	carol := newTestSession("carol", room)
	for _, s := range []*Session{aliceTab1, aliceTab2, bob, carol} {
		reg.Join(room, s)
	}

	d := NewDispatcher(reg)
	d.Dispatch(room, &Event{MessageID: "m2", Text: "hello all", Sender: "alice", Time: "10:00", origin: aliceTab1.id})

	if got := received(t, bob); len(got) != 1 {
		t.Errorf("bob received %d events, want 1", len(got))
	}
	if got := received(t, carol); len(got) != 1 {
		t.Errorf("carol received %d events, want 1", len(got))
	}
	if got := received(t, aliceTab1); len(got) != 0 {
		t.Errorf("originating tab received %d events, want 0", len(got))
	}
	if got := received(t, aliceTab2); len(got) != 0 {
		t.Errorf("second tab received %d events, want 0", len(got))
	}
}

func TestDispatchSkipsFullRecipient(t *testing.T) {
	reg := NewRegistry()
	room := DirectRoomID("alice", "bob")
	alice := newTestSession("alice", room)
	bob := newTestSession("bob", room)
	carol := newTestSession("carol", room)
	reg.Join(room, alice)
	reg.Join(room, bob)
	reg.Join(room, carol)

	// Fill bob's queue so delivery to him fails.
	for i := 0; i < sendBufferSize; i++ {
		bob.send <- []byte("{}")
	}

	d := NewDispatcher(reg)
	d.Dispatch(room, &Event{MessageID: "m3", Text: "still here?", Sender: "alice", Time: "11:11", origin: alice.id})

	// A full recipient must not affect the others.
	if got := received(t, carol); len(got) != 1 {
		t.Errorf("carol received %d events, want 1", len(got))
	}
}

func TestDispatchToEmptyRoom(t *testing.T) {
	d := NewDispatcher(NewRegistry())
	// Must not panic or block.
	d.Dispatch("dm:alice:bob", &Event{MessageID: "m4", Text: "anyone?", Sender: "alice"})
}
