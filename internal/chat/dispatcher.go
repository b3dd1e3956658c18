package chat

import (
	"encoding/json"
	"log"

	"chat-relay-server/internal/domain"
)

// Event is one broadcast unit: the outbound frame fields plus the origin
// connection handle, which is used only for echo suppression and never
// serialized to clients.
type Event struct {
	MessageID string
	Text      string
	Sender    string
	File      *domain.FileMeta
	Time      string

	origin string // connection handle of the submitting session
}

// Dispatcher fans events out to the members of a room.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a Dispatcher backed by the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch delivers an event to every session joined to the room, except the
// originating connection and any other connection owned by the sender (a
// second tab must not re-receive its own message). Delivery is best-effort
// per recipient: a slow or closed recipient is logged and skipped, and never
// affects delivery to the rest of the room.
func (d *Dispatcher) Dispatch(roomID string, ev *Event) {
	frame, err := json.Marshal(domain.OutboundEvent{
		MessageID: ev.MessageID,
		Message:   ev.Text,
		Sender:    ev.Sender,
		File:      ev.File,
		Time:      ev.Time,
	})
	if err != nil {
		log.Printf("dispatch marshal error (room %s): %v", roomID, err)
		return
	}

	for _, member := range d.registry.Members(roomID) {
		if member.id == ev.origin || member.identity == ev.Sender {
			continue
		}
		if !member.push(frame) {
			log.Printf("dispatch dropped for %s in %s (send buffer full)", member.identity, roomID)
		}
	}
}
