package chat

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-relay-server/internal/domain"
	"chat-relay-server/internal/service"
)

const (
	// Outbound frames queued per connection before delivery degrades.
	sendBufferSize = 256

	// Upper bound on waiting for the message store to acknowledge a write.
	appendTimeout = 10 * time.Second
)

// Session is one live socket. It is created once the transport layer has
// established the caller's identity, serves exactly one room for its whole
// lifetime, and is removed from the registry exactly once on close.
//
// Lifecycle: NewSession (authenticated) -> Start (joined, pumps running) ->
// Close (left the registry, socket closed).
type Session struct {
	id       string // connection handle, distinct from identity
	identity string
	roomID   string

	conn       *websocket.Conn
	send       chan []byte
	done       chan struct{}
	registry   *Registry
	dispatcher *Dispatcher
	messages   service.IMessageRepository
	loc        *time.Location

	closeOnce sync.Once
}

// NewSession wraps an upgraded connection whose identity has already been
// established by the transport layer.
func NewSession(conn *websocket.Conn, identity, roomID string, registry *Registry,
	dispatcher *Dispatcher, messages service.IMessageRepository, loc *time.Location) *Session {
	return &Session{
		id:         uuid.NewString(),
		identity:   identity,
		roomID:     roomID,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		done:       make(chan struct{}),
		registry:   registry,
		dispatcher: dispatcher,
		messages:   messages,
		loc:        loc,
	}
}

// Handle returns the session's connection handle.
func (s *Session) Handle() string { return s.id }

// Identity returns the authenticated username owning this session.
func (s *Session) Identity() string { return s.identity }

// RoomID returns the room this session is joined to.
func (s *Session) RoomID() string { return s.roomID }

// Start joins the session to its room and runs the read/write pumps.
func (s *Session) Start() {
	s.registry.Join(s.roomID, s)
	go s.writePump()
	go s.readPump()
}

// Close removes the session from the registry and closes the socket. Safe to
// call from any goroutine and from multiple error paths; only the first call
// does anything.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.registry.Leave(s.roomID, s)
		close(s.done)
		s.conn.Close()
	})
}

// readPump reads inbound frames and runs each one through the
// decode -> persist -> dispatch pipeline. Frames from one connection are
// processed sequentially, which keeps the broadcast order of its messages
// equal to their submission order.
func (s *Session) readPump() {
	defer s.Close()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error (%s in %s): %v", s.identity, s.roomID, err)
			}
			return
		}
		s.handleInbound(data)
	}
}

// writePump drains the send queue onto the socket.
func (s *Session) writePump() {
	for {
		select {
		case <-s.done:
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case frame := <-s.send:
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Printf("write error (%s in %s): %v", s.identity, s.roomID, err)
				s.Close()
				return
			}
		}
	}
}

// handleInbound processes one payload. Invalid payloads are dropped without
// a reply; a storage failure is reported to this connection only and never
// closes it; a stored message is fanned out to the rest of the room.
func (s *Session) handleInbound(data []byte) {
	payload, err := DecodePayload(data)
	if err != nil {
		log.Printf("malformed frame from %s: %v", s.identity, err)
		return
	}

	msg, err := NormalizePayload(payload)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	id, err := s.messages.Append(ctx, msg)
	cancel()
	if err != nil {
		log.Printf("append failed (%s in %s): %v", s.identity, s.roomID, err)
		s.pushError("message could not be stored")
		return
	}

	s.dispatcher.Dispatch(s.roomID, &Event{
		MessageID: id,
		Text:      msg.Text,
		Sender:    msg.Sender,
		File:      msg.File,
		Time:      time.Now().In(s.loc).Format("15:04"),
		origin:    s.id,
	})
}

// push queues an outbound frame. It reports false when the session is closed
// or its buffer is full; the caller decides whether that is worth logging.
func (s *Session) push(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- frame:
		return true
	default:
		return false
	}
}

func (s *Session) pushError(text string) {
	frame, err := json.Marshal(domain.ErrorEvent{Error: text})
	if err != nil {
		return
	}
	if !s.push(frame) {
		log.Printf("error frame dropped for %s in %s", s.identity, s.roomID)
	}
}
