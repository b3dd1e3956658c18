package domain

import (
	"encoding/json"
	"time"
)

// Message kinds.
const (
	KindText = "text"
	KindFile = "file"
)

// FileMeta describes a file attachment carried by a message.
type FileMeta struct {
	URL  string `bson:"url" json:"url"`
	Name string `bson:"name,omitempty" json:"name,omitempty"`
	Ext  string `bson:"type,omitempty" json:"type,omitempty"`
	Size int64  `bson:"size,omitempty" json:"size,omitempty"`
}

// Message is a single chat message, stored in MongoDB. Recipient is either a
// peer username (direct message) or a group room key such as "group:<id>".
type Message struct {
	ID        string    `bson:"_id"`
	Sender    string    `bson:"sender"`
	Recipient string    `bson:"receiver"`
	Kind      string    `bson:"type"`
	Text      string    `bson:"content,omitempty"`
	File      *FileMeta `bson:"file,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
	Seen      bool      `bson:"seen"`
}

// Conversation identifies the set of messages between two users, or inside
// one group. Exactly one of the two forms is populated.
type Conversation struct {
	A, B  string // direct pair, order irrelevant
	Group string // group room key
}

// DirectConversation keys the messages exchanged between two users,
// regardless of direction.
func DirectConversation(a, b string) Conversation {
	return Conversation{A: a, B: b}
}

// GroupConversation keys the messages stored under a group room key.
func GroupConversation(roomKey string) Conversation {
	return Conversation{Group: roomKey}
}

// IsGroup reports whether the conversation is a group conversation.
func (c Conversation) IsGroup() bool {
	return c.Group != ""
}

// InboundPayload is the raw frame a client sends over the socket. File is
// kept raw because clients send either a plain URL string or an object
// carrying at least a "url" field; the codec resolves the union once.
type InboundPayload struct {
	Message   string          `json:"message"`
	Sender    string          `json:"sender"`
	Receiver  string          `json:"receiver"`
	GroupID   string          `json:"group_id"`
	File      json.RawMessage `json:"file"`
	MessageID string          `json:"message_id"`
}

// OutboundEvent is the frame pushed to each recipient of a broadcast.
type OutboundEvent struct {
	MessageID string    `json:"message_id"`
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	File      *FileMeta `json:"file"`
	Time      string    `json:"time"`
}

// ErrorEvent is the soft failure frame pushed to a single client. The
// connection stays open after it is sent.
type ErrorEvent struct {
	Error string `json:"error"`
}
