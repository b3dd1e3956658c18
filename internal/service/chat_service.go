package service

import (
	"context"
	"time"

	"chat-relay-server/internal/domain"
)

// HistoryEntry is a message shaped for page rendering: timestamps are
// already formatted in the server's configured time zone.
type HistoryEntry struct {
	ID        string           `json:"id"`
	Sender    string           `json:"sender"`
	Recipient string           `json:"receiver"`
	Kind      string           `json:"type"`
	Text      string           `json:"content"`
	File      *domain.FileMeta `json:"file"`
	Seen      bool             `json:"seen"`
	Timestamp string           `json:"timestamp"`
	DateOnly  string           `json:"date_only"`
}

// ChatService exposes the synchronous message operations: history with
// seen-marking, bulk clear, conversation listing, and single deletes.
type ChatService struct {
	messages IMessageRepository
	loc      *time.Location
}

// NewChatService creates a new ChatService.
func NewChatService(messages IMessageRepository, loc *time.Location) *ChatService {
	return &ChatService{messages: messages, loc: loc}
}

// History returns a conversation's messages oldest first. Direct messages
// addressed to the viewer are marked seen as a side effect, matching what a
// chat page does when it is opened.
func (s *ChatService) History(ctx context.Context, convo domain.Conversation, viewer string) ([]HistoryEntry, error) {
	if !convo.IsGroup() && viewer != "" {
		if err := s.messages.MarkSeen(ctx, convo, viewer); err != nil {
			return nil, err
		}
	}

	msgs, err := s.messages.History(ctx, convo)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, HistoryEntry{
			ID:        m.ID,
			Sender:    m.Sender,
			Recipient: m.Recipient,
			Kind:      m.Kind,
			Text:      m.Text,
			File:      m.File,
			Seen:      m.Seen,
			Timestamp: s.formatTimestamp(m.Timestamp),
			DateOnly:  m.Timestamp.In(s.loc).Format("02/01/2006"),
		})
	}
	return entries, nil
}

// Clear deletes every message of a conversation.
func (s *ChatService) Clear(ctx context.Context, convo domain.Conversation) error {
	return s.messages.Clear(ctx, convo)
}

// Conversations lists the counterparts the user has exchanged messages with.
func (s *ChatService) Conversations(ctx context.Context, username string) ([]string, error) {
	return s.messages.Conversations(ctx, username)
}

// DeleteMessage removes a single message by id.
func (s *ChatService) DeleteMessage(ctx context.Context, id string) error {
	return s.messages.Delete(ctx, id)
}

func (s *ChatService) formatTimestamp(t time.Time) string {
	return t.In(s.loc).Format("15:04 • 02/01/2006")
}
