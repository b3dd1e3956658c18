package service

import (
	"context"
	"testing"
	"time"

	"chat-relay-server/internal/domain"
)

type fakeMessageRepo struct {
	messages     []*domain.Message
	markSeenFor  []string
	clearedConvo *domain.Conversation
	deletedID    string
}

func (f *fakeMessageRepo) Append(ctx context.Context, msg *domain.Message) (string, error) {
	f.messages = append(f.messages, msg)
	return msg.ID, nil
}

func (f *fakeMessageRepo) History(ctx context.Context, convo domain.Conversation) ([]*domain.Message, error) {
	return f.messages, nil
}

func (f *fakeMessageRepo) Clear(ctx context.Context, convo domain.Conversation) error {
	f.clearedConvo = &convo
	return nil
}

func (f *fakeMessageRepo) Delete(ctx context.Context, id string) error {
	f.deletedID = id
	return nil
}

func (f *fakeMessageRepo) Conversations(ctx context.Context, username string) ([]string, error) {
	return []string{"bob", "group:7"}, nil
}

func (f *fakeMessageRepo) MarkSeen(ctx context.Context, convo domain.Conversation, reader string) error {
	f.markSeenFor = append(f.markSeenFor, reader)
	return nil
}

func TestChatServiceHistoryFormatsTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := &fakeMessageRepo{
		messages: []*domain.Message{
			{
				ID:        "m1",
				Sender:    "bob",
				Recipient: "alice",
				Kind:      domain.KindText,
				Text:      "hello",
				Timestamp: time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC),
			},
			{
				ID:        "m2",
				Sender:    "alice",
				Recipient: "bob",
				Kind:      domain.KindFile,
				File:      &domain.FileMeta{URL: "/u/a.png"},
				Timestamp: time.Date(2024, 3, 9, 14, 6, 0, 0, time.UTC),
			},
		},
	}
	svc := NewChatService(repo, time.UTC)

	entries, err := svc.History(ctx, domain.DirectConversation("alice", "bob"), "alice")
	if err != nil {
		t.Fatalf("History() unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("History() returned %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.Timestamp != "14:05 • 09/03/2024" {
		t.Errorf("Timestamp = %q, want %q", first.Timestamp, "14:05 • 09/03/2024")
	}
	if first.DateOnly != "09/03/2024" {
		t.Errorf("DateOnly = %q, want %q", first.DateOnly, "09/03/2024")
	}
	if entries[1].File == nil || entries[1].File.URL != "/u/a.png" {
		t.Errorf("File = %+v, want url /u/a.png", entries[1].File)
	}
}

func TestChatServiceHistoryMarksDirectMessagesSeen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		convo        domain.Conversation
		viewer       string
		wantMarkSeen int
	}{
		{
			name:         "direct conversation marks seen for viewer",
			convo:        domain.DirectConversation("alice", "bob"),
			viewer:       "alice",
			wantMarkSeen: 1,
		},
		{
			name:         "group conversation does not mark seen",
			convo:        domain.GroupConversation("group:7"),
			viewer:       "alice",
			wantMarkSeen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeMessageRepo{}
			svc := NewChatService(repo, time.UTC)
			if _, err := svc.History(ctx, tt.convo, tt.viewer); err != nil {
				t.Fatalf("History() unexpected error: %v", err)
			}
			if len(repo.markSeenFor) != tt.wantMarkSeen {
				t.Errorf("MarkSeen called %d times, want %d", len(repo.markSeenFor), tt.wantMarkSeen)
			}
		})
	}
}

func TestChatServiceClearAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := &fakeMessageRepo{}
	svc := NewChatService(repo, time.UTC)

	convo := domain.GroupConversation("group:7")
	if err := svc.Clear(ctx, convo); err != nil {
		t.Fatalf("Clear() unexpected error: %v", err)
	}
	if repo.clearedConvo == nil || repo.clearedConvo.Group != "group:7" {
		t.Errorf("cleared conversation = %+v, want group:7", repo.clearedConvo)
	}

	if err := svc.DeleteMessage(ctx, "m9"); err != nil {
		t.Fatalf("DeleteMessage() unexpected error: %v", err)
	}
	if repo.deletedID != "m9" {
		t.Errorf("deleted id = %q, want %q", repo.deletedID, "m9")
	}
}
