package chat

import (
	"errors"
	"testing"

	"chat-relay-server/internal/domain"
)

func TestNormalizePayload(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
		check   func(t *testing.T, msg *domain.Message)
	}{
		{
			name: "plain text",
			raw:  `{"message":"hi","sender":"alice","receiver":"bob"}`,
			check: func(t *testing.T, msg *domain.Message) {
				if msg.Kind != domain.KindText {
					t.Errorf("Kind = %q, want %q", msg.Kind, domain.KindText)
				}
				if msg.Text != "hi" || msg.Sender != "alice" || msg.Recipient != "bob" {
					t.Errorf("unexpected message: %+v", msg)
				}
				if msg.File != nil {
					t.Errorf("File = %+v, want nil", msg.File)
				}
			},
		},
		{
			name: "text is trimmed",
			raw:  `{"message":"  hello  ","sender":"alice","receiver":"bob"}`,
			check: func(t *testing.T, msg *domain.Message) {
				if msg.Text != "hello" {
					t.Errorf("Text = %q, want %q", msg.Text, "hello")
				}
			},
		},
		{
			name: "file as plain url string",
			raw:  `{"message":"","sender":"alice","receiver":"bob","file":"/media/uploads/a.png"}`,
			check: func(t *testing.T, msg *domain.Message) {
				if msg.Kind != domain.KindFile {
					t.Errorf("Kind = %q, want %q", msg.Kind, domain.KindFile)
				}
				if msg.File == nil || msg.File.URL != "/media/uploads/a.png" {
					t.Errorf("File = %+v, want url %q", msg.File, "/media/uploads/a.png")
				}
			},
		},
		{
			name: "file as object",
			raw:  `{"sender":"alice","receiver":"bob","file":{"url":"/u/b.pdf","name":"b.pdf","type":".pdf","size":1024}}`,
			check: func(t *testing.T, msg *domain.Message) {
				if msg.File == nil {
					t.Fatal("File = nil, want metadata")
				}
				if msg.File.URL != "/u/b.pdf" || msg.File.Name != "b.pdf" || msg.File.Ext != ".pdf" || msg.File.Size != 1024 {
					t.Errorf("File = %+v", msg.File)
				}
			},
		},
		{
			name: "file object without url treated as absent",
			raw:  `{"message":"","sender":"alice","receiver":"bob","file":{"name":"x"}}`,
			wantErr: ErrNoContent,
		},
		{
			name: "file with unexpected shape treated as absent",
			raw:  `{"message":"","sender":"alice","receiver":"bob","file":42}`,
			wantErr: ErrNoContent,
		},
		{
			name:    "empty text and no file dropped",
			raw:     `{"message":"   ","sender":"alice","receiver":"bob"}`,
			wantErr: ErrNoContent,
		},
		{
			name:    "missing sender and target dropped",
			raw:     `{"message":"hi"}`,
			wantErr: ErrNoParties,
		},
		{
			name: "missing sender alone is accepted",
			raw:  `{"message":"hi","receiver":"bob"}`,
			check: func(t *testing.T, msg *domain.Message) {
				if msg.Recipient != "bob" {
					t.Errorf("Recipient = %q, want %q", msg.Recipient, "bob")
				}
			},
		},
		{
			name: "group id becomes room key recipient",
			raw:  `{"message":"hi","sender":"alice","group_id":"7"}`,
			check: func(t *testing.T, msg *domain.Message) {
				if msg.Recipient != "group:7" {
					t.Errorf("Recipient = %q, want %q", msg.Recipient, "group:7")
				}
			},
		},
		{
			name: "client message id carried through",
			raw:  `{"message":"hi","sender":"alice","receiver":"bob","message_id":"m1"}`,
			check: func(t *testing.T, msg *domain.Message) {
				if msg.ID != "m1" {
					t.Errorf("ID = %q, want %q", msg.ID, "m1")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := DecodePayload([]byte(tt.raw))
			if err != nil {
				t.Fatalf("DecodePayload() unexpected error: %v", err)
			}
			msg, err := NormalizePayload(payload)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NormalizePayload() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePayload() unexpected error: %v", err)
			}
			tt.check(t, msg)
		})
	}
}

func TestDecodePayloadMalformed(t *testing.T) {
	if _, err := DecodePayload([]byte("not json")); err == nil {
		t.Error("DecodePayload() expected error for malformed frame")
	}
}
