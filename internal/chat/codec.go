package chat

import (
	"bytes"
	"encoding/json"
	"strings"

	"chat-relay-server/internal/domain"
)

// The codec is the only place raw payload shapes are inspected. Everything
// past this boundary works with the canonical domain.Message.

// DecodePayload parses a raw socket frame into an InboundPayload.
func DecodePayload(data []byte) (*domain.InboundPayload, error) {
	var p domain.InboundPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// NormalizePayload validates an inbound payload and produces the canonical
// message record, minus the persisted id and timestamp (assigned at append
// time; a client-supplied message_id is carried through for idempotent
// resubmission). Returns ErrNoParties or ErrNoContent when the payload must
// be dropped.
func NormalizePayload(p *domain.InboundPayload) (*domain.Message, error) {
	text := strings.TrimSpace(p.Message)
	file := resolveFile(p.File)

	target := p.Receiver
	if p.GroupID != "" {
		target = GroupRoomID(p.GroupID)
	}
	if p.Sender == "" && target == "" {
		return nil, ErrNoParties
	}
	if text == "" && file == nil {
		return nil, ErrNoContent
	}

	kind := domain.KindText
	if file != nil {
		kind = domain.KindFile
	}
	return &domain.Message{
		ID:        p.MessageID,
		Sender:    p.Sender,
		Recipient: target,
		Kind:      kind,
		Text:      text,
		File:      file,
	}, nil
}

// resolveFile collapses the string-or-object union of the file field. A
// plain string is a URL; an object must carry a non-empty "url"; any other
// shape counts as no attachment.
func resolveFile(raw json.RawMessage) *domain.FileMeta {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '"':
		var url string
		if err := json.Unmarshal(raw, &url); err != nil || url == "" {
			return nil
		}
		return &domain.FileMeta{URL: url}
	case '{':
		var meta domain.FileMeta
		if err := json.Unmarshal(raw, &meta); err != nil || meta.URL == "" {
			return nil
		}
		return &meta
	default:
		return nil
	}
}
