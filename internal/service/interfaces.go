package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chat-relay-server/internal/domain"
)

// --- Service Interfaces ---

// IAuthService establishes and resolves identities. The realtime core only
// consumes Identify; the rest backs the login endpoints.
type IAuthService interface {
	Register(ctx context.Context, username, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Identify(ctx context.Context, token string) (string, error)
}

// IChatService defines the synchronous message operations used by the
// non-realtime endpoints.
type IChatService interface {
	History(ctx context.Context, convo domain.Conversation, viewer string) ([]HistoryEntry, error)
	Clear(ctx context.Context, convo domain.Conversation) error
	Conversations(ctx context.Context, username string) ([]string, error)
	DeleteMessage(ctx context.Context, id string) error
}

// IGroupService defines group membership logic.
type IGroupService interface {
	Create(name, ownerUsername string) (*domain.Group, error)
	Get(groupID uuid.UUID) (*domain.Group, error)
	AddMember(groupID uuid.UUID, username string) error
	RemoveMember(groupID uuid.UUID, username string) error
	Members(groupID uuid.UUID) ([]string, error)
	IsMember(groupID uuid.UUID, username string) (bool, error)
}

// --- Repository Interfaces ---

// IMessageRepository defines the interface for message persistence.
type IMessageRepository interface {
	// Append stores a message and returns its final id. A client-supplied id
	// that already exists is a duplicate resubmission: the existing id is
	// returned and nothing is inserted.
	Append(ctx context.Context, msg *domain.Message) (string, error)
	// History returns the conversation's messages, non-decreasing by
	// timestamp.
	History(ctx context.Context, convo domain.Conversation) ([]*domain.Message, error)
	Clear(ctx context.Context, convo domain.Conversation) error
	Delete(ctx context.Context, id string) error
	Conversations(ctx context.Context, username string) ([]string, error)
	MarkSeen(ctx context.Context, convo domain.Conversation, reader string) error
}

// IUserRepository defines the interface for user persistence.
type IUserRepository interface {
	Create(user *domain.User) error
	GetByUsername(username string) (*domain.User, error)
	GetByID(id uuid.UUID) (*domain.User, error)
}

// IGroupRepository defines the interface for group persistence.
type IGroupRepository interface {
	Create(group *domain.Group) error
	GetByID(id uuid.UUID) (*domain.Group, error)
	AddMember(groupID, userID uuid.UUID) error
	RemoveMember(groupID, userID uuid.UUID) error
	IsMember(groupID, userID uuid.UUID) (bool, error)
	Members(groupID uuid.UUID) ([]string, error)
}

// ISessionStore maps opaque session tokens to usernames. Resolve returns an
// empty username for an unknown or expired token; that is not an error.
type ISessionStore interface {
	Put(ctx context.Context, token, username string, ttl time.Duration) error
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}
