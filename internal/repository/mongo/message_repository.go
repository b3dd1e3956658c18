package mongo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chat-relay-server/internal/domain"
)

const messageCollection = "messages"

// MessageRepository stores chat messages in MongoDB.
type MessageRepository struct {
	DB *mongo.Database
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{DB: db}
}

// Append stores a message and returns its final id. The message's timestamp
// is assigned here. When the client supplied an id that already exists, the
// insert fails on the unique _id index and the existing id is returned
// unchanged; the uniqueness check and the insert are one atomic operation,
// so two racing appends with the same id cannot both land.
func (r *MessageRepository) Append(ctx context.Context, msg *domain.Message) (string, error) {
	stored := *msg
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.Timestamp = time.Now().UTC()

	_, err := r.DB.Collection(messageCollection).InsertOne(ctx, &stored)
	if mongo.IsDuplicateKeyError(err) {
		return stored.ID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to store message: %w", err)
	}
	return stored.ID, nil
}

// History returns a conversation's messages sorted ascending by timestamp.
func (r *MessageRepository) History(ctx context.Context, convo domain.Conversation) ([]*domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.DB.Collection(messageCollection).Find(ctx, conversationFilter(convo), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*domain.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return messages, nil
}

// Clear deletes every message of a conversation. DeleteMany is a single
// storage command: it either applies or the error leaves the records as
// they were.
func (r *MessageRepository) Clear(ctx context.Context, convo domain.Conversation) error {
	_, err := r.DB.Collection(messageCollection).DeleteMany(ctx, conversationFilter(convo))
	if err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	return nil
}

// Delete removes a single message by id.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.Collection(messageCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// Conversations lists every counterpart (peer username or group room key)
// the user has exchanged messages with.
func (r *MessageRepository) Conversations(ctx context.Context, username string) ([]string, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": username},
		bson.M{"receiver": username},
	}}
	opts := options.Find().SetProjection(bson.M{"sender": 1, "receiver": 1})
	cursor, err := r.DB.Collection(messageCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer cursor.Close(ctx)

	seen := make(map[string]struct{})
	for cursor.Next(ctx) {
		var doc struct {
			Sender   string `bson:"sender"`
			Receiver string `bson:"receiver"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode conversation: %w", err)
		}
		seen[doc.Sender] = struct{}{}
		seen[doc.Receiver] = struct{}{}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	delete(seen, username)

	counterparts := make([]string, 0, len(seen))
	for name := range seen {
		counterparts = append(counterparts, name)
	}
	sort.Strings(counterparts)
	return counterparts, nil
}

// MarkSeen flags the direct messages addressed to the reader as seen.
func (r *MessageRepository) MarkSeen(ctx context.Context, convo domain.Conversation, reader string) error {
	if convo.IsGroup() {
		return nil
	}
	peer := convo.A
	if peer == reader {
		peer = convo.B
	}
	_, err := r.DB.Collection(messageCollection).UpdateMany(ctx,
		bson.M{"sender": peer, "receiver": reader, "seen": false},
		bson.M{"$set": bson.M{"seen": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark messages seen: %w", err)
	}
	return nil
}

// conversationFilter matches a direct pair in either direction, or a group
// room key exactly.
func conversationFilter(convo domain.Conversation) bson.M {
	if convo.IsGroup() {
		return bson.M{"receiver": convo.Group}
	}
	return bson.M{"$or": bson.A{
		bson.M{"sender": convo.A, "receiver": convo.B},
		bson.M{"sender": convo.B, "receiver": convo.A},
	}}
}
