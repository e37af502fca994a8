package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	chatCollectionName    = "chats"
	messageCollectionName = "messages"
)

type mongoChatRepository struct {
	chats    *mongo.Collection
	messages *mongo.Collection
}

// NewMongoChatRepository creates a chat repository over the chats and messages collections.
func NewMongoChatRepository(db *mongo.Database) repository.ChatRepository {
	return &mongoChatRepository{
		chats:    db.Collection(chatCollectionName),
		messages: db.Collection(messageCollectionName),
	}
}

func (r *mongoChatRepository) Touch(ctx context.Context, chat *domain.Chat) error {
	if chat.ID == "" || len(chat.ParticipantIDs) != 2 {
		return errors.New("chat requires an id and two participants")
	}
	update := bson.M{
		"$set": bson.M{
			"lastMessage":   chat.LastMessage,
			"lastMessageAt": chat.LastMessageAt,
		},
		"$setOnInsert": bson.M{"participantIds": chat.ParticipantIDs},
	}
	_, err := r.chats.UpdateOne(ctx, bson.M{"_id": chat.ID}, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoChatRepository) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// ListForUser returns the user's chats, most recently active first.
func (r *mongoChatRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Chat, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}})
	cursor, err := r.chats.Find(ctx, bson.M{"participantIds": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	chats := []domain.Chat{}
	if err = cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *mongoChatRepository) AddMessage(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error) {
	if msg.ChatID == "" || msg.SenderID == primitive.NilObjectID || msg.ReceiverID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("message requires chatId, senderId and receiverId")
	}
	msg.ID = primitive.NewObjectID()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	result, err := r.messages.InsertOne(ctx, msg)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoChatRepository) Messages(ctx context.Context, chatID string) ([]domain.Message, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.messages.Find(ctx, bson.M{"chatId": chatID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	msgs := []domain.Message{}
	if err = cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkSeen flags every unseen message in the chat addressed to receiverID and
// returns how many changed.
func (r *mongoChatRepository) MarkSeen(ctx context.Context, chatID string, receiverID primitive.ObjectID) (int64, error) {
	filter := bson.M{"chatId": chatID, "receiverId": receiverID, "seen": false}
	result, err := r.messages.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"seen": true}})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// EnsureChatIndexes creates necessary indexes for the chats collection.
func EnsureChatIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "participantIds", Value: 1}, {Key: "lastMessageAt", Value: -1}},
			Options: options.Index(),
		},
	})
}

// EnsureMessageIndexes creates necessary indexes for the messages collection.
func EnsureMessageIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "chatId", Value: 1}, {Key: "timestamp", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "chatId", Value: 1}, {Key: "receiverId", Value: 1}, {Key: "seen", Value: 1}},
			Options: options.Index(),
		},
	})
}
