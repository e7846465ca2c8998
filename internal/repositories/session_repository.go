package repositories

import (
	"context"
	"docuchat-ai/internal/apperrors"
	"docuchat-ai/internal/constants"
	"docuchat-ai/internal/models"
	"docuchat-ai/pkg/mongodb"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepository owns ChatSession and Message persistence. Pipeline
// components never touch the underlying collection directly.
type SessionRepository interface {
	Create(ctx context.Context, sessionID, documentName string, userID *string) (*models.ChatSession, error)
	AppendMessage(ctx context.Context, sessionID string, message models.Message) (bool, error)
	Get(ctx context.Context, sessionID string) (*models.ChatSession, error)
	List(ctx context.Context, userID *string) ([]*models.ChatSession, error)
	Delete(ctx context.Context, sessionID string) (bool, error)
}

// sessionCollection is the slice of *mongo.Collection the repository uses,
// kept as an interface so the append semantics are testable without a live
// server.
type sessionCollection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

type sessionRepository struct {
	collection sessionCollection
}

func NewSessionRepository(mongoClient *mongodb.MongoDBClient) SessionRepository {
	return &sessionRepository{
		collection: mongoClient.GetCollectionByName("chat_sessions"),
	}
}

// Create inserts a new session with an empty message list. A session id maps
// to at most one session document, so an existing id is rejected rather than
// duplicated.
func (r *sessionRepository) Create(ctx context.Context, sessionID, documentName string, userID *string) (*models.ChatSession, error) {
	existing, err := r.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: session %s already exists", apperrors.ErrPersistence, sessionID)
	}

	session := models.NewChatSession(sessionID, documentName, userID)
	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create chat session: %v", apperrors.ErrPersistence, err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid
	}
	return session, nil
}

// AppendMessage appends to the session's message list and bumps its timestamp.
// Message ids are unique within a session: an append whose id already exists
// is renumbered with a fresh uuid and retried once instead of silently
// overwriting or duplicating.
func (r *sessionRepository) AppendMessage(ctx context.Context, sessionID string, message models.Message) (bool, error) {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	modified, err := r.tryAppend(ctx, sessionID, message)
	if err != nil || modified {
		return modified, err
	}

	// Either the session is missing or the id collided.
	count, err := r.collection.CountDocuments(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return false, fmt.Errorf("%w: failed to check session existence: %v", apperrors.ErrPersistence, err)
	}
	if count == 0 {
		return false, nil
	}

	log.Printf("AppendMessage -> duplicate message id %q in session %s, renumbering", message.ID, sessionID)
	message.ID = fmt.Sprintf("%s-%s", constants.RenumberedMessageIDPrefix, uuid.NewString())
	return r.tryAppend(ctx, sessionID, message)
}

func (r *sessionRepository) tryAppend(ctx context.Context, sessionID string, message models.Message) (bool, error) {
	filter := bson.M{
		"sessionId":   sessionID,
		"messages.id": bson.M{"$ne": message.ID},
	}
	update := bson.M{
		"$push": bson.M{"messages": message},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("%w: failed to save message: %v", apperrors.ErrPersistence, err)
	}
	return result.ModifiedCount > 0, nil
}

// Get returns the session, or nil when absent. Absence is the ordinary case
// for first-time sessions, not an error.
func (r *sessionRepository) Get(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load chat session: %v", apperrors.ErrPersistence, err)
	}
	return &session, nil
}

// List returns sessions most-recently-updated first, optionally filtered by
// owning user.
func (r *sessionRepository) List(ctx context.Context, userID *string) ([]*models.ChatSession, error) {
	filter := bson.M{}
	if userID != nil {
		filter["userId"] = *userID
	}

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list chat sessions: %v", apperrors.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	var sessions []*models.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("%w: failed to decode chat sessions: %v", apperrors.ErrPersistence, err)
	}
	return sessions, nil
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete chat session: %v", apperrors.ErrPersistence, err)
	}
	return result.DeletedCount > 0, nil
}
