package repositories

import (
	"context"
	"docuchat-ai/internal/apperrors"
	"docuchat-ai/internal/constants"
	"docuchat-ai/internal/models"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// appendOnlyCollection mimics the server-side semantics of the guarded $push:
// the update matches only when the session exists and no stored message
// already carries the incoming id.
type appendOnlyCollection struct {
	sessionID string
	messages  []models.Message
	updateErr error
}

func (c *appendOnlyCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	if c.updateErr != nil {
		return nil, c.updateErr
	}

	f := filter.(bson.M)
	message := update.(bson.M)["$push"].(bson.M)["messages"].(models.Message)

	if f["sessionId"] != c.sessionID {
		return &mongo.UpdateResult{}, nil
	}
	excluded := f["messages.id"].(bson.M)["$ne"].(string)
	for _, stored := range c.messages {
		if stored.ID == excluded {
			return &mongo.UpdateResult{}, nil
		}
	}

	c.messages = append(c.messages, message)
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (c *appendOnlyCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	if filter.(bson.M)["sessionId"] == c.sessionID {
		return 1, nil
	}
	return 0, nil
}

func (c *appendOnlyCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return &mongo.InsertOneResult{}, nil
}

func (c *appendOnlyCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	return &mongo.SingleResult{}
}

func (c *appendOnlyCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return nil, nil
}

func (c *appendOnlyCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return &mongo.DeleteResult{}, nil
}

func TestAppendMessageRenumbersDuplicateID(t *testing.T) {
	coll := &appendOnlyCollection{sessionID: "session-1"}
	repo := &sessionRepository{collection: coll}

	first := models.Message{ID: "msg-1", Content: "hello", IsUser: true}
	saved, err := repo.AppendMessage(context.Background(), "session-1", first)
	require.NoError(t, err)
	assert.True(t, saved)

	second := models.Message{ID: "msg-1", Content: "world", IsUser: true}
	saved, err = repo.AppendMessage(context.Background(), "session-1", second)
	require.NoError(t, err)
	assert.True(t, saved)

	// Both messages survive: the first keeps its id, the collision gets a
	// fresh one with the renumbered marker.
	require.Len(t, coll.messages, 2)
	assert.Equal(t, "msg-1", coll.messages[0].ID)
	assert.Equal(t, "hello", coll.messages[0].Content)
	assert.Equal(t, "world", coll.messages[1].Content)
	assert.True(t, strings.HasPrefix(coll.messages[1].ID, constants.RenumberedMessageIDPrefix+"-"))
	assert.NotEqual(t, coll.messages[0].ID, coll.messages[1].ID)
}

func TestAppendMessageMissingSessionIsNotSaved(t *testing.T) {
	coll := &appendOnlyCollection{sessionID: "session-1"}
	repo := &sessionRepository{collection: coll}

	saved, err := repo.AppendMessage(context.Background(), "other-session", models.Message{ID: "msg-1", Content: "hello"})
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Empty(t, coll.messages)
}

func TestAppendMessageWrapsUpdateErrors(t *testing.T) {
	coll := &appendOnlyCollection{sessionID: "session-1", updateErr: errors.New("socket closed")}
	repo := &sessionRepository{collection: coll}

	_, err := repo.AppendMessage(context.Background(), "session-1", models.Message{ID: "msg-1", Content: "hello"})
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestAppendMessageFillsMissingIDAndTimestamp(t *testing.T) {
	coll := &appendOnlyCollection{sessionID: "session-1"}
	repo := &sessionRepository{collection: coll}

	saved, err := repo.AppendMessage(context.Background(), "session-1", models.Message{Content: "hello"})
	require.NoError(t, err)
	assert.True(t, saved)
	require.Len(t, coll.messages, 1)
	assert.NotEmpty(t, coll.messages[0].ID)
	assert.False(t, coll.messages[0].Timestamp.IsZero())
}
