package mongo

import (
	"context"
	"fmt"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messageCollectionName = "messages"

type mongoMessageRepository struct {
	collection *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &mongoMessageRepository{
		collection: db.Collection(messageCollectionName),
	}
}

func (r *mongoMessageRepository) Create(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error) {
	if msg.SenderID.IsZero() || msg.ReceiverID.IsZero() || msg.Body == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: message requires sender, receiver and body", repository.ErrInvalid)
	}
	msg.ID = primitive.NewObjectID()
	msg.SentAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return insertedID(result)
}

func (r *mongoMessageRepository) Conversation(ctx context.Context, a, b primitive.ObjectID, limit int64) ([]domain.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": a, "receiverId": b},
		bson.M{"senderId": b, "receiverId": a},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return findAll[domain.Message](ctx, r.collection, filter, opts)
}

// MarkRead stamps readAt on a message addressed to receiverID. Already read messages keep their timestamp.
func (r *mongoMessageRepository) MarkRead(ctx context.Context, id, receiverID primitive.ObjectID, at time.Time) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "receiverId": receiverID},
		bson.M{"$min": bson.M{"readAt": at}},
	)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMessageRepository) CountUnread(ctx context.Context, receiverID primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"receiverId": receiverID, "readAt": bson.M{"$exists": false}})
	return n, translate(err)
}

func messageIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "receiverId", Value: 1}, {Key: "sentAt", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "receiverId", Value: 1}, {Key: "readAt", Value: 1}},
			Options: options.Index().SetName("unread_by_receiver"),
		},
	}
}
