package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	USERS_COLLECTION    = "users"
	COUNTERS_COLLECTION = "counters"
	EMAIL_INDEX_NAME    = "user_email_idx"
)

func Connect(ctx context.Context, url string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("could not create MongoDB client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("could not connect to MongoDB: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the stores rely on. Emails are unique
// among not deleted users only.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(USERS_COLLECTION).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName(EMAIL_INDEX_NAME).
			SetUnique(true).
			SetPartialFilterExpression(bson.D{{Key: "is_deleted", Value: false}}),
	})
	return err
}

type counter struct {
	Seq int64 `bson:"seq"`
}

// NextID allocates the next value of the named sequence.
func NextID(ctx context.Context, db *mongo.Database, sequence string) (int64, error) {
	var c counter
	err := db.Collection(COUNTERS_COLLECTION).FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: sequence}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, err
	}
	return c.Seq, nil
}
