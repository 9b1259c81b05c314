package mongodb

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const TEST_DATABASE = "accounts_test"

// TestMongoDBURL returns an empty string if MongoDB tests must be skipped.
func TestMongoDBURL() string {
	return os.Getenv("TEST_MONGODB_URL")
}

func CreateTestDatabase() *mongo.Database {
	url := TestMongoDBURL()
	if url == "" {
		panic("TEST_MONGODB_URL must be set.")
	}

	ctx := context.Background()
	client, err := Connect(ctx, url)
	if err != nil {
		panic(fmt.Sprintf("Could not connect to MongoDB: %v.", err))
	}
	db := client.Database(TEST_DATABASE)
	if err := EnsureIndexes(ctx, db); err != nil {
		panic(fmt.Sprintf("Could not create MongoDB indexes: %v.", err))
	}
	return db
}

func ClearCollections(db *mongo.Database) {
	ctx := context.Background()
	for _, name := range []string{USERS_COLLECTION, COUNTERS_COLLECTION} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.D{}); err != nil {
			panic(fmt.Sprintf("Could not clear collection %s: %v.", name, err))
		}
	}
}
