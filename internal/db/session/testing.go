package session

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v9"
)

// TestRedisURL returns an empty string if Redis tests must be skipped.
func TestRedisURL() string {
	return os.Getenv("TEST_REDIS_URL")
}

func CreateTestClient() *redis.Client {
	url := TestRedisURL()
	if url == "" {
		panic("TEST_REDIS_URL must be set.")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		panic(fmt.Sprintf("Invalid TEST_REDIS_URL: %v.", err))
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		panic(fmt.Sprintf("Could not connect to Redis: %v.", err))
	}
	return client
}
