package session

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v9"
)

const KEY_PREFIX = "session::"

// RedisSessionRepository maps session tokens to user IDs. Sessions expire
// after ttl; users are resolved through the user repository so deleted
// users lose their sessions immediately.
type RedisSessionRepository struct {
	redisClient    *redis.Client
	userRepository user.UserRepository
	ttl            time.Duration
}

func NewRedisRepository(
	redisClient *redis.Client,
	userRepository user.UserRepository,
	ttl time.Duration,
) *RedisSessionRepository {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	return &RedisSessionRepository{redisClient: redisClient, userRepository: userRepository, ttl: ttl}
}

func (r *RedisSessionRepository) Create(ctx context.Context, input user.CreateSessionInput) error {
	return r.redisClient.Set(ctx, key(input.Token), int64(input.UserID), r.ttl).Err()
}

func (r *RedisSessionRepository) GetUserByToken(ctx context.Context, token user.SessionToken) (u user.User, err error) {
	userID, err := r.redisClient.Get(ctx, key(token)).Int64()
	if errors.Is(err, redis.Nil) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return r.userRepository.GetByID(ctx, user.ID(userID))
}

func (r *RedisSessionRepository) Delete(ctx context.Context, token user.SessionToken) (userID user.ID, err error) {
	raw, err := r.redisClient.GetDel(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return userID, user.ErrSessionDoesNotExist
	}
	if err != nil {
		return userID, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return userID, err
	}
	return user.ID(id), nil
}

func key(token user.SessionToken) string {
	return KEY_PREFIX + string(token)
}
