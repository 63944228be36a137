package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// release only deletes the key when it still holds our token
var release = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// Redis is a Locker shared by every instance connected to the same server
type Redis struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedis creates a Redis backed Locker storing keys under keyPrefix
func NewRedis(client *redis.Client, keyPrefix string) *Redis {
	return &Redis{client: client, keyPrefix: keyPrefix}
}

// TryAcquire sets the key with NX and a PX expiry
func (r *Redis) TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	redisKey := r.keyPrefix + key
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, redisKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", redisKey, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &redisLock{client: r.client, key: redisKey, token: token}, nil
}

type redisLock struct {
	client *redis.Client
	key    string
	token  string
}

func (rl *redisLock) Release(ctx context.Context) error {
	if err := release.Run(ctx, rl.client, []string{rl.key}, rl.token).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", rl.key, err)
	}
	return nil
}
