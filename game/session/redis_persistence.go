package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/wricardo/trivia-maze/game/service"
)

const (
	redisKeyPrefix = "trivia-maze:session:"
	redisIndexKey  = "trivia-maze:sessions"
	redisTimeout   = 2 * time.Second
)

// RedisPersistence implements SessionPersistence on Redis. Each session is
// one string key holding the same JSON the file backend writes; a set
// indexes the IDs. Writes take a redsync lock per session so several
// servers can share one Redis.
type RedisPersistence struct {
	client        *redis.Client
	locker        *redsync.Redsync
	ttl           time.Duration
	configManager service.ConfigManager
}

// NewRedisPersistence creates a Redis-backed persistence layer. A zero ttl
// keeps sessions until they are deleted.
func NewRedisPersistence(client *redis.Client, ttl time.Duration, configManager service.ConfigManager) *RedisPersistence {
	pool := goredis.NewPool(client)
	return &RedisPersistence{
		client:        client,
		locker:        redsync.New(pool),
		ttl:           ttl,
		configManager: configManager,
	}
}

// ConnectRedis opens a client and checks the server answers
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Save persists a session under its key, refreshing the TTL
func (rp *RedisPersistence) Save(session *service.Session) error {
	jsonData, err := encodeSession(session)
	if err != nil {
		return err
	}

	id := strings.ToLower(session.ID)
	mutex := rp.locker.NewMutex(rp.key(id)+":lock", redsync.WithExpiry(5*time.Second))
	if err := mutex.Lock(); err != nil {
		return fmt.Errorf("failed to lock session %s: %w", id, err)
	}
	defer func() {
		_, _ = mutex.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	pipe := rp.client.TxPipeline()
	pipe.Set(ctx, rp.key(id), jsonData, rp.ttl)
	pipe.SAdd(ctx, redisIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write session %s: %w", id, err)
	}
	return nil
}

// Load retrieves a session by ID
func (rp *RedisPersistence) Load(id string) (*service.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	jsonData, err := rp.client.Get(ctx, rp.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	return decodeSession(jsonData, rp.configManager)
}

// Delete removes a session and its index entry
func (rp *RedisPersistence) Delete(id string) error {
	id = strings.ToLower(id)
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	removed, err := rp.client.Del(ctx, rp.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	rp.client.SRem(ctx, redisIndexKey, id)
	if removed == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns the IDs of stored sessions, dropping index entries whose
// keys have expired
func (rp *RedisPersistence) ListAll() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	ids, err := rp.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var live []string
	for _, id := range ids {
		n, err := rp.client.Exists(ctx, rp.key(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check session %s: %w", id, err)
		}
		if n == 0 {
			rp.client.SRem(ctx, redisIndexKey, id)
			continue
		}
		live = append(live, id)
	}
	return live, nil
}

// Exists checks if a session key is present
func (rp *RedisPersistence) Exists(id string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	n, err := rp.client.Exists(ctx, rp.key(id)).Result()
	return err == nil && n > 0
}

func (rp *RedisPersistence) key(id string) string {
	return redisKeyPrefix + strings.ToLower(id)
}
