package redis

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"

	"github.com/zlnvch/webnotes/cache"
	"github.com/zlnvch/webnotes/models"
	"github.com/zlnvch/webnotes/store"
)

// RedisNotesCache backs both the key-value store and the session cache with
// one Redis client. Store keys never expire; session keys carry their TTL.
type RedisNotesCache struct {
	client    redis.UniversalClient
	newSessId func() (uuid.UUID, error)
}

func NewRedisNotesCache(ctx context.Context, devMode bool, redisEndpoint string) (*RedisNotesCache, error) {
	var client redis.UniversalClient
	if devMode {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
			// Managed endpoints require TLS
			TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return NewRedisNotesCacheFromClient(client), nil
}

func NewRedisNotesCacheFromClient(client redis.UniversalClient) *RedisNotesCache {
	return &RedisNotesCache{client: client, newSessId: uuid.NewV4}
}

func (redisCache *RedisNotesCache) Close() error {
	return redisCache.client.Close()
}

func buildStoreKey(key string) string {
	return "kv:{" + key + "}"
}

func buildSessionKey(sessionId string) string {
	return "session:{" + sessionId + "}"
}

func (redisCache *RedisNotesCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := redisCache.client.Get(ctx, buildStoreKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrItemNotFound
		}
		return nil, err
	}
	return val, nil
}

func (redisCache *RedisNotesCache) Set(ctx context.Context, key string, value []byte) error {
	return redisCache.client.Set(ctx, buildStoreKey(key), value, 0).Err()
}

func (redisCache *RedisNotesCache) Delete(ctx context.Context, key string) error {
	return redisCache.client.Del(ctx, buildStoreKey(key)).Err()
}

func (redisCache *RedisNotesCache) CreateSession(ctx context.Context, session models.Session, ttl time.Duration) (string, error) {
	sessionId, err := redisCache.newSessId()
	if err != nil {
		return "", err
	}
	session.Expires = time.Now().Add(ttl).Unix()

	data, err := json.Marshal(session)
	if err != nil {
		return "", err
	}

	// SetNX so a colliding id can never overwrite somebody else's session
	ok, err := redisCache.client.SetNX(ctx, buildSessionKey(sessionId.String()), data, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("session id collision")
	}
	return sessionId.String(), nil
}

func (redisCache *RedisNotesCache) GetSession(ctx context.Context, sessionId string) (models.Session, error) {
	data, err := redisCache.client.Get(ctx, buildSessionKey(sessionId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Session{}, cache.ErrSessionNotFound
		}
		return models.Session{}, err
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (redisCache *RedisNotesCache) DeleteSession(ctx context.Context, sessionId string) error {
	return redisCache.client.Del(ctx, buildSessionKey(sessionId)).Err()
}
