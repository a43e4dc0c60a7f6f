package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/zlnvch/webnotes/cache"
	"github.com/zlnvch/webnotes/models"
)

type MemorySessionCache struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	now      func() time.Time
}

func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{
		sessions: make(map[string]models.Session),
		now:      time.Now,
	}
}

func (c *MemorySessionCache) CreateSession(ctx context.Context, session models.Session, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sessionId, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	session.Expires = c.now().Add(ttl).Unix()

	c.mu.Lock()
	c.sessions[sessionId.String()] = session
	c.mu.Unlock()
	return sessionId.String(), nil
}

func (c *MemorySessionCache) GetSession(ctx context.Context, sessionId string) (models.Session, error) {
	if err := ctx.Err(); err != nil {
		return models.Session{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[sessionId]
	if !ok {
		return models.Session{}, cache.ErrSessionNotFound
	}
	if c.now().Unix() >= session.Expires {
		delete(c.sessions, sessionId)
		return models.Session{}, cache.ErrSessionNotFound
	}
	return session, nil
}

func (c *MemorySessionCache) DeleteSession(ctx context.Context, sessionId string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.sessions, sessionId)
	c.mu.Unlock()
	return nil
}

// PurgeExpired drops every expired session and reports how many were removed.
func (c *MemorySessionCache) PurgeExpired() int {
	now := c.now().Unix()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, session := range c.sessions {
		if now >= session.Expires {
			delete(c.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of sessions held, expired ones included.
func (c *MemorySessionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
