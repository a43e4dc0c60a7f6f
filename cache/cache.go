package cache

import (
	"context"
	"errors"
	"time"

	"github.com/zlnvch/webnotes/models"
)

// SessionCache holds server-side sessions addressed by an opaque id.
type SessionCache interface {
	CreateSession(ctx context.Context, session models.Session, ttl time.Duration) (string, error)
	GetSession(ctx context.Context, sessionId string) (models.Session, error)
	DeleteSession(ctx context.Context, sessionId string) error
}

var ErrSessionNotFound = errors.New("session does not exist")
