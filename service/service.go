package service

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/zlnvch/webnotes/cache"
	"github.com/zlnvch/webnotes/models"
	"github.com/zlnvch/webnotes/store"
)

const (
	AccessTokenTTL    = time.Hour
	DefaultSessionTTL = 14 * 24 * time.Hour
)

type Service struct {
	Store      store.KeyValueStore
	Sessions   cache.SessionCache
	JWTSecret  []byte
	SessionTTL time.Duration
	Logger     *zap.Logger

	// Now is the clock used for token issuance and verification
	Now func() time.Time

	// Directory state. users keeps registration order.
	mu        sync.RWMutex
	users     []*userEntry
	usersById map[string]*userEntry

	noteIdCounter atomic.Int64
}

// userEntry is the directory record of one user. noteIds lists the notes the
// user owns in creation order; the notes themselves live in the Store.
type userEntry struct {
	mu      sync.Mutex
	user    models.User
	noteIds []int64
}

func NewService(
	kvStore store.KeyValueStore,
	sessions cache.SessionCache,
	jwtSecret []byte,
	sessionTTL time.Duration,
	logger *zap.Logger,
) (*Service, error) {
	if kvStore == nil {
		return nil, errors.New("store is required")
	}
	if sessions == nil {
		return nil, errors.New("session cache is required")
	}
	if len(jwtSecret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		Store:      kvStore,
		Sessions:   sessions,
		JWTSecret:  jwtSecret,
		SessionTTL: sessionTTL,
		Logger:     logger,
		Now:        time.Now,
		usersById:  make(map[string]*userEntry),
	}, nil
}

func (s *Service) lookupUser(userId string) (*userEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.usersById[userId]
	return entry, ok
}
