package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiredSessionPurger is implemented by session caches that do not expire
// entries on their own.
type ExpiredSessionPurger interface {
	PurgeExpired() int
}

type SessionSweeper struct {
	purger   ExpiredSessionPurger
	interval time.Duration
	logger   *zap.Logger
}

func NewSessionSweeper(purger ExpiredSessionPurger, interval time.Duration, logger *zap.Logger) *SessionSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionSweeper{
		purger:   purger,
		interval: interval,
		logger:   logger,
	}
}

func (s *SessionSweeper) Run(shutdownCtx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.purger.PurgeExpired(); removed > 0 {
				s.logger.Debug("purged expired sessions", zap.Int("count", removed))
			}

		case <-shutdownCtx.Done():
			return
		}
	}
}
