package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zlnvch/webnotes/cache"
	"github.com/zlnvch/webnotes/models"
)

// OpenSession stores server-side session state for userId and returns the
// opaque id the client carries in its cookie. accessToken may be empty.
func (s *Service) OpenSession(ctx context.Context, userId, accessToken string) (string, error) {
	session := models.Session{
		UserId:      userId,
		AccessToken: accessToken,
	}
	sessionId, err := s.Sessions.CreateSession(ctx, session, s.SessionTTL)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sessionId, nil
}

// SessionUser resolves the user bound to a session id.
func (s *Service) SessionUser(ctx context.Context, sessionId string) (models.User, error) {
	if sessionId == "" {
		return models.User{}, fmt.Errorf("%w: no session", ErrUnauthorized)
	}

	session, err := s.Sessions.GetSession(ctx, sessionId)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return models.User{}, fmt.Errorf("%w: session expired", ErrUnauthorized)
		}
		return models.User{}, fmt.Errorf("load session: %w", err)
	}

	entry, ok := s.lookupUser(session.UserId)
	if !ok {
		return models.User{}, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}

	entry.mu.Lock()
	user := entry.user
	entry.mu.Unlock()
	return user, nil
}

func (s *Service) CloseSession(ctx context.Context, sessionId string) error {
	if sessionId == "" {
		return nil
	}
	return s.Sessions.DeleteSession(ctx, sessionId)
}
