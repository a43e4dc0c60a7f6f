package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zlnvch/webnotes/models"
)

type MockSessionCache struct {
	mock.Mock
}

func (m *MockSessionCache) CreateSession(ctx context.Context, session models.Session, ttl time.Duration) (string, error) {
	args := m.Called(ctx, session, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockSessionCache) GetSession(ctx context.Context, sessionId string) (models.Session, error) {
	args := m.Called(ctx, sessionId)
	return args.Get(0).(models.Session), args.Error(1)
}

func (m *MockSessionCache) DeleteSession(ctx context.Context, sessionId string) error {
	args := m.Called(ctx, sessionId)
	return args.Error(0)
}
