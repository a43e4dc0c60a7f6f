package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cachememory "github.com/zlnvch/webnotes/cache/memory"
	cachemocks "github.com/zlnvch/webnotes/cache/mocks"
	"github.com/zlnvch/webnotes/service"
	storememory "github.com/zlnvch/webnotes/store/memory"
	storemocks "github.com/zlnvch/webnotes/store/mocks"
)

var testSecret = []byte("secret")

// Helper to setup the service with mocks
func setupService(t *testing.T) (*service.Service, *storemocks.MockStore, *cachemocks.MockSessionCache) {
	mockStore := new(storemocks.MockStore)
	mockSessions := new(cachemocks.MockSessionCache)

	svc, err := service.NewService(mockStore, mockSessions, testSecret, time.Hour, nil)
	require.NoError(t, err)

	return svc, mockStore, mockSessions
}

// Helper to setup the service with the in-memory backends used in production
// when no Redis endpoint is configured
func setupMemoryService(t *testing.T) *service.Service {
	svc, err := service.NewService(
		storememory.NewMemoryStore(),
		cachememory.NewMemorySessionCache(),
		testSecret,
		time.Hour,
		nil,
	)
	require.NoError(t, err)
	return svc
}
