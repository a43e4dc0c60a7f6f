package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zlnvch/webnotes/cache"
	"github.com/zlnvch/webnotes/models"
	"github.com/zlnvch/webnotes/service"
	"github.com/zlnvch/webnotes/store"
)

func TestNewService_RequiresDependencies(t *testing.T) {
	_, mockStore, mockSessions := setupService(t)

	_, err := service.NewService(nil, mockSessions, testSecret, time.Hour, nil)
	assert.Error(t, err)

	_, err = service.NewService(mockStore, nil, testSecret, time.Hour, nil)
	assert.Error(t, err)

	_, err = service.NewService(mockStore, mockSessions, nil, time.Hour, nil)
	assert.Error(t, err)

	svc, err := service.NewService(mockStore, mockSessions, testSecret, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, service.DefaultSessionTTL, svc.SessionTTL)
}

func TestSignup_Success(t *testing.T) {
	svc, mockStore, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("Set", ctx, "email:a@x.com", mock.Anything).Return(nil)

	user, err := svc.Signup(ctx, "A", "a@x.com", "p")
	require.NoError(t, err)
	assert.NotEmpty(t, user.Id)
	assert.Equal(t, "A", user.Name)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotNil(t, user.Notes)
	assert.Empty(t, user.Notes)

	// The email index points at the new user id
	mockStore.AssertCalled(t, "Set", ctx, "a@x.com", []byte(user.Id))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := setupMemoryService(t)
	ctx := context.Background()

	first, err := svc.Signup(ctx, "A", "a@x.com", "p")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "B", "a@x.com", "q")
	assert.ErrorIs(t, err, service.ErrConflict)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, first.Id, users[0].Id)
	assert.Equal(t, "A", users[0].Name)
}

func TestSignup_EmailMatchIsCaseSensitive(t *testing.T) {
	svc := setupMemoryService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "A", "a@x.com", "p")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "A2", "A@x.com", "p")
	assert.NoError(t, err)
}

func TestSignup_InvalidInput(t *testing.T) {
	svc, mockStore, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "", "a@x.com", "p")
	assert.ErrorIs(t, err, service.ErrBadRequest)

	_, err = svc.Signup(ctx, "A", "not-an-email", "p")
	assert.ErrorIs(t, err, service.ErrBadRequest)

	mockStore.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_StoreFailureLeavesDirectoryUntouched(t *testing.T) {
	svc, mockStore, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("Set", ctx, "email:a@x.com", mock.Anything).Return(errors.New("store down"))

	_, err := svc.Signup(ctx, "A", "a@x.com", "p")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrConflict)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSignup_ConcurrentSameEmail(t *testing.T) {
	svc := setupMemoryService(t)
	ctx := context.Background()

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Signup(ctx, fmt.Sprintf("user%d", i), "same@x.com", "p")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, service.ErrConflict)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, mockStore, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("Get", ctx, "email:nobody@x.com").Return(nil, store.ErrItemNotFound)

	_, _, err := svc.Login(ctx, "nobody@x.com", "p")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestLogin_StoreFailure(t *testing.T) {
	svc, mockStore, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("Get", ctx, "email:a@x.com").Return(nil, errors.New("store down"))

	_, _, err := svc.Login(ctx, "a@x.com", "p")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrUnauthorized)
}

// The password is not checked: any value logs the user in
func TestLogin_AnyPasswordIssuesTokenForUser(t *testing.T) {
	svc := setupMemoryService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "A", "a@x.com", "p")
	require.NoError(t, err)

	for _, password := range []string{"p", "wrong", ""} {
		userId, token, err := svc.Login(ctx, "a@x.com", password)
		require.NoError(t, err)
		assert.Equal(t, user.Id, userId)

		gotId, err := svc.VerifyJWT(token)
		require.NoError(t, err)
		assert.Equal(t, user.Id, gotId)
	}
}

func TestListUsers_RegistrationOrder(t *testing.T) {
	svc := setupMemoryService(t)
	ctx := context.Background()

	emails := []string{"c@x.com", "a@x.com", "b@x.com"}
	for _, email := range emails {
		_, err := svc.Signup(ctx, "name", email, "p")
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i, email := range emails {
		assert.Equal(t, email, users[i].Email)
	}
}

func TestListUsers_IncludesNotes(t *testing.T) {
	svc := setupMemoryService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "A", "a@x.com", "p")
	require.NoError(t, err)
	note, err := svc.AddNote(ctx, user.Id, "t", "b")
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, []models.Note{note}, users[0].Notes)
}

func TestLogin_InvalidEmail(t *testing.T) {
	svc, mockStore, _ := setupService(t)
	ctx := context.Background()

	for _, email := range []string{"", "1", "not-an-email", "A <a@x.com>"} {
		_, _, err := svc.Login(ctx, email, "p")
		assert.ErrorIs(t, err, service.ErrBadRequest, email)
	}
	mockStore.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

// A note id used as a login email must never resolve to the note's record
func TestLogin_NoteIdIsNotAnEmail(t *testing.T) {
	svc := setupMemoryService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "A", "a@x.com", "p")
	require.NoError(t, err)
	_, err = svc.AddNote(ctx, user.Id, "t", "b")
	require.NoError(t, err)

	userId, token, err := svc.Login(ctx, "1", "whatever")
	assert.ErrorIs(t, err, service.ErrBadRequest)
	assert.Empty(t, userId)
	assert.Empty(t, token)
}

func TestAuthenticateToken_Success(t *testing.T) {
	svc := setupMemoryService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "A", "a@x.com", "p")
	require.NoError(t, err)
	_, token, err := svc.Login(ctx, "a@x.com", "p")
	require.NoError(t, err)

	got, err := svc.AuthenticateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.Id, got.Id)
}

func TestAuthenticateToken_UnknownUser(t *testing.T) {
	svc, _, _ := setupService(t)

	token, err := svc.CreateJWT("ghost")
	require.NoError(t, err)

	_, err = svc.AuthenticateToken(context.Background(), token)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestOpenSession_StoresTokenAndUser(t *testing.T) {
	svc, _, mockSessions := setupService(t)
	ctx := context.Background()

	expected := models.Session{UserId: "u1", AccessToken: "tok"}
	mockSessions.On("CreateSession", ctx, expected, time.Hour).Return("sid", nil)

	sessionId, err := svc.OpenSession(ctx, "u1", "tok")
	require.NoError(t, err)
	assert.Equal(t, "sid", sessionId)
	mockSessions.AssertExpectations(t)
}

func TestOpenSession_Failure(t *testing.T) {
	svc, _, mockSessions := setupService(t)
	ctx := context.Background()

	mockSessions.On("CreateSession", ctx, mock.Anything, mock.Anything).Return("", assert.AnError)

	_, err := svc.OpenSession(ctx, "u1", "")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSessionUser(t *testing.T) {
	svc := setupMemoryService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "A", "a@x.com", "p")
	require.NoError(t, err)

	sessionId, err := svc.OpenSession(ctx, user.Id, "")
	require.NoError(t, err)

	got, err := svc.SessionUser(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, user.Id, got.Id)

	require.NoError(t, svc.CloseSession(ctx, sessionId))
	_, err = svc.SessionUser(ctx, sessionId)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestSessionUser_Errors(t *testing.T) {
	svc, _, mockSessions := setupService(t)
	ctx := context.Background()

	_, err := svc.SessionUser(ctx, "")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	mockSessions.On("GetSession", ctx, "expired").Return(models.Session{}, cache.ErrSessionNotFound)
	_, err = svc.SessionUser(ctx, "expired")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	mockSessions.On("GetSession", ctx, "broken").Return(models.Session{}, errors.New("cache down"))
	_, err = svc.SessionUser(ctx, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrUnauthorized)

	mockSessions.On("GetSession", ctx, "orphan").Return(models.Session{UserId: "ghost"}, nil)
	_, err = svc.SessionUser(ctx, "orphan")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
