package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/zlnvch/webnotes/models"
	"github.com/zlnvch/webnotes/store"
)

// Signup registers a new user. The password is accepted but neither hashed
// nor stored; Login never checks it.
func (s *Service) Signup(ctx context.Context, name, email, password string) (models.User, error) {
	if err := ValidateSignup(name, email); err != nil {
		return models.User{}, err
	}

	// The write lock spans the uniqueness check and both writes so two
	// signups with one email cannot both succeed
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.users {
		if entry.user.Email == email {
			return models.User{}, fmt.Errorf("%w: this email is already registered", ErrConflict)
		}
	}

	userId, err := uuid.NewV4()
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		Id:    userId.String(),
		Name:  name,
		Email: email,
		Notes: []models.Note{},
	}

	if err := s.Store.Set(ctx, emailKey(email), []byte(user.Id)); err != nil {
		return models.User{}, fmt.Errorf("store email index: %w", err)
	}

	entry := &userEntry{user: user}
	s.usersById[user.Id] = entry
	s.users = append(s.users, entry)

	s.Logger.Debug("user registered", zap.String("user_id", user.Id))
	return user, nil
}

// Login resolves the email through the Store index and issues an access
// token. The password is not verified.
func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	if err := ValidateEmail(email); err != nil {
		return "", "", err
	}

	raw, err := s.Store.Get(ctx, emailKey(email))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return "", "", fmt.Errorf("%w: unknown email", ErrUnauthorized)
		}
		return "", "", fmt.Errorf("lookup email: %w", err)
	}
	userId := string(raw)

	token, err := s.CreateJWT(userId)
	if err != nil {
		return "", "", fmt.Errorf("token generation failed: %w", err)
	}

	return userId, token, nil
}

// ListUsers returns every registered user in registration order.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	entries := make([]*userEntry, len(s.users))
	copy(entries, s.users)
	s.mu.RUnlock()

	users := make([]models.User, 0, len(entries))
	for _, entry := range entries {
		user, err := s.renderUser(ctx, entry)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// AuthenticateToken verifies a bearer token and resolves the user it names.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (models.User, error) {
	userId, err := s.VerifyJWT(token)
	if err != nil {
		return models.User{}, err
	}

	entry, ok := s.lookupUser(userId)
	if !ok {
		return models.User{}, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}

	entry.mu.Lock()
	user := entry.user
	entry.mu.Unlock()
	return user, nil
}

// renderUser builds the public view of a user with notes loaded from the Store.
func (s *Service) renderUser(ctx context.Context, entry *userEntry) (models.User, error) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	notes, err := s.loadNotes(ctx, entry.noteIds)
	if err != nil {
		return models.User{}, err
	}
	user := entry.user
	user.Notes = notes
	return user, nil
}
