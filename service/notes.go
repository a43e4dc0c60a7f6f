package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/zlnvch/webnotes/models"
	"github.com/zlnvch/webnotes/store"
)

// Notes live in the Store under their decimal id. Each user entry keeps the
// ids it owns; ownership checks consult that index only.

func (s *Service) AddNote(ctx context.Context, userId, title, text string) (models.Note, error) {
	entry, ok := s.lookupUser(userId)
	if !ok {
		return models.Note{}, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Ids come from a process-wide counter and are never handed out twice,
	// even when the write below fails
	note := models.Note{
		Id:     s.noteIdCounter.Add(1),
		Title:  title,
		Text:   text,
		UserId: entry.user.Id,
	}

	if err := s.putNote(ctx, note); err != nil {
		return models.Note{}, err
	}
	entry.noteIds = append(entry.noteIds, note.Id)

	return note, nil
}

func (s *Service) UpdateNote(ctx context.Context, userId string, noteId int64, title, text string) (models.Note, error) {
	entry, ok := s.lookupUser(userId)
	if !ok {
		return models.Note{}, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !slices.Contains(entry.noteIds, noteId) {
		return models.Note{}, fmt.Errorf("%w: note not found", ErrNotFound)
	}

	note := models.Note{
		Id:     noteId,
		Title:  title,
		Text:   text,
		UserId: entry.user.Id,
	}
	if err := s.putNote(ctx, note); err != nil {
		return models.Note{}, err
	}

	return note, nil
}

func (s *Service) DeleteNote(ctx context.Context, userId string, noteId int64) error {
	entry, ok := s.lookupUser(userId)
	if !ok {
		return fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	idx := slices.Index(entry.noteIds, noteId)
	if idx < 0 {
		return fmt.Errorf("%w: note not found", ErrNotFound)
	}

	if err := s.Store.Delete(ctx, noteKey(noteId)); err != nil {
		s.Logger.Error("failed to delete note", zap.Int64("note_id", noteId), zap.Error(err))
		return fmt.Errorf("delete note: %w", err)
	}
	entry.noteIds = slices.Delete(entry.noteIds, idx, idx+1)

	return nil
}

// GetNote reads a note straight from the Store. It is not scoped to any user
// and the route serving it is unauthenticated.
func (s *Service) GetNote(ctx context.Context, noteId int64) (models.Note, error) {
	raw, err := s.Store.Get(ctx, noteKey(noteId))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return models.Note{}, fmt.Errorf("%w: note not found", ErrNotFound)
		}
		return models.Note{}, fmt.Errorf("get note: %w", err)
	}

	var note models.Note
	if err := json.Unmarshal(raw, &note); err != nil {
		return models.Note{}, fmt.Errorf("decode note %d: %w", noteId, err)
	}
	return note, nil
}

// ListNotes returns the notes owned by userId in creation order.
func (s *Service) ListNotes(ctx context.Context, userId string) ([]models.Note, error) {
	entry, ok := s.lookupUser(userId)
	if !ok {
		return nil, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return s.loadNotes(ctx, entry.noteIds)
}

func (s *Service) putNote(ctx context.Context, note models.Note) error {
	data, err := json.Marshal(note)
	if err != nil {
		return err
	}
	if err := s.Store.Set(ctx, noteKey(note.Id), data); err != nil {
		s.Logger.Error("failed to store note", zap.Int64("note_id", note.Id), zap.Error(err))
		return fmt.Errorf("store note: %w", err)
	}
	return nil
}

// loadNotes expects the owning entry's lock to be held.
func (s *Service) loadNotes(ctx context.Context, noteIds []int64) ([]models.Note, error) {
	notes := make([]models.Note, 0, len(noteIds))
	for _, id := range noteIds {
		note, err := s.GetNote(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				s.Logger.Warn("note listed but missing from store", zap.Int64("note_id", id))
				continue
			}
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}
