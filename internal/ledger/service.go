package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/db"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/logger"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// Service maintains the per-game camera selection ledger: the append-only
// record of which camera was live over which stretch of game time
type Service struct {
	repos *db.Repositories
}

// NewService creates a new ledger service
func NewService(repos *db.Repositories) *Service {
	return &Service{repos: repos}
}

// Append records that the given lane became the live camera at startSeconds.
// The previously-open entry is closed at the same instant, so entries tile
// the watched stretch of the game without overlap.
func (s *Service) Append(ctx context.Context, gameID uuid.UUID, lane int, clipID *uuid.UUID, startSeconds float64) (*models.CameraSelection, error) {
	entry := models.NewCameraSelection(gameID, lane, clipID, startSeconds)

	if err := s.repos.Selections.Append(ctx, entry); err != nil {
		return nil, err
	}

	logger.Log.Debug().
		Str("game_id", gameID.String()).
		Int("lane", lane).
		Float64("start_seconds", startSeconds).
		Msg("Appended camera selection")

	return entry, nil
}

// List returns the game's ledger entries ordered by start time
func (s *Service) List(ctx context.Context, gameID uuid.UUID) ([]*models.CameraSelection, error) {
	return s.repos.Selections.ListByGame(ctx, gameID)
}

// Open returns the currently-open entry, or db.ErrNotFound when the game has
// no live selection
func (s *Service) Open(ctx context.Context, gameID uuid.UUID) (*models.CameraSelection, error) {
	return s.repos.Selections.GetOpen(ctx, gameID)
}

// Clear deletes the game's entire ledger, returning the number of entries
// removed
func (s *Service) Clear(ctx context.Context, gameID uuid.UUID) (int64, error) {
	deleted, err := s.repos.Selections.ClearByGame(ctx, gameID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear ledger: %w", err)
	}

	logger.Log.Info().
		Str("game_id", gameID.String()).
		Int64("deleted", deleted).
		Msg("Cleared camera selection ledger")

	return deleted, nil
}

// RecordSwitch feeds completed camera switches into the ledger
func (s *Service) RecordSwitch(ctx context.Context, gameID uuid.UUID, lane int, clipID *uuid.UUID, startSeconds float64) error {
	_, err := s.Append(ctx, gameID, lane, clipID, startSeconds)
	return err
}
