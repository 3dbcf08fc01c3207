package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// SelectionRepository handles database operations for camera selection ledger entries
type SelectionRepository struct {
	db *DB
}

// NewSelectionRepository creates a new selection repository
func NewSelectionRepository(db *DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// Append inserts a new open entry and closes the previously-open entry at the
// new entry's start, in one transaction. The ledger invariant (at most one
// open entry per game) holds before and after.
func (r *SelectionRepository) Append(ctx context.Context, entry *models.CameraSelection) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&models.CameraSelection{}).
			Where("game_id = ? AND end_seconds IS NULL", entry.GameID.String()).
			Update("end_seconds", entry.StartSeconds)
		if result.Error != nil {
			return fmt.Errorf("failed to close open selection: %w", MapGormError(result.Error))
		}

		if result := tx.Create(entry); result.Error != nil {
			return fmt.Errorf("failed to create selection: %w", MapGormError(result.Error))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append selection: %w", err)
	}
	return nil
}

// ListByGame retrieves all ledger entries for a game ordered by start ascending
func (r *SelectionRepository) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.CameraSelection, error) {
	var entries []*models.CameraSelection
	result := r.db.WithContext(ctx).
		Where("game_id = ?", gameID.String()).
		Order("start_seconds ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list selections: %w", MapGormError(result.Error))
	}
	return entries, nil
}

// GetOpen retrieves the currently-open entry for a game, if any
func (r *SelectionRepository) GetOpen(ctx context.Context, gameID uuid.UUID) (*models.CameraSelection, error) {
	var entry models.CameraSelection
	result := r.db.WithContext(ctx).
		Where("game_id = ? AND end_seconds IS NULL", gameID.String()).
		First(&entry)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &entry, nil
}

// ClearByGame deletes all ledger entries for a game
func (r *SelectionRepository) ClearByGame(ctx context.Context, gameID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("game_id = ?", gameID.String()).
		Delete(&models.CameraSelection{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear selections: %w", MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}
