package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// LaneRepository handles database operations for camera lanes
type LaneRepository struct {
	db *DB
}

// NewLaneRepository creates a new lane repository
func NewLaneRepository(db *DB) *LaneRepository {
	return &LaneRepository{db: db}
}

// Create inserts a new lane into the database
func (r *LaneRepository) Create(ctx context.Context, lane *models.CameraLane) error {
	result := r.db.WithContext(ctx).Create(lane)
	if result.Error != nil {
		return fmt.Errorf("failed to create lane: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByGame retrieves all lanes for a game, ordered by lane number
func (r *LaneRepository) GetByGame(ctx context.Context, gameID uuid.UUID) ([]*models.CameraLane, error) {
	var lanes []*models.CameraLane
	result := r.db.WithContext(ctx).
		Where("game_id = ?", gameID.String()).
		Order("lane ASC").
		Find(&lanes)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get lanes by game: %w", MapGormError(result.Error))
	}
	return lanes, nil
}

// Get retrieves a single lane of a game by lane number
func (r *LaneRepository) Get(ctx context.Context, gameID uuid.UUID, lane int) (*models.CameraLane, error) {
	var l models.CameraLane
	result := r.db.WithContext(ctx).
		Where("game_id = ? AND lane = ?", gameID.String(), lane).
		First(&l)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &l, nil
}

// Update updates a lane's label and sync offset
func (r *LaneRepository) Update(ctx context.Context, lane *models.CameraLane) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", lane.ID.String()).
		Select("label", "sync_offset_ms").
		Updates(lane)
	if result.Error != nil {
		return fmt.Errorf("failed to update lane: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
