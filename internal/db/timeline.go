package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// TimelineRepository handles database operations for game timelines
type TimelineRepository struct {
	db *DB
}

// NewTimelineRepository creates a new timeline repository
func NewTimelineRepository(db *DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

// Create inserts a new game timeline into the database
func (r *TimelineRepository) Create(ctx context.Context, timeline *models.GameTimeline) error {
	result := r.db.WithContext(ctx).Create(timeline)
	if result.Error != nil {
		return fmt.Errorf("failed to create timeline: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByGameID retrieves the timeline for a game
func (r *TimelineRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.GameTimeline, error) {
	var timeline models.GameTimeline
	result := r.db.WithContext(ctx).Where("game_id = ?", gameID.String()).First(&timeline)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &timeline, nil
}

// Touch bumps the timeline's updated_at after a clip mutation
func (r *TimelineRepository) Touch(ctx context.Context, gameID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.GameTimeline{}).
		Where("game_id = ?", gameID.String()).
		Update("updated_at", time.Now().UTC())
	if result.Error != nil {
		return fmt.Errorf("failed to touch timeline: %w", MapGormError(result.Error))
	}
	return nil
}
