package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// ClipRepository handles database operations for timeline clips
type ClipRepository struct {
	db *DB
}

// NewClipRepository creates a new clip repository
func NewClipRepository(db *DB) *ClipRepository {
	return &ClipRepository{db: db}
}

// Create inserts a new clip into the database
func (r *ClipRepository) Create(ctx context.Context, clip *models.TimelineClip) error {
	result := r.db.WithContext(ctx).Create(clip)
	if result.Error != nil {
		return fmt.Errorf("failed to create clip: %w", MapGormError(result.Error))
	}
	return nil
}

// CreateWithClose inserts a new clip and persists the implicit close of an
// open-ended predecessor in one transaction. The close-out is part of the
// insertion: if either write fails, neither survives. closed may be nil when
// the append closes nothing.
func (r *ClipRepository) CreateWithClose(ctx context.Context, closed, clip *models.TimelineClip) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if closed != nil {
			closed.UpdatedAt = time.Now().UTC()
			result := tx.Model(&models.TimelineClip{}).
				Where("id = ?", closed.ID.String()).
				Select("duration_ms", "open_ended", "updated_at").
				Updates(closed)
			if result.Error != nil {
				return fmt.Errorf("failed to close open-ended clip: %w", MapGormError(result.Error))
			}
			if result.RowsAffected == 0 {
				return ErrNotFound
			}
		}

		if result := tx.Create(clip); result.Error != nil {
			return fmt.Errorf("failed to create clip: %w", MapGormError(result.Error))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append clip: %w", err)
	}
	return nil
}

// GetByID retrieves a clip by its UUID
func (r *ClipRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TimelineClip, error) {
	var clip models.TimelineClip
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&clip)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &clip, nil
}

// GetByIDs retrieves clips by UUID, preserving no particular order
func (r *ClipRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.TimelineClip, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	var clips []*models.TimelineClip
	result := r.db.WithContext(ctx).Where("id IN ?", strIDs).Find(&clips)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get clips by ids: %w", MapGormError(result.Error))
	}
	return clips, nil
}

// GetByGame retrieves all clips for a game, ordered by lane then lane position
func (r *ClipRepository) GetByGame(ctx context.Context, gameID uuid.UUID) ([]*models.TimelineClip, error) {
	var clips []*models.TimelineClip
	result := r.db.WithContext(ctx).
		Where("game_id = ?", gameID.String()).
		Order("lane ASC, lane_position_ms ASC").
		Find(&clips)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get clips by game: %w", MapGormError(result.Error))
	}
	return clips, nil
}

// GetByLane retrieves all clips on one lane of a game, ordered by lane position
func (r *ClipRepository) GetByLane(ctx context.Context, gameID uuid.UUID, lane int) ([]*models.TimelineClip, error) {
	var clips []*models.TimelineClip
	result := r.db.WithContext(ctx).
		Where("game_id = ? AND lane = ?", gameID.String(), lane).
		Order("lane_position_ms ASC").
		Find(&clips)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get clips by lane: %w", MapGormError(result.Error))
	}
	return clips, nil
}

// Update updates an existing clip's placement and trim fields
func (r *ClipRepository) Update(ctx context.Context, clip *models.TimelineClip) error {
	clip.UpdatedAt = time.Now().UTC()

	// Select explicitly so zero values (trim reset, open_ended cleared) persist
	result := r.db.WithContext(ctx).
		Where("id = ?", clip.ID.String()).
		Select("lane", "lane_position_ms", "duration_ms", "trim_start_ms", "trim_end_ms", "open_ended", "updated_at").
		Updates(clip)
	if result.Error != nil {
		return fmt.Errorf("failed to update clip: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a clip by its UUID
func (r *ClipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.TimelineClip{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete clip: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
