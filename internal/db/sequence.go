package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// SequenceRepository handles database operations for virtual sequences
type SequenceRepository struct {
	db *DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Create inserts a virtual sequence and its ordered entries in one transaction
func (r *SequenceRepository) Create(ctx context.Context, seq *models.VirtualSequence, entries []*models.VirtualSequenceEntry) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if result := tx.Create(seq); result.Error != nil {
			return fmt.Errorf("failed to create sequence: %w", MapGormError(result.Error))
		}
		for _, entry := range entries {
			if result := tx.Create(entry); result.Error != nil {
				return fmt.Errorf("failed to create sequence entry: %w", MapGormError(result.Error))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create virtual sequence: %w", err)
	}
	return nil
}

// GetByID retrieves a virtual sequence with its entries ordered by position
func (r *SequenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VirtualSequence, error) {
	var seq models.VirtualSequence
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&seq)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}

	var entries []*models.VirtualSequenceEntry
	result = r.db.WithContext(ctx).
		Where("sequence_id = ?", id.String()).
		Order("position ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get sequence entries: %w", MapGormError(result.Error))
	}

	seq.Entries = entries
	return &seq, nil
}

// ListByGame retrieves all virtual sequences for a game, newest first
func (r *SequenceRepository) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.VirtualSequence, error) {
	var seqs []*models.VirtualSequence
	result := r.db.WithContext(ctx).
		Where("game_id = ?", gameID.String()).
		Order("created_at DESC").
		Find(&seqs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list sequences: %w", MapGormError(result.Error))
	}
	return seqs, nil
}

// Delete deletes a virtual sequence and its entries. The referenced clips are untouched.
func (r *SequenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if result := tx.Where("sequence_id = ?", id.String()).Delete(&models.VirtualSequenceEntry{}); result.Error != nil {
			return fmt.Errorf("failed to delete sequence entries: %w", MapGormError(result.Error))
		}
		result := tx.Where("id = ?", id.String()).Delete(&models.VirtualSequence{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete sequence: %w", MapGormError(result.Error))
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete virtual sequence: %w", err)
	}
	return nil
}
