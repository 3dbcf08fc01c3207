package models

import (
	"time"

	"github.com/google/uuid"
)

// GameTimeline is the aggregate root for a game's multi-camera timeline.
// TimelineMode distinguishes the multi-lane structure from the simpler
// single-video model older recordings use.
type GameTimeline struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	GameID       uuid.UUID `json:"game_id" gorm:"type:text;not null;uniqueIndex;column:game_id" validate:"required"`
	TimelineMode bool      `json:"timeline_mode" gorm:"type:integer;not null;default:1;column:timeline_mode"`
	CreatedAt    time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`

	// Populated by joins, not stored in database. Ordered by lane number ascending.
	Lanes []*CameraLane `json:"lanes,omitempty" gorm:"-"`
}

// NewGameTimeline creates a new GameTimeline with generated UUID and timestamps
func NewGameTimeline(gameID uuid.UUID) *GameTimeline {
	now := time.Now().UTC()
	return &GameTimeline{
		ID:           uuid.New(),
		GameID:       gameID,
		TimelineMode: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DurationMs returns the total timeline duration: the max over all lanes of
// the last clip's end position. Zero when no lane has clips.
func (t *GameTimeline) DurationMs() int64 {
	var total int64
	for _, lane := range t.Lanes {
		for _, clip := range lane.Clips {
			if end := clip.EndMs(); end > total {
				total = end
			}
		}
	}
	return total
}

// Lane returns the lane with the given number, or nil if it does not exist
func (t *GameTimeline) Lane(lane int) *CameraLane {
	for _, l := range t.Lanes {
		if l.Lane == lane {
			return l
		}
	}
	return nil
}
