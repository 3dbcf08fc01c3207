package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxLanes is the maximum number of camera lanes per game timeline
const MaxLanes = 5

// CameraLane represents one physical camera's channel on a game timeline.
// SyncOffsetMs is a constant adjustment applied when the lane's camera started
// recording at a different wall-clock instant than the reference lane.
type CameraLane struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	GameID       uuid.UUID `json:"game_id" gorm:"type:text;not null;index;column:game_id" validate:"required"`
	Lane         int       `json:"lane" gorm:"type:integer;not null;column:lane" validate:"required,gte=1,lte=5"`
	Label        string    `json:"label" gorm:"type:text;not null;column:label"`
	SyncOffsetMs int64     `json:"sync_offset_ms" gorm:"type:integer;not null;default:0;column:sync_offset_ms"`
	CreatedAt    time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`

	// Populated by joins, not stored in database. Ordered by lane position ascending.
	Clips []*TimelineClip `json:"clips,omitempty" gorm:"-"`
}

// NewCameraLane creates a new CameraLane with generated UUID and timestamp
func NewCameraLane(gameID uuid.UUID, lane int, label string) *CameraLane {
	return &CameraLane{
		ID:        uuid.New(),
		GameID:    gameID,
		Lane:      lane,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
}
