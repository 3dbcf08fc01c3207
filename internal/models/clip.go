package models

import (
	"time"

	"github.com/google/uuid"
)

// TimelineClip represents one recorded segment placed on a lane of a game timeline.
// LanePositionMs anchors the clip at an absolute position on the shared timeline;
// TrimStartMs/TrimEndMs are a playback window within the source media and do not
// affect lane placement.
type TimelineClip struct {
	ID             uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	GameID         uuid.UUID  `json:"game_id" gorm:"type:text;not null;index;column:game_id" validate:"required"`
	Lane           int        `json:"lane" gorm:"type:integer;not null;column:lane" validate:"required,gte=1"`
	MediaRef       string     `json:"media_ref" gorm:"type:text;column:media_ref"`
	LanePositionMs int64      `json:"lane_position_ms" gorm:"type:integer;not null;column:lane_position_ms" validate:"gte=0"`
	DurationMs     int64      `json:"duration_ms" gorm:"type:integer;not null;column:duration_ms"`
	TrimStartMs    int64      `json:"trim_start_ms" gorm:"type:integer;not null;default:0;column:trim_start_ms"`
	TrimEndMs      *int64     `json:"trim_end_ms,omitempty" gorm:"type:integer;column:trim_end_ms"`
	OpenEnded      bool       `json:"open_ended" gorm:"type:integer;not null;default:0;column:open_ended"`
	CreatedAt      time.Time  `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewTimelineClip creates a new TimelineClip with generated UUID and timestamps
func NewTimelineClip(gameID uuid.UUID, lane int, mediaRef string, lanePositionMs, durationMs int64) *TimelineClip {
	now := time.Now().UTC()
	return &TimelineClip{
		ID:             uuid.New(),
		GameID:         gameID,
		Lane:           lane,
		MediaRef:       mediaRef,
		LanePositionMs: lanePositionMs,
		DurationMs:     durationMs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// EndMs returns the exclusive end position of the clip on the timeline
func (c *TimelineClip) EndMs() int64 {
	return c.LanePositionMs + c.DurationMs
}

// HasMedia reports whether the clip references a stored media object.
// Virtual entries have no media of their own and never get signed URLs.
func (c *TimelineClip) HasMedia() bool {
	return c.MediaRef != ""
}
