package models

import (
	"time"

	"github.com/google/uuid"
)

// CameraSelection is one entry in a game's camera selection ledger: which
// camera was the chosen feed from StartSeconds (inclusive) to EndSeconds
// (exclusive). A nil EndSeconds marks the currently-open entry; at most one
// entry per game may be open at a time. Entries are immutable once closed.
type CameraSelection struct {
	ID           uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	GameID       uuid.UUID  `json:"game_id" gorm:"type:text;not null;index;column:game_id" validate:"required"`
	Lane         int        `json:"lane" gorm:"type:integer;not null;column:lane" validate:"required,gte=1"`
	ClipID       *uuid.UUID `json:"clip_id,omitempty" gorm:"type:text;column:clip_id"`
	StartSeconds float64    `json:"start_seconds" gorm:"type:real;not null;column:start_seconds" validate:"gte=0"`
	EndSeconds   *float64   `json:"end_seconds,omitempty" gorm:"type:real;column:end_seconds"`
	CreatedAt    time.Time  `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewCameraSelection creates a new open CameraSelection with generated UUID and timestamp
func NewCameraSelection(gameID uuid.UUID, lane int, clipID *uuid.UUID, startSeconds float64) *CameraSelection {
	return &CameraSelection{
		ID:           uuid.New(),
		GameID:       gameID,
		Lane:         lane,
		ClipID:       clipID,
		StartSeconds: startSeconds,
		CreatedAt:    time.Now().UTC(),
	}
}

// IsOpen reports whether the entry is still the live selection
func (s *CameraSelection) IsOpen() bool {
	return s.EndSeconds == nil
}
