package models

import (
	"time"

	"github.com/google/uuid"
)

// VirtualSequence is a derived, read-only composite referencing existing clips
// in a chosen playback order. It owns no media of its own; the referenced
// clips are never mutated by creating or deleting a sequence.
type VirtualSequence struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	GameID    uuid.UUID `json:"game_id" gorm:"type:text;not null;index;column:game_id" validate:"required"`
	Name      string    `json:"name" gorm:"type:text;not null;column:name" validate:"required"`
	ClipCount int       `json:"clip_count" gorm:"type:integer;not null;column:clip_count" validate:"gte=1"`
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`

	// Populated by joins, not stored in database. Ordered by position ascending.
	Entries []*VirtualSequenceEntry `json:"entries,omitempty" gorm:"-"`
}

// VirtualSequenceEntry is one ordered reference from a virtual sequence to a clip
type VirtualSequenceEntry struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	SequenceID uuid.UUID `json:"sequence_id" gorm:"type:text;not null;index;column:sequence_id" validate:"required"`
	ClipID     uuid.UUID `json:"clip_id" gorm:"type:text;not null;column:clip_id" validate:"required"`
	Position   int       `json:"position" gorm:"type:integer;not null;column:position" validate:"gte=0"`
	CreatedAt  time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`

	// Populated by joins, not stored in database
	Clip *TimelineClip `json:"clip,omitempty" gorm:"-"`
}

// NewVirtualSequence creates a new VirtualSequence with generated UUID and timestamp
func NewVirtualSequence(gameID uuid.UUID, name string, clipCount int) *VirtualSequence {
	return &VirtualSequence{
		ID:        uuid.New(),
		GameID:    gameID,
		Name:      name,
		ClipCount: clipCount,
		CreatedAt: time.Now().UTC(),
	}
}

// NewVirtualSequenceEntry creates a new VirtualSequenceEntry with generated UUID and timestamp
func NewVirtualSequenceEntry(sequenceID, clipID uuid.UUID, position int) *VirtualSequenceEntry {
	return &VirtualSequenceEntry{
		ID:         uuid.New(),
		SequenceID: sequenceID,
		ClipID:     clipID,
		Position:   position,
		CreatedAt:  time.Now().UTC(),
	}
}
