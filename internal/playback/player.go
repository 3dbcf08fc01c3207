// Package playback orchestrates camera switching and gap traversal for a
// single open playback session. It owns the transient switch state machine and
// the synthetic clock that keeps the timeline moving where no camera has
// coverage; rendering is a thin consumer behind the MediaPlayer interface.
package playback

import (
	"context"

	"github.com/google/uuid"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/timeline"
)

// MediaPlayer abstracts the rendering layer's media element. Implementations
// are expected to be driven from a single goroutine per session.
type MediaPlayer interface {
	// Load points the player at a new playable URL
	Load(ctx context.Context, url string) error

	// Seek moves playback to a position within the loaded media
	Seek(ctx context.Context, positionMs int64) error

	// Play resumes playback. A runtime that blocks autoplay returns
	// ErrAutoplayBlocked; callers treat that as "stay paused", not a failure.
	Play(ctx context.Context) error

	// Pause suspends playback
	Pause()

	// IsPlaying reports whether playback is currently active
	IsPlaying() bool

	// PositionMs reports the current playback position within the loaded media
	PositionMs() int64

	// Buffered reports whether enough media is buffered to seek validly to the position
	Buffered(positionMs int64) bool
}

// Resolver resolves the active clip on a lane at an absolute game time.
// *timeline.Service satisfies this.
type Resolver interface {
	ResolveAt(ctx context.Context, gameID uuid.UUID, lane int, timeMs int64) (timeline.ActiveClip, error)
}

// URLProvider supplies playable URLs for clips. *signedurl.Manager satisfies this.
type URLProvider interface {
	EnsureURL(ctx context.Context, clip *models.TimelineClip) (string, error)
}

// SelectionRecorder records which camera went live at a game time, feeding the
// director's-cut ledger. *ledger.Service satisfies this.
type SelectionRecorder interface {
	RecordSwitch(ctx context.Context, gameID uuid.UUID, lane int, clipID *uuid.UUID, startSeconds float64) error
}
