// Package timeline models a game's multi-camera timeline and resolves which
// clip covers any instant of game time, creating the illusion of one
// continuous recording even where individual cameras have gaps.
package timeline

import (
	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// ActiveClip describes what a lane is showing at a given timeline instant.
// Either Clip is set and ClipTimeMs is the offset within it, or InGap is true
// and NextClipStartMs points at the next coverage (nil when none remains).
type ActiveClip struct {
	// Clip is the clip covering the requested time, nil when in a gap
	Clip *models.TimelineClip `json:"clip,omitempty"`

	// ClipTimeMs is the offset within Clip; meaningless when InGap
	ClipTimeMs int64 `json:"clip_time_ms"`

	// InGap reports that no clip on the lane covers the requested time
	InGap bool `json:"is_in_gap"`

	// NextClipStartMs is the start of the next clip after the requested time,
	// nil when the lane has no further coverage
	NextClipStartMs *int64 `json:"next_clip_start_ms,omitempty"`
}

// Resolve determines which clip (if any) is active on a lane at an absolute
// timeline time. This is a pure function with no I/O.
//
// A clip is active on [LanePositionMs, LanePositionMs+DurationMs) — start
// inclusive, end exclusive: at the exact end boundary the clip has already
// cut. Open-ended clips (live placeholders not yet closed by a subsequent
// append) are active from their start onward.
//
// An unknown lane, or a lane with no clips, resolves to a gap with no next
// clip. Performance: O(n) over the lane's clips.
func Resolve(lanes []*models.CameraLane, lane int, timeMs int64) ActiveClip {
	var target *models.CameraLane
	for _, l := range lanes {
		if l.Lane == lane {
			target = l
			break
		}
	}
	if target == nil || len(target.Clips) == 0 {
		return ActiveClip{InGap: true}
	}

	// Clips are kept ordered by lane position, but resolution must not depend
	// on it: scan all clips for an active one and track the nearest next start.
	var nextStart *int64
	for _, clip := range target.Clips {
		if timeMs >= clip.LanePositionMs {
			if clip.OpenEnded || timeMs < clip.EndMs() {
				return ActiveClip{
					Clip:       clip,
					ClipTimeMs: timeMs - clip.LanePositionMs,
				}
			}
			continue
		}
		if nextStart == nil || clip.LanePositionMs < *nextStart {
			start := clip.LanePositionMs
			nextStart = &start
		}
	}

	return ActiveClip{InGap: true, NextClipStartMs: nextStart}
}

// ResolveTimeline resolves a lane of a GameTimeline at the given time,
// applying the lane's sync offset so game time lines up across cameras that
// started recording at different wall-clock instants.
func ResolveTimeline(t *models.GameTimeline, lane int, timeMs int64) ActiveClip {
	if t == nil {
		return ActiveClip{InGap: true}
	}
	if l := t.Lane(lane); l != nil {
		return Resolve(t.Lanes, lane, timeMs+l.SyncOffsetMs)
	}
	return Resolve(t.Lanes, lane, timeMs)
}
