package timeline

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// The mutation functions below operate on an in-memory GameTimeline. They
// validate invariants before touching any state: a rejected mutation leaves
// the timeline exactly as it was. Persistence is the service's concern.

// AppendClip places a new clip on a lane. If the lane's current last clip is
// open-ended (a live recording placeholder with no explicit end yet), its
// duration is implicitly closed at the new clip's start. The append is
// rejected with ErrClipOverlap when the new clip's interval would intersect
// any existing clip on the lane.
func AppendClip(t *models.GameTimeline, lane int, clip *models.TimelineClip) error {
	l := t.Lane(lane)
	if l == nil {
		return ErrLaneNotFound
	}

	// Work out the close-out of an open-ended last clip before validating, so
	// overlap is checked against the effective intervals, but apply nothing
	// until validation passes.
	var closeOut *models.TimelineClip
	var closedDuration int64
	if last := lastClip(l); last != nil && last.OpenEnded {
		if clip.LanePositionMs < last.LanePositionMs {
			return ErrClipOverlap
		}
		closeOut = last
		closedDuration = clip.LanePositionMs - last.LanePositionMs
	}

	for _, existing := range l.Clips {
		end := existing.EndMs()
		open := existing.OpenEnded
		if existing == closeOut {
			end = existing.LanePositionMs + closedDuration
			open = false
		}
		if overlaps(clip.LanePositionMs, clip.EndMs(), clip.OpenEnded, existing.LanePositionMs, end, open) {
			return ErrClipOverlap
		}
	}

	if closeOut != nil {
		closeOut.DurationMs = closedDuration
		closeOut.OpenEnded = false
	}

	clip.Lane = lane
	l.Clips = append(l.Clips, clip)
	sortClips(l)
	return nil
}

// MoveClip changes a clip's lane and/or position, revalidating the non-overlap
// invariant against the destination lane's other clips (excluding the clip
// being moved).
func MoveClip(t *models.GameTimeline, clipID uuid.UUID, newLane int, newPositionMs int64) error {
	clip, sourceLane := findClip(t, clipID)
	if clip == nil {
		return ErrClipNotFound
	}

	dest := t.Lane(newLane)
	if dest == nil {
		return ErrLaneNotFound
	}

	newEnd := newPositionMs + clip.DurationMs
	for _, existing := range dest.Clips {
		if existing.ID == clipID {
			continue
		}
		if overlaps(newPositionMs, newEnd, clip.OpenEnded, existing.LanePositionMs, existing.EndMs(), existing.OpenEnded) {
			return ErrClipOverlap
		}
	}

	if sourceLane != dest {
		removeFromLane(sourceLane, clipID)
		dest.Clips = append(dest.Clips, clip)
	}
	clip.Lane = newLane
	clip.LanePositionMs = newPositionMs
	sortClips(dest)
	return nil
}

// TrimClip sets a clip's playback window within its source media. Trim bounds
// must satisfy 0 <= start < end, where a nil trimEnd means play to the source
// media's natural end. Trim never resizes the clip's lane placement:
// DurationMs remains authoritative for where the clip sits on the timeline.
func TrimClip(clip *models.TimelineClip, trimStartMs int64, trimEndMs *int64) error {
	if trimStartMs < 0 {
		return ErrInvalidTrim
	}
	effectiveEnd := clip.DurationMs
	if trimEndMs != nil {
		effectiveEnd = *trimEndMs
	}
	if trimStartMs >= effectiveEnd {
		return ErrInvalidTrim
	}

	clip.TrimStartMs = trimStartMs
	clip.TrimEndMs = trimEndMs
	return nil
}

// RemoveClip deletes a clip from the timeline. Subsequent clips are not
// shifted: the resulting gap is a first-class, expected state.
func RemoveClip(t *models.GameTimeline, clipID uuid.UUID) error {
	clip, lane := findClip(t, clipID)
	if clip == nil {
		return ErrClipNotFound
	}
	removeFromLane(lane, clipID)
	return nil
}

// CombineClips builds a virtual sequence referencing existing clips in the
// given playback order. The operation is a read-only derived view: the source
// clips are never mutated. A sequence must reference at least one clip.
func CombineClips(gameID uuid.UUID, name string, clips []*models.TimelineClip) (*models.VirtualSequence, []*models.VirtualSequenceEntry, error) {
	if len(clips) == 0 {
		return nil, nil, ErrEmptyCombine
	}

	seq := models.NewVirtualSequence(gameID, name, len(clips))
	entries := make([]*models.VirtualSequenceEntry, len(clips))
	for i, clip := range clips {
		entries[i] = models.NewVirtualSequenceEntry(seq.ID, clip.ID, i)
	}
	return seq, entries, nil
}

// overlaps reports whether two half-open lane intervals intersect. An
// open-ended clip extends indefinitely until closed by a later append.
func overlaps(aStart, aEnd int64, aOpen bool, bStart, bEnd int64, bOpen bool) bool {
	if aOpen && bOpen {
		return true
	}
	if aOpen {
		return bEnd > aStart
	}
	if bOpen {
		return aEnd > bStart
	}
	return aStart < bEnd && bStart < aEnd
}

// lastClip returns the clip with the greatest lane position, nil for an empty lane
func lastClip(l *models.CameraLane) *models.TimelineClip {
	var last *models.TimelineClip
	for _, clip := range l.Clips {
		if last == nil || clip.LanePositionMs > last.LanePositionMs {
			last = clip
		}
	}
	return last
}

// findClip locates a clip and its lane anywhere on the timeline
func findClip(t *models.GameTimeline, clipID uuid.UUID) (*models.TimelineClip, *models.CameraLane) {
	for _, l := range t.Lanes {
		for _, clip := range l.Clips {
			if clip.ID == clipID {
				return clip, l
			}
		}
	}
	return nil, nil
}

func removeFromLane(l *models.CameraLane, clipID uuid.UUID) {
	for i, clip := range l.Clips {
		if clip.ID == clipID {
			l.Clips = append(l.Clips[:i], l.Clips[i+1:]...)
			return
		}
	}
}

func sortClips(l *models.CameraLane) {
	sort.Slice(l.Clips, func(i, j int) bool {
		return l.Clips[i].LanePositionMs < l.Clips[j].LanePositionMs
	})
}
