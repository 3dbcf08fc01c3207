package timeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// Helper to build a timeline with the given lanes
func createTestTimeline(lanes ...*models.CameraLane) *models.GameTimeline {
	timeline := models.NewGameTimeline(uuid.New())
	timeline.Lanes = lanes
	return timeline
}

func TestAppendClip_UnknownLane(t *testing.T) {
	timeline := createTestTimeline(createTestLane(1))

	err := AppendClip(timeline, 2, createTestClip(2, 0, 5000))

	assert.ErrorIs(t, err, ErrLaneNotFound)
}

func TestAppendClip_KeepsClipsOrdered(t *testing.T) {
	lane := createTestLane(1)
	timeline := createTestTimeline(lane)

	require.NoError(t, AppendClip(timeline, 1, createTestClip(1, 10000, 5000)))
	require.NoError(t, AppendClip(timeline, 1, createTestClip(1, 0, 5000)))

	require.Len(t, lane.Clips, 2)
	assert.Equal(t, int64(0), lane.Clips[0].LanePositionMs)
	assert.Equal(t, int64(10000), lane.Clips[1].LanePositionMs)
}

func TestAppendClip_ClosesOpenEndedPredecessor(t *testing.T) {
	lane := createTestLane(1)
	timeline := createTestTimeline(lane)

	live := createTestClip(1, 0, 0)
	live.OpenEnded = true
	require.NoError(t, AppendClip(timeline, 1, live))

	next := createTestClip(1, 30000, 5000)
	require.NoError(t, AppendClip(timeline, 1, next))

	assert.False(t, live.OpenEnded)
	assert.Equal(t, int64(30000), live.DurationMs)
	assert.Equal(t, int64(30000), live.EndMs())
}

func TestAppendClip_OverlapRejectedWithoutMutation(t *testing.T) {
	lane := createTestLane(1)
	timeline := createTestTimeline(lane)

	existing := createTestClip(1, 0, 10000)
	require.NoError(t, AppendClip(timeline, 1, existing))

	overlapping := createTestClip(1, 5000, 5000)
	err := AppendClip(timeline, 1, overlapping)

	assert.ErrorIs(t, err, ErrClipOverlap)
	require.Len(t, lane.Clips, 1)
	assert.Equal(t, existing.ID, lane.Clips[0].ID)
}

func TestAppendClip_OverlapBeforeOpenEndedClip(t *testing.T) {
	lane := createTestLane(1)
	timeline := createTestTimeline(lane)

	live := createTestClip(1, 10000, 0)
	live.OpenEnded = true
	require.NoError(t, AppendClip(timeline, 1, live))

	// Inserting before an open-ended clip's start cannot close it
	err := AppendClip(timeline, 1, createTestClip(1, 5000, 2000))

	assert.ErrorIs(t, err, ErrClipOverlap)
	assert.True(t, live.OpenEnded, "rejected append must not close the live clip")
	require.Len(t, lane.Clips, 1)
}

func TestAppendClip_RejectionLeavesOpenEndedClipUntouched(t *testing.T) {
	lane := createTestLane(1)
	timeline := createTestTimeline(lane)

	live := createTestClip(1, 0, 0)
	live.OpenEnded = true
	require.NoError(t, AppendClip(timeline, 1, live))

	closed := createTestClip(1, 20000, 5000)
	require.NoError(t, AppendClip(timeline, 1, closed))

	// Would land inside the already-closed clip
	err := AppendClip(timeline, 1, createTestClip(1, 21000, 1000))

	assert.ErrorIs(t, err, ErrClipOverlap)
	require.Len(t, lane.Clips, 2)
}

func TestAppendClip_AdjacentClipsDoNotOverlap(t *testing.T) {
	lane := createTestLane(1)
	timeline := createTestTimeline(lane)

	require.NoError(t, AppendClip(timeline, 1, createTestClip(1, 0, 5000)))
	// End is exclusive, so a clip starting exactly at 5000 is legal
	require.NoError(t, AppendClip(timeline, 1, createTestClip(1, 5000, 5000)))

	assert.Len(t, lane.Clips, 2)
}

func TestMoveClip_AcrossLanes(t *testing.T) {
	lane1 := createTestLane(1)
	lane2 := createTestLane(2)
	timeline := createTestTimeline(lane1, lane2)

	clip := createTestClip(1, 0, 5000)
	require.NoError(t, AppendClip(timeline, 1, clip))

	err := MoveClip(timeline, clip.ID, 2, 8000)

	require.NoError(t, err)
	assert.Empty(t, lane1.Clips)
	require.Len(t, lane2.Clips, 1)
	assert.Equal(t, 2, clip.Lane)
	assert.Equal(t, int64(8000), clip.LanePositionMs)
}

func TestMoveClip_OverlapOnDestination(t *testing.T) {
	lane1 := createTestLane(1)
	lane2 := createTestLane(2)
	timeline := createTestTimeline(lane1, lane2)

	clip := createTestClip(1, 0, 5000)
	blocker := createTestClip(2, 7000, 5000)
	require.NoError(t, AppendClip(timeline, 1, clip))
	require.NoError(t, AppendClip(timeline, 2, blocker))

	err := MoveClip(timeline, clip.ID, 2, 9000)

	assert.ErrorIs(t, err, ErrClipOverlap)
	require.Len(t, lane1.Clips, 1)
	assert.Equal(t, int64(0), clip.LanePositionMs)
	assert.Equal(t, 1, clip.Lane)
}

func TestMoveClip_WithinLaneExcludesSelf(t *testing.T) {
	lane := createTestLane(1)
	timeline := createTestTimeline(lane)

	clip := createTestClip(1, 0, 5000)
	require.NoError(t, AppendClip(timeline, 1, clip))

	// Nudging a clip over its own old interval must not self-collide
	err := MoveClip(timeline, clip.ID, 1, 2000)

	require.NoError(t, err)
	assert.Equal(t, int64(2000), clip.LanePositionMs)
}

func TestMoveClip_NotFound(t *testing.T) {
	timeline := createTestTimeline(createTestLane(1))

	err := MoveClip(timeline, uuid.New(), 1, 0)

	assert.ErrorIs(t, err, ErrClipNotFound)
}

func TestTrimClip(t *testing.T) {
	end := int64(4000)

	tests := []struct {
		name        string
		trimStartMs int64
		trimEndMs   *int64
		wantErr     error
	}{
		{"valid window", 1000, &end, nil},
		{"nil end plays to natural end", 1000, nil, nil},
		{"negative start", -1, &end, ErrInvalidTrim},
		{"start equals end", 4000, &end, ErrInvalidTrim},
		{"start past end", 5000, &end, ErrInvalidTrim},
		{"nil end but start past duration", 10000, nil, ErrInvalidTrim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := createTestClip(1, 0, 10000)

			err := TrimClip(clip, tt.trimStartMs, tt.trimEndMs)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, int64(0), clip.TrimStartMs, "rejected trim must not mutate")
				assert.Nil(t, clip.TrimEndMs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.trimStartMs, clip.TrimStartMs)
			assert.Equal(t, tt.trimEndMs, clip.TrimEndMs)
		})
	}
}

func TestTrimClip_DoesNotResizeLanePlacement(t *testing.T) {
	clip := createTestClip(1, 5000, 10000)
	end := int64(3000)

	require.NoError(t, TrimClip(clip, 1000, &end))

	// Trim is a playback window within the source media; lane placement is
	// governed by DurationMs alone.
	assert.Equal(t, int64(5000), clip.LanePositionMs)
	assert.Equal(t, int64(10000), clip.DurationMs)
	assert.Equal(t, int64(15000), clip.EndMs())
}

func TestRemoveClip_LeavesGap(t *testing.T) {
	lane := createTestLane(1)
	timeline := createTestTimeline(lane)

	first := createTestClip(1, 0, 5000)
	second := createTestClip(1, 10000, 5000)
	third := createTestClip(1, 20000, 5000)
	require.NoError(t, AppendClip(timeline, 1, first))
	require.NoError(t, AppendClip(timeline, 1, second))
	require.NoError(t, AppendClip(timeline, 1, third))

	require.NoError(t, RemoveClip(timeline, second.ID))

	// Later clips must not shift: gaps are first-class
	require.Len(t, lane.Clips, 2)
	assert.Equal(t, int64(0), lane.Clips[0].LanePositionMs)
	assert.Equal(t, int64(20000), lane.Clips[1].LanePositionMs)

	result := Resolve(timeline.Lanes, 1, 12000)
	assert.True(t, result.InGap)
	require.NotNil(t, result.NextClipStartMs)
	assert.Equal(t, int64(20000), *result.NextClipStartMs)
}

func TestRemoveClip_NotFound(t *testing.T) {
	timeline := createTestTimeline(createTestLane(1))

	assert.ErrorIs(t, RemoveClip(timeline, uuid.New()), ErrClipNotFound)
}

func TestCombineClips_NonDestructive(t *testing.T) {
	gameID := uuid.New()
	a := createTestClip(1, 0, 5000)
	b := createTestClip(2, 3000, 4000)
	c := createTestClip(1, 10000, 5000)

	// Snapshot the sources before combining
	beforeA, beforeB, beforeC := *a, *b, *c

	seq, entries, err := CombineClips(gameID, "Scoring drives", []*models.TimelineClip{a, b, c})

	require.NoError(t, err)
	assert.Equal(t, 3, seq.ClipCount)
	assert.Equal(t, "Scoring drives", seq.Name)
	require.Len(t, entries, 3)
	assert.Equal(t, a.ID, entries[0].ClipID)
	assert.Equal(t, b.ID, entries[1].ClipID)
	assert.Equal(t, c.ID, entries[2].ClipID)
	for i, entry := range entries {
		assert.Equal(t, i, entry.Position)
		assert.Equal(t, seq.ID, entry.SequenceID)
	}

	assert.Equal(t, beforeA, *a)
	assert.Equal(t, beforeB, *b)
	assert.Equal(t, beforeC, *c)
}

func TestCombineClips_RequiresAtLeastOneClip(t *testing.T) {
	_, _, err := CombineClips(uuid.New(), "empty", nil)
	assert.ErrorIs(t, err, ErrEmptyCombine)
}

func TestGameTimeline_DurationMs(t *testing.T) {
	lane1 := createTestLane(1, createTestClip(1, 0, 5000))
	lane2 := createTestLane(2, createTestClip(2, 10000, 20000))
	timeline := createTestTimeline(lane1, lane2)

	assert.Equal(t, int64(30000), timeline.DurationMs())
}
