package timeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// Helper to create a test clip anchored on a lane
func createTestClip(lane int, positionMs, durationMs int64) *models.TimelineClip {
	return models.NewTimelineClip(uuid.New(), lane, "film/"+uuid.NewString()+".mp4", positionMs, durationMs)
}

// Helper to create a test lane with clips
func createTestLane(lane int, clips ...*models.TimelineClip) *models.CameraLane {
	l := models.NewCameraLane(uuid.New(), lane, "Sideline")
	l.Clips = clips
	return l
}

func TestResolve_UnknownLane(t *testing.T) {
	lanes := []*models.CameraLane{createTestLane(1, createTestClip(1, 0, 5000))}

	result := Resolve(lanes, 3, 1000)

	assert.True(t, result.InGap)
	assert.Nil(t, result.Clip)
	assert.Nil(t, result.NextClipStartMs)
}

func TestResolve_EmptyLane(t *testing.T) {
	lanes := []*models.CameraLane{createTestLane(2)}

	result := Resolve(lanes, 2, 0)

	assert.True(t, result.InGap)
	assert.Nil(t, result.NextClipStartMs)
}

func TestResolve_ClipBoundaries(t *testing.T) {
	// Single clip at [5000, 15000)
	clip := createTestClip(1, 5000, 10000)
	lanes := []*models.CameraLane{createTestLane(1, clip)}

	t.Run("start is inclusive", func(t *testing.T) {
		result := Resolve(lanes, 1, 5000)
		require.NotNil(t, result.Clip)
		assert.Equal(t, clip.ID, result.Clip.ID)
		assert.Equal(t, int64(0), result.ClipTimeMs)
		assert.False(t, result.InGap)
	})

	t.Run("last millisecond is active", func(t *testing.T) {
		result := Resolve(lanes, 1, 14999)
		require.NotNil(t, result.Clip)
		assert.Equal(t, int64(9999), result.ClipTimeMs)
	})

	t.Run("end is exclusive", func(t *testing.T) {
		result := Resolve(lanes, 1, 15000)
		assert.True(t, result.InGap)
		assert.Nil(t, result.Clip)
		assert.Nil(t, result.NextClipStartMs)
	})

	t.Run("before first clip reports next start", func(t *testing.T) {
		result := Resolve(lanes, 1, 2000)
		assert.True(t, result.InGap)
		require.NotNil(t, result.NextClipStartMs)
		assert.Equal(t, int64(5000), *result.NextClipStartMs)
	})
}

func TestResolve_GapBetweenClips(t *testing.T) {
	// Clips at [0, 5000) and [10000, 15000)
	first := createTestClip(1, 0, 5000)
	second := createTestClip(1, 10000, 5000)
	lanes := []*models.CameraLane{createTestLane(1, first, second)}

	result := Resolve(lanes, 1, 7000)

	assert.True(t, result.InGap)
	require.NotNil(t, result.NextClipStartMs)
	assert.Equal(t, int64(10000), *result.NextClipStartMs)
}

func TestResolve_AfterLastClip(t *testing.T) {
	lanes := []*models.CameraLane{createTestLane(1, createTestClip(1, 0, 5000))}

	result := Resolve(lanes, 1, 60000)

	assert.True(t, result.InGap)
	assert.Nil(t, result.NextClipStartMs)
}

func TestResolve_MidClipOffset(t *testing.T) {
	clip := createTestClip(1, 5000, 10000)
	lanes := []*models.CameraLane{createTestLane(1, clip)}

	result := Resolve(lanes, 1, 9300)

	require.NotNil(t, result.Clip)
	assert.Equal(t, int64(4300), result.ClipTimeMs)
}

func TestResolve_OpenEndedClip(t *testing.T) {
	clip := createTestClip(1, 1000, 0)
	clip.OpenEnded = true
	lanes := []*models.CameraLane{createTestLane(1, clip)}

	result := Resolve(lanes, 1, 500_000)

	require.NotNil(t, result.Clip)
	assert.Equal(t, int64(499_000), result.ClipTimeMs)
	assert.False(t, result.InGap)
}

func TestResolve_UnorderedClips(t *testing.T) {
	// Resolution must not depend on stored clip order
	second := createTestClip(1, 10000, 5000)
	first := createTestClip(1, 0, 5000)
	lanes := []*models.CameraLane{createTestLane(1, second, first)}

	result := Resolve(lanes, 1, 6000)

	assert.True(t, result.InGap)
	require.NotNil(t, result.NextClipStartMs)
	assert.Equal(t, int64(10000), *result.NextClipStartMs)
}

func TestResolveTimeline_AppliesSyncOffset(t *testing.T) {
	gameID := uuid.New()
	timeline := models.NewGameTimeline(gameID)

	lane := models.NewCameraLane(gameID, 2, "End Zone")
	lane.SyncOffsetMs = 2000
	lane.Clips = []*models.TimelineClip{createTestClip(2, 5000, 10000)}
	timeline.Lanes = []*models.CameraLane{lane}

	// Game time 3000 + sync offset 2000 lands exactly on the clip start
	result := ResolveTimeline(timeline, 2, 3000)

	require.NotNil(t, result.Clip)
	assert.Equal(t, int64(0), result.ClipTimeMs)
}

func TestResolveTimeline_NilTimeline(t *testing.T) {
	result := ResolveTimeline(nil, 1, 0)
	assert.True(t, result.InGap)
}
