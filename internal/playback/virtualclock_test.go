package playback

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/timeline"
)

// gapUntil returns a resolver that reports a gap before clipStartMs and an
// active clip from clipStartMs onward
func gapUntil(clipStartMs int64, durationMs int64) ResolveFunc {
	clip := models.NewTimelineClip(uuid.New(), 1, "film/a.mp4", clipStartMs, durationMs)
	return func(timeMs int64) timeline.ActiveClip {
		if timeMs >= clipStartMs && timeMs < clipStartMs+durationMs {
			return timeline.ActiveClip{Clip: clip, ClipTimeMs: timeMs - clipStartMs}
		}
		if timeMs < clipStartMs {
			next := clipStartMs
			return timeline.ActiveClip{InGap: true, NextClipStartMs: &next}
		}
		return timeline.ActiveClip{InGap: true}
	}
}

// endOfCoverage resolves every time to a gap with no next clip
func endOfCoverage(int64) timeline.ActiveClip {
	return timeline.ActiveClip{InGap: true}
}

// handoffRecorder collects handoff invocations
type handoffRecorder struct {
	mu      sync.Mutex
	calls   int
	lastPos int64
	done    chan struct{}
}

func newHandoffRecorder() *handoffRecorder {
	return &handoffRecorder{done: make(chan struct{}, 1)}
}

func (h *handoffRecorder) fn(_ timeline.ActiveClip, positionMs int64) {
	h.mu.Lock()
	h.calls++
	h.lastPos = positionMs
	h.mu.Unlock()
	select {
	case h.done <- struct{}{}:
	default:
	}
}

func (h *handoffRecorder) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func TestVirtualClock_HandsOffWhenClipBecomesActive(t *testing.T) {
	rec := newHandoffRecorder()
	clock := NewVirtualClock(5*time.Millisecond, gapUntil(60, 5000), rec.fn)

	clock.Start(0)
	require.True(t, clock.Running())

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("virtual clock never handed off to the clip")
	}

	assert.False(t, clock.Running())
	assert.Equal(t, 1, rec.count())
	assert.GreaterOrEqual(t, clock.PositionMs(), int64(60))
}

func TestVirtualClock_ImmediateHandoffWhenAlreadyOnClip(t *testing.T) {
	rec := newHandoffRecorder()
	clock := NewVirtualClock(time.Hour, gapUntil(0, 5000), rec.fn)

	clock.Start(1000)

	assert.False(t, clock.Running())
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, int64(1000), clock.PositionMs())
}

func TestVirtualClock_ParksAtEndOfCoverage(t *testing.T) {
	rec := newHandoffRecorder()
	clock := NewVirtualClock(time.Hour, endOfCoverage, rec.fn)

	clock.Start(30000)

	assert.False(t, clock.Running())
	assert.Equal(t, 0, rec.count())
	assert.Equal(t, int64(30000), clock.PositionMs())
}

func TestVirtualClock_StaleTickIsNoOp(t *testing.T) {
	rec := newHandoffRecorder()
	// Hour-long interval so the real timer never fires during the test
	clock := NewVirtualClock(time.Hour, gapUntil(1_000_000, 5000), rec.fn)

	clock.Start(0)
	require.True(t, clock.Running())
	before := clock.PositionMs()

	// Generation 0 predates the activation, so this tick must do nothing even
	// though it claims a much later wall time
	alive := clock.tick(0, time.Now().Add(time.Hour))

	assert.False(t, alive)
	assert.True(t, clock.Running())
	assert.Equal(t, before, clock.PositionMs())
	assert.Equal(t, 0, rec.count())
}

func TestVirtualClock_CancelStopsAdvancement(t *testing.T) {
	rec := newHandoffRecorder()
	clock := NewVirtualClock(time.Hour, gapUntil(1_000_000, 5000), rec.fn)

	clock.Start(500)
	require.True(t, clock.Running())

	clock.Cancel()

	assert.False(t, clock.Running())
	assert.Equal(t, int64(500), clock.PositionMs())

	// A tick captured before the cancel must not advance the clock
	alive := clock.tick(1, time.Now().Add(time.Minute))
	assert.False(t, alive)
	assert.Equal(t, int64(500), clock.PositionMs())
}

func TestVirtualClock_RestartSupersedesPreviousRun(t *testing.T) {
	rec := newHandoffRecorder()
	clock := NewVirtualClock(time.Hour, gapUntil(1_000_000, 5000), rec.fn)

	clock.Start(100)
	clock.Start(900)

	assert.True(t, clock.Running())
	assert.Equal(t, int64(900), clock.PositionMs())
}
