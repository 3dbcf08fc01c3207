package playback

import (
	"sync"
	"time"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/logger"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/timeline"
)

// ResolveFunc resolves the active clip at a synthetic timeline position
type ResolveFunc func(timeMs int64) timeline.ActiveClip

// HandoffFunc is invoked once when the synthetic clock reaches a clip.
// Called outside the clock's lock; the clock has already stopped.
type HandoffFunc func(result timeline.ActiveClip, positionMs int64)

// VirtualClock advances a synthetic timeline position at 1:1 wall-clock rate
// while no clip covers the current lane, so the visible playhead keeps moving
// through coverage gaps. The instant the resolver reports an active clip the
// clock stops and hands off to real playback.
//
// Cancellation uses a monotonic generation token: every activation and
// cancellation bumps the generation, and a tick whose captured generation no
// longer matches is a stale no-op. Timers cannot be stopped synchronously
// mid-flight, so this is the only safe way to keep a superseded run from
// mutating the clock.
type VirtualClock struct {
	interval time.Duration
	resolve  ResolveFunc
	handoff  HandoffFunc

	mu         sync.Mutex
	generation uint64
	running    bool
	positionMs int64
	startedAt  time.Time
	originMs   int64
	ticker     *time.Ticker
	stopChan   chan struct{}
}

// NewVirtualClock creates a stopped virtual clock
func NewVirtualClock(interval time.Duration, resolve ResolveFunc, handoff HandoffFunc) *VirtualClock {
	return &VirtualClock{
		interval: interval,
		resolve:  resolve,
		handoff:  handoff,
	}
}

// Start activates the clock at the given timeline position. Any previous run
// is superseded. When the lane has no further coverage the clock parks at the
// position without advancing.
func (c *VirtualClock) Start(startMs int64) {
	c.mu.Lock()

	// Supersede any previous run before activating
	c.stopLocked()
	gen := c.generation
	c.positionMs = startMs
	c.originMs = startMs
	c.startedAt = time.Now()

	result := c.resolve(startMs)
	if !result.InGap {
		// Already on a clip: no synthetic advancement needed
		c.running = false
		c.mu.Unlock()
		c.handoff(result, startMs)
		return
	}
	if result.NextClipStartMs == nil {
		// End of coverage: idle, do not advance further
		c.running = false
		c.mu.Unlock()
		logger.Log.Debug().
			Int64("position_ms", startMs).
			Msg("Virtual clock parked at end of coverage")
		return
	}

	c.running = true
	c.ticker = time.NewTicker(c.interval)
	c.stopChan = make(chan struct{})
	ticker := c.ticker
	stop := c.stopChan
	c.mu.Unlock()

	logger.Log.Debug().
		Int64("position_ms", startMs).
		Int64("next_clip_start_ms", *result.NextClipStartMs).
		Msg("Virtual clock started")

	go func() {
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				if !c.tick(gen, now) {
					return
				}
			}
		}
	}()
}

// tick advances the synthetic position for one timer fire. Returns false when
// the run is finished (stale, cancelled, or handed off) and the goroutine
// should exit. Exposed to tests against captured generations.
func (c *VirtualClock) tick(gen uint64, now time.Time) bool {
	c.mu.Lock()
	if gen != c.generation || !c.running {
		// Stale tick from a superseded activation
		c.mu.Unlock()
		return false
	}

	// 1:1 wall-clock rate, computed from the activation instant so the
	// position never drifts with tick jitter and never decreases.
	pos := c.originMs + now.Sub(c.startedAt).Milliseconds()
	if pos > c.positionMs {
		c.positionMs = pos
	} else {
		pos = c.positionMs
	}

	result := c.resolve(pos)
	if result.InGap {
		if result.NextClipStartMs == nil {
			// Walked off the end of coverage mid-run
			c.stopLocked()
			c.mu.Unlock()
			return false
		}
		c.mu.Unlock()
		return true
	}

	// A clip became active: stop before handing off so no later tick can fire
	c.stopLocked()
	c.mu.Unlock()

	logger.Log.Debug().
		Int64("position_ms", pos).
		Msg("Virtual clock reached clip, handing off")

	c.handoff(result, pos)
	return false
}

// Cancel atomically stops the clock. No tick from the cancelled run can
// advance the position afterwards.
func (c *VirtualClock) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Running reports whether the clock is actively advancing
func (c *VirtualClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// PositionMs reports the current synthetic timeline position
func (c *VirtualClock) PositionMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionMs
}

// stopLocked supersedes the current run. Caller holds c.mu.
func (c *VirtualClock) stopLocked() {
	c.generation++
	c.running = false
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if c.stopChan != nil {
		close(c.stopChan)
		c.stopChan = nil
	}
}
