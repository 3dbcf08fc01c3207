package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/logger"
)

// SwitchState represents the state of the camera switch machine
type SwitchState int

const (
	// StateIdle indicates no switch is underway
	StateIdle SwitchState = iota
	// StateSwitching indicates a switch is resolving, loading, and seeking
	StateSwitching
)

// String returns the string representation of SwitchState
func (s SwitchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSwitching:
		return "switching"
	default:
		return "unknown"
	}
}

// pendingSwitch is the transient state of one switch operation. Created when a
// switch is requested, destroyed when it completes or fails; nothing survives
// a cancelled switch.
type pendingSwitch struct {
	targetLane        int
	targetGameTimeMs  int64
	resumeAfterSwitch bool
}

// Switcher orchestrates switching the live camera mid-playback: suspend,
// resolve the target clip at the current game time, obtain its URL, seek, and
// resume. The Switching state is the mutual-exclusion mechanism: a second
// request while one is pending is dropped, never queued, so interleaved seeks
// cannot corrupt the displayed game time.
type Switcher struct {
	gameID   uuid.UUID
	resolver Resolver
	urls     URLProvider
	player   MediaPlayer
	clock    *VirtualClock
	recorder SelectionRecorder
	debounce time.Duration

	mu          sync.Mutex
	state       SwitchState
	pending     *pendingSwitch
	lastRequest time.Time
	currentLane int
	closed      bool
}

// NewSwitcher creates a switch state machine for one playback session.
// recorder may be nil when the session should not feed the selection ledger.
func NewSwitcher(
	gameID uuid.UUID,
	resolver Resolver,
	urls URLProvider,
	player MediaPlayer,
	clock *VirtualClock,
	recorder SelectionRecorder,
	debounce time.Duration,
) *Switcher {
	return &Switcher{
		gameID:   gameID,
		resolver: resolver,
		urls:     urls,
		player:   player,
		clock:    clock,
		recorder: recorder,
		debounce: debounce,
		state:    StateIdle,
	}
}

// State returns the machine's current state
func (s *Switcher) State() SwitchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentLane returns the lane whose camera is live
func (s *Switcher) CurrentLane() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLane
}

// PendingTarget returns the in-flight switch target, or (0, false) when idle
func (s *Switcher) PendingTarget() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return 0, false
	}
	return s.pending.targetLane, true
}

// RequestSwitch switches the live camera to targetLane at targetGameTimeMs.
// A request that arrives while another switch is in progress, or inside the
// debounce window, is dropped (ErrSwitchInProgress / ErrSwitchDebounced);
// the pending target is never replaced. Any real failure returns the machine
// to Idle with a recoverable error; playback is never left stuck mid-switch.
func (s *Switcher) RequestSwitch(ctx context.Context, targetLane int, targetGameTimeMs int64) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state == StateSwitching {
		s.mu.Unlock()
		logger.Log.Debug().
			Int("target_lane", targetLane).
			Msg("Switch request dropped: already switching")
		return ErrSwitchInProgress
	}
	if !s.lastRequest.IsZero() && time.Since(s.lastRequest) < s.debounce {
		s.mu.Unlock()
		logger.Log.Debug().
			Int("target_lane", targetLane).
			Dur("debounce", s.debounce).
			Msg("Switch request dropped: inside debounce window")
		return ErrSwitchDebounced
	}

	s.lastRequest = time.Now()
	s.state = StateSwitching
	s.pending = &pendingSwitch{
		targetLane:        targetLane,
		targetGameTimeMs:  targetGameTimeMs,
		resumeAfterSwitch: s.player.IsPlaying(),
	}
	resume := s.pending.resumeAfterSwitch
	s.mu.Unlock()

	// No partial state survives a switch, successful or not
	defer func() {
		s.mu.Lock()
		s.state = StateIdle
		s.pending = nil
		s.mu.Unlock()
	}()

	// Suspend playback and any gap traversal before touching the player
	s.clock.Cancel()
	s.player.Pause()

	result, err := s.resolver.ResolveAt(ctx, s.gameID, targetLane, targetGameTimeMs)
	if err != nil {
		return fmt.Errorf("failed to resolve switch target: %w", err)
	}

	if result.InGap {
		// No coverage on the target lane: hand off to the virtual clock so
		// the playhead stays live on the synthetic position, media paused
		// until a clip becomes active. A shutdown that raced this switch must
		// not see the clock restarted.
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return ErrSessionClosed
		}
		s.currentLane = targetLane
		s.mu.Unlock()
		s.record(ctx, targetLane, nil, targetGameTimeMs)
		s.clock.Start(targetGameTimeMs)
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			s.clock.Cancel()
			return ErrSessionClosed
		}
		s.mu.Unlock()

		logger.Log.Info().
			Int("lane", targetLane).
			Int64("game_time_ms", targetGameTimeMs).
			Msg("Switched into coverage gap, virtual clock live")
		return nil
	}

	url, err := s.urls.EnsureURL(ctx, result.Clip)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Int("lane", targetLane).
			Str("clip_id", result.Clip.ID.String()).
			Msg("Switch failed: media unavailable")
		return fmt.Errorf("%w: %v", ErrMediaUnavailable, err)
	}

	if err := s.player.Load(ctx, url); err != nil {
		return fmt.Errorf("%w: load: %v", ErrMediaUnavailable, err)
	}
	if err := s.player.Seek(ctx, result.ClipTimeMs); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	// Restore playback only once the media can actually play at the target
	if resume && s.player.Buffered(result.ClipTimeMs) {
		if err := s.player.Play(ctx); err != nil && !errors.Is(err, ErrAutoplayBlocked) {
			return fmt.Errorf("failed to resume playback: %w", err)
		}
	}

	s.setCurrentLane(targetLane)
	clipID := result.Clip.ID
	s.record(ctx, targetLane, &clipID, targetGameTimeMs)

	logger.Log.Info().
		Int("lane", targetLane).
		Str("clip_id", result.Clip.ID.String()).
		Int64("clip_time_ms", result.ClipTimeMs).
		Bool("resumed", resume).
		Msg("Camera switch complete")

	return nil
}

// Shutdown ends the session: the virtual clock is cancelled and every
// subsequent or in-flight switch request fails with ErrSessionClosed. A
// switch already past its resolve re-checks the closed flag before handing
// off to the clock, so the clock stays stopped.
func (s *Switcher) Shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.clock.Cancel()
}

func (s *Switcher) setCurrentLane(lane int) {
	s.mu.Lock()
	s.currentLane = lane
	s.mu.Unlock()
}

// record appends to the selection ledger, logging but not failing the switch
// when persistence is unavailable
func (s *Switcher) record(ctx context.Context, lane int, clipID *uuid.UUID, gameTimeMs int64) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordSwitch(ctx, s.gameID, lane, clipID, float64(gameTimeMs)/1000.0); err != nil {
		logger.Log.Warn().
			Err(err).
			Int("lane", lane).
			Msg("Failed to record camera selection")
	}
}
